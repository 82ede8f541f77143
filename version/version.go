/*
Copyright (C) 2019-2020 Andreas T Jonsson

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/


// Package version holds the release information printed by the command
// line tool.
package version

import "fmt"

const Name = "VirtualVIP"

type Version struct {
	Major, Minor, Patch byte
	Build               string
}

func New(major, minor, patch byte) Version {
	return Version{major, minor, patch, ""}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v Version) FullString() string {
	if v.Build == "" {
		return v.String()
	}
	return fmt.Sprintf("%s-%s", v.String(), v.Build)
}

// Compatible reports whether memory images and traces written by ver can
// be read by v.
func (v Version) Compatible(ver Version) bool {
	return v.Major == ver.Major && v.Minor == ver.Minor
}

// Info returns the name, full version and commit hash on one line.
func Info() string {
	if Hash == "" {
		return fmt.Sprintf("%s %s", Name, Current.FullString())
	}
	return fmt.Sprintf("%s %s (%s)", Name, Current.FullString(), Hash)
}
