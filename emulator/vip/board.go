/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package vip

import (
	"fmt"
	"strings"
)

// ExpansionBoard identifies an optional VIP expansion card.
type ExpansionBoard int

const (
	None ExpansionBoard = iota
	VP585
	VP590
	VP595
)

var boardNames = map[ExpansionBoard]string{
	None:  "none",
	VP585: "vp585",
	VP590: "vp590",
	VP595: "vp595",
}

func (b ExpansionBoard) String() string {
	if s, ok := boardNames[b]; ok {
		return s
	}
	return fmt.Sprintf("board(%d)", int(b))
}

func (b ExpansionBoard) Description() string {
	switch b {
	case VP585:
		return "VP-585 Expansion Keypad Interface"
	case VP590:
		return "VP-590 Color Board"
	case VP595:
		return "VP-595 Simple Sound Board"
	default:
		return "No expansion board"
	}
}

func ParseExpansionBoard(s string) (ExpansionBoard, error) {
	name := strings.ToLower(strings.TrimSpace(strings.Replace(s, "-", "", -1)))
	for b, n := range boardNames {
		if n == name {
			return b, nil
		}
	}
	return None, fmt.Errorf("%q: %w", s, ErrUnknownBoard)
}

func validBoard(b ExpansionBoard) bool {
	return b > None && b <= VP595
}
