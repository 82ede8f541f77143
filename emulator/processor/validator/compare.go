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

package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Match selects what two trace events must share to count as equal.
type Match int

const (
	// MatchLocation compares the opcode and the program counter.
	MatchLocation Match = iota
	// MatchInput also compares the registers before the instruction and
	// the data read from memory.
	MatchInput
	// MatchAll compares everything.
	MatchAll
)

func (m Match) String() string {
	switch m {
	case MatchLocation:
		return "location"
	case MatchInput:
		return "input"
	case MatchAll:
		return "all"
	default:
		return fmt.Sprintf("match(%d)", int(m))
	}
}

func ParseMatch(s string) (Match, error) {
	for m := MatchLocation; m <= MatchAll; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return MatchLocation, fmt.Errorf("unknown match mode %q", s)
}

func (m Match) Equal(a, b *Event) bool {
	ar, br := &a.Regs[0], &b.Regs[0]
	if a.Opcode != b.Opcode || ar.R[ar.P&0xF] != br.R[br.P&0xF] {
		return false
	}
	if m == MatchLocation {
		return true
	}

	if *ar != *br || !equalOps(a.Reads, b.Reads) {
		return false
	}
	if m == MatchInput {
		return true
	}
	return a.Regs[1] == b.Regs[1] && equalOps(a.Writes, b.Writes)
}

func equalOps(a, b []MemOp) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type Divergence struct {
	Index int
	A, B  Event
}

type Result struct {
	Compared, Equal int

	// First is the first pair of events that did not match.
	First *Divergence
}

// Compare decodes two JSON-lines traces side by side until one of them
// ends or limit events are compared. A limit of zero compares everything.
func Compare(a, b io.Reader, m Match, limit int) (Result, error) {
	var res Result
	decA, decB := json.NewDecoder(a), json.NewDecoder(b)

	for limit == 0 || res.Compared < limit {
		var ea, eb Event
		if err := decA.Decode(&ea); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return res, fmt.Errorf("could not decode event %d: %w", res.Compared, err)
		}
		if err := decB.Decode(&eb); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return res, fmt.Errorf("could not decode reference event %d: %w", res.Compared, err)
		}

		if m.Equal(&ea, &eb) {
			res.Equal++
		} else if res.First == nil {
			res.First = &Divergence{Index: res.Compared, A: ea, B: eb}
		}
		res.Compared++
	}
	return res, nil
}
