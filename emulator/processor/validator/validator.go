//go:build validator
// +build validator

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
	"bufio"
	"encoding/json"
	"log"
	"os"

	"github.com/andreas-jonsson/virtualvip/emulator/processor"
)

const Enabled = true

var (
	inScope      bool
	currentEvent Event
	outputChan   chan Event
	quitChan     chan struct{}
)

// Initialize starts writing one JSON event per executed instruction to output.
func Initialize(output string, queueSize, bufferSize int) {
	if output == "" {
		return
	}

	fp, err := os.Create(output)
	if err != nil {
		log.Panic(err)
	}

	outputChan = make(chan Event, queueSize)
	quitChan = make(chan struct{})

	go func() {
		writer := bufio.NewWriterSize(fp, bufferSize)
		defer func() {
			if err := writer.Flush(); err != nil {
				log.Print(err)
			}
			fp.Close()
			close(quitChan)
		}()

		enc := json.NewEncoder(writer)
		for ev := range outputChan {
			if err := enc.Encode(ev); err != nil {
				log.Print(err)
				return
			}
		}
	}()
}

func Begin(opcode byte, regs processor.Registers) {
	if outputChan == nil {
		return
	}

	inScope = true
	currentEvent = Event{Opcode: opcode}
	currentEvent.Regs[0] = regs
}

func End(regs processor.Registers) {
	if !inScope {
		return
	}

	inScope = false
	currentEvent.Regs[1] = regs
	outputChan <- currentEvent
}

func Discard() {
	inScope = false
}

func ReadByte(addr uint16, data byte) {
	if inScope {
		currentEvent.Reads = append(currentEvent.Reads, MemOp{addr, data})
	}
}

func WriteByte(addr uint16, data byte) {
	if inScope {
		currentEvent.Writes = append(currentEvent.Writes, MemOp{addr, data})
	}
}

func Shutdown() {
	if outputChan == nil {
		return
	}
	close(outputChan)
	<-quitChan
	outputChan = nil
}
