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

// Command tracecmp compares an instruction trace written by virtualvip
// --trace against a trace from a reference implementation.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/andreas-jonsson/virtualvip/emulator/processor/validator"
	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)

	var (
		match string
		limit int
	)

	cmd := &cobra.Command{
		Use:          "tracecmp <trace.json> <reference.json>",
		Short:        "Compare two CDP1802 instruction traces",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := validator.ParseMatch(match)
			if err != nil {
				return err
			}

			a, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer b.Close()

			res, err := validator.Compare(a, b, m, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Equal: %d of %d\n", res.Equal, res.Compared)
			if d := res.First; d != nil {
				fmt.Fprintf(out, "First divergence at event %d (opcode 0x%02X)\n", d.Index, d.A.Opcode)
				fmt.Fprintf(out, "  trace:     %s -> %s\n", d.A.Regs[0].String(), d.A.Regs[1].String())
				fmt.Fprintf(out, "  reference: %s -> %s\n", d.B.Regs[0].String(), d.B.Regs[1].String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&match, "match", validator.MatchAll.String(), "What events must share to be equal (location, input, all)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of events to compare (0 = all)")

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
