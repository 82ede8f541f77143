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

package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/andreas-jonsson/virtualvip/emulator"
	"github.com/andreas-jonsson/virtualvip/emulator/vip"
	"github.com/andreas-jonsson/virtualvip/platform"
	"github.com/andreas-jonsson/virtualvip/version"
	"github.com/spf13/cobra"
)

var (
	defaultROM   = "rom/vip.rom"
	defaultBoard []string
	defaultRAM   = vip.DefaultRAMKB
)

func init() {
	if p, ok := os.LookupEnv("VVIP_DEFAULT_ROM_PATH"); ok {
		defaultROM = p
	}
	if b, ok := os.LookupEnv("VVIP_DEFAULT_BOARD"); ok && b != "" {
		defaultBoard = []string{b}
	}
	if s, ok := os.LookupEnv("VVIP_DEFAULT_RAM"); ok {
		if kb, err := strconv.Atoi(s); err == nil {
			defaultRAM = kb
		} else {
			log.Printf("invalid VVIP_DEFAULT_RAM: %v", err)
		}
	}
}

type machineFlags struct {
	cfg    emulator.Config
	boards []string
}

func (f *machineFlags) register(cmd *cobra.Command) {
	fl := cmd.PersistentFlags()
	fl.StringVar(&f.cfg.ROM, "rom", defaultROM, "Path to ROM image")
	fl.IntVar(&f.cfg.RAM, "ram", defaultRAM, "RAM size in kilobytes (1-32)")
	fl.StringSliceVar(&f.boards, "board", defaultBoard, "Expansion boards to install (vp585, vp590, vp595)")
	fl.StringVar(&f.cfg.Load, "load", "", "Load a memory image into RAM")
	fl.IntVar(&f.cfg.LoadAt, "load-at", 0, "RAM address of the loaded memory image")
	fl.IntVar(&f.cfg.Volume, "volume", f.cfg.Volume, "Audio volume (0-100)")
	fl.StringVar(&f.cfg.RecordWAV, "record-wav", "", "Record audio output to a WAV file")
	fl.StringVar(&f.cfg.Trace, "trace", "", "Write an instruction trace (requires the validator build tag)")
	fl.BoolVar(&f.cfg.Stats, "stats", false, "Report CPU statistics")
}

func (f *machineFlags) config() (emulator.Config, error) {
	cfg := f.cfg
	cfg.Boards = nil
	for _, s := range f.boards {
		b, err := vip.ParseExpansionBoard(s)
		if err != nil {
			return cfg, err
		}
		cfg.Boards = append(cfg.Boards, b)
	}
	return cfg, nil
}

func newRootCommand() *cobra.Command {
	mf := &machineFlags{cfg: emulator.DefaultConfig()}

	var (
		textMode,
		noAudio,
		fullscreen bool
	)

	rootCmd := &cobra.Command{
		Use:          "virtualvip",
		Short:        "RCA COSMAC VIP emulator",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := mf.config()
			if err != nil {
				return err
			}

			var configs []platform.Config
			if !noAudio {
				configs = append(configs, platform.ConfigWithAudio)
			}
			if fullscreen {
				configs = append(configs, platform.ConfigWithFullscreen)
			}
			platform.UseTextMode(textMode)

			printLogo()
			emulator.Start(cfg, configs...)
			return nil
		},
	}
	mf.register(rootCmd)
	rootCmd.Flags().BoolVar(&textMode, "text", false, "Render in the terminal")
	rootCmd.Flags().BoolVar(&noAudio, "no-audio", false, "Disable audio")
	rootCmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "Start in fullscreen mode")
	rootCmd.Flags().BoolVar(&mf.cfg.Run, "run", false, "Turn the RUN switch on at start")

	var (
		duration time.Duration
		snap     emulator.Snapshot
	)

	execCmd := &cobra.Command{
		Use:   "exec",
		Short: "Run the machine headless for a fixed amount of emulated time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := mf.config()
			if err != nil {
				return err
			}
			return emulator.Exec(cfg, duration, snap)
		},
	}
	execCmd.Flags().DurationVar(&duration, "duration", time.Second, "Emulated time to run")
	execCmd.Flags().StringVar(&snap.Name, "save", "", "Save RAM to a file when done")
	execCmd.Flags().IntVar(&snap.Start, "save-start", 0, "First RAM address to save")
	execCmd.Flags().IntVar(&snap.Size, "save-size", 0, "Number of bytes to save (0 = to end of RAM)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}

	rootCmd.AddCommand(execCmd, versionCmd)
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func printLogo() {
	fmt.Print(logo)
	fmt.Println("v" + version.Current.String())
	fmt.Println(" ───────═════ " + version.Copyright + " ══════───────")
	fmt.Println()
}

var logo = `
██╗   ██╗██╗██████╗ ████████╗██╗   ██╗ █████╗ ██╗     ██╗   ██╗██╗██████╗
██║   ██║██║██╔══██╗╚══██╔══╝██║   ██║██╔══██╗██║     ██║   ██║██║██╔══██╗
██║   ██║██║██████╔╝   ██║   ██║   ██║███████║██║     ██║   ██║██║██████╔╝
╚██╗ ██╔╝██║██╔══██╗   ██║   ██║   ██║██╔══██║██║     ╚██╗ ██╔╝██║██╔═══╝
 ╚████╔╝ ██║██║  ██║   ██║   ╚██████╔╝██║  ██║███████╗ ╚████╔╝ ██║██║
  ╚═══╝  ╚═╝╚═╝  ╚═╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝╚══════╝  ╚═══╝  ╚═╝╚═╝`
