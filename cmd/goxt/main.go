// Copyright © 2020 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/urfave/cli.v2"

	"github.com/master-g/goxt/pkg/board"
	"github.com/master-g/goxt/pkg/log"
	"github.com/master-g/goxt/pkg/mg8088"
	"github.com/master-g/goxt/pkg/rom"
	"github.com/master-g/goxt/pkg/scheduler"
)

func main() {
	app := &cli.App{
		Name:    "goxt",
		Usage:   "IBM PC/XT emulator",
		Version: "v0.1.0",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "boot the machine from ROM images",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "bios",
						Aliases: []string{"b"},
						Usage:   "64 KiB BIOS ROM image",
					},
					&cli.StringFlag{
						Name:    "video",
						Aliases: []string{"v"},
						Usage:   "video option ROM image (optional)",
					},
					&cli.StringFlag{
						Name:    "disk",
						Aliases: []string{"d"},
						Usage:   "fixed-disk option ROM image (optional)",
					},
					&cli.IntFlag{
						Name:  "dip",
						Usage: "configuration DIP switch block",
						Value: 0x2D,
					},
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "log every retired instruction",
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "log chip state transitions",
					},
				},
				Action: runMachine,
			},
			{
				Name:  "disasm",
				Usage: "disassemble a ROM image as 16-bit code",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "rom",
						Aliases: []string{"r"},
						Usage:   "ROM image to decode",
					},
					&cli.IntFlag{
						Name:    "org",
						Aliases: []string{"o"},
						Usage:   "load address of the image",
						Value:   0xF0000,
					},
				},
				Action: runDisasm,
			},
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	app.Run(os.Args)
}

func runMachine(c *cli.Context) error {
	if c.String("bios") == "" {
		cli.ShowSubcommandHelp(c)
		return cli.Exit("a bios rom is required", 1)
	}
	switch {
	case c.Bool("trace"):
		log.SetLevel(log.LevelTrace)
	case c.Bool("debug"):
		log.SetLevel(log.LevelDebug)
	}

	biosROM, err := rom.LoadBIOS(c.String("bios"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	videoROM, err := rom.LoadVideo(c.String("video"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	diskROM, err := rom.LoadDisk(c.String("disk"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	sched := scheduler.New()
	cfg := board.Config{Switches: uint8(c.Int("dip"))}
	b, err := board.New(sched, cfg, biosROM, videoROM, diskROM)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	log.Infof("powering on")
	b.Power()
	sched.Run()
	log.Infof("machine halted with nothing scheduled, shutting down")
	return nil
}

func runDisasm(c *cli.Context) error {
	if c.String("rom") == "" {
		cli.ShowSubcommandHelp(c)
		return cli.Exit("a rom image is required", 1)
	}
	data, err := rom.Load(c.String("rom"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	for _, line := range mg8088.Disassemble(data, uint64(c.Int("org"))) {
		fmt.Println(line)
	}
	return nil
}
