package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/clktmr/unicone/tools/disk"
	"github.com/clktmr/unicone/tools/iffl"
	"github.com/clktmr/unicone/tools/palette"
	"github.com/clktmr/unicone/tools/sfx"
)

const usageString = `uniconego is a tool for building the game's assets and disks.

Usage:

	%s <command> [arguments]

The commands are:

	iffl     pack, stub, ls and mount asset bundles
	palette  convert images to MEGA65 palettes
	sfx      convert WAV files to sound effect samples
	disk     mkimage, ls and run SD card images
`

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	log.Default().SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "iffl":
		iffl.Main(flag.Args())
	case "palette":
		palette.Main(flag.Args())
	case "sfx":
		sfx.Main(flag.Args())
	case "disk":
		disk.Main(flag.Args())
	default:
		fmt.Fprintf(flag.CommandLine.Output(), "unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}
