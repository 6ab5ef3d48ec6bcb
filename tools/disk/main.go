package disk

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kballard/go-shellquote"

	"github.com/clktmr/unicone/drivers/storage"
	"github.com/clktmr/unicone/phase"
)

const usageString = `SD card image utility.

Usage:

	%s [flags] <command> [arguments]

The commands are:

	mkimage <image> <dir>	create a FAT32 image holding the bundles in <dir>
	ls <image>		list the bundles in an image
	run <image>		start an emulator with the image as SD card

`

var (
	flags = flag.NewFlagSet("disk", flag.ExitOnError)

	size  = flags.Int64("size", 64<<20, "image size in bytes")
	label = flags.String("label", "UNICONE", "volume label")
	emu   = flags.String("emu", "xmega65 -besure -sdimg", "emulator command line, the image path is appended")
)

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "disk")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() < 1 {
		flags.Usage()
		os.Exit(1)
	}

	var err error
	switch cmd := flags.Arg(0); cmd {
	case "mkimage":
		needArgs(3)
		err = mkimage(flags.Arg(1), flags.Arg(2))
	case "ls":
		needArgs(2)
		err = list(flags.Arg(1))
	case "run":
		needArgs(2)
		err = run(*emu, flags.Arg(1))
	default:
		fmt.Fprintf(flags.Output(), "unknown command: %s\n", cmd)
		flags.Usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalln(err)
	}
}

func needArgs(n int) {
	if flags.NArg() != n {
		flags.Usage()
		os.Exit(1)
	}
}

// Bundles reads the bundle of every session from dir.
func Bundles(dir string) (map[string][]byte, error) {
	bundles := make(map[string][]byte)
	for _, s := range phase.DefaultManifest() {
		p, err := os.ReadFile(filepath.Join(dir, storage.FileName(s.Name)))
		if err != nil {
			return nil, err
		}
		bundles[s.Name] = p
	}
	return bundles, nil
}

func mkimage(image, dir string) error {
	bundles, err := Bundles(dir)
	if err != nil {
		return err
	}
	return storage.CreateImage(image, *size, *label, bundles)
}

func list(image string) error {
	img, err := storage.OpenImage(image)
	if err != nil {
		return err
	}
	defer img.Close()

	files, err := img.Files()
	if err != nil {
		return err
	}
	fmt.Printf("volume %s\n", img.Label())
	for _, name := range files {
		fmt.Println(name)
	}
	return nil
}

func run(cmdline, image string) error {
	args, err := shellquote.Split(cmdline)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if len(args) == 0 {
		return fmt.Errorf("run: empty emulator command")
	}
	args = append(args, image)
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
