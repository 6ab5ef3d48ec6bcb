package iffl

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/clktmr/unicone/drivers/iffl"
	"github.com/clktmr/unicone/drivers/storage"
	"github.com/clktmr/unicone/phase"
)

const usageString = `Asset bundle utility.

Usage:

	%s [flags] <command> [arguments]

The commands are:

	pack <session> <assetdir>	pack the session's blocks from <assetdir>/<block>.bin
	stub <dir>			write bundles of all sessions with placeholder data
	ls <bundle>			list the blocks of a bundle
	mount <bundle> <dir>		serve the blocks of a bundle via fuse

`

var (
	flags = flag.NewFlagSet("iffl", flag.ExitOnError)

	output = flags.String("o", "", "output file or directory, defaults to the session's file name")

	sigintr = make(chan os.Signal, 1)
)

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "iffl")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() < 1 {
		flags.Usage()
		os.Exit(1)
	}

	signal.Notify(sigintr, os.Interrupt)

	var err error
	switch cmd := flags.Arg(0); cmd {
	case "pack":
		needArgs(3)
		err = pack(flags.Arg(1), flags.Arg(2))
	case "stub":
		needArgs(2)
		err = stub(flags.Arg(1))
	case "ls":
		needArgs(2)
		err = list(os.Stdout, flags.Arg(1))
	case "mount":
		needArgs(3)
		err = mount(flags.Arg(1), flags.Arg(2))
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

func session(name string) (phase.Session, error) {
	s, ok := phase.DefaultManifest().Lookup(name)
	if !ok {
		return s, fmt.Errorf("unknown session: %s", name)
	}
	return s, nil
}

// Blocks reads the assets of session from dir, checking each fits the memory
// reserved for it.
func Blocks(s phase.Session, dir string) ([]iffl.Block, error) {
	blocks := make([]iffl.Block, len(s.Blocks))
	for i, b := range s.Blocks {
		data, err := os.ReadFile(filepath.Join(dir, b.Name+".bin"))
		if err != nil {
			return nil, err
		}
		if len(data) > b.Max {
			return nil, fmt.Errorf("%s: %d bytes exceed the %d bytes reserved at %v", b.Name, len(data), b.Max, b.Addr)
		}
		blocks[i] = iffl.Block{Addr: b.Addr, Data: data}
	}
	return blocks, nil
}

func writeBundle(path, name string, blocks []iffl.Block) error {
	var buf bytes.Buffer
	if err := iffl.Create(&buf, name, blocks); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func pack(name, dir string) error {
	s, err := session(name)
	if err != nil {
		return err
	}
	blocks, err := Blocks(s, dir)
	if err != nil {
		return err
	}
	out := *output
	if out == "" {
		out = storage.FileName(s.Name)
	}
	return writeBundle(out, s.Name, blocks)
}

// Placeholder returns data for b, filling the reserved memory with a pattern
// derived from the block's name.
func Placeholder(b phase.Block) []byte {
	seed := iffl.Checksum([]byte(b.Name))
	p := make([]byte, b.Max)
	for i := range p {
		p[i] = seed + byte(i)
	}
	return p
}

func stub(dir string) error {
	if *output != "" {
		dir = *output
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, s := range phase.DefaultManifest() {
		blocks := make([]iffl.Block, len(s.Blocks))
		for i, b := range s.Blocks {
			blocks[i] = iffl.Block{Addr: b.Addr, Data: Placeholder(b)}
		}
		if err := writeBundle(filepath.Join(dir, storage.FileName(s.Name)), s.Name, blocks); err != nil {
			return err
		}
	}
	return nil
}

func openBundle(path string) (*iffl.Stream, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	s, err := iffl.NewStream(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, f, nil
}

func list(w io.Writer, path string) error {
	s, f, err := openBundle(path)
	if err != nil {
		return err
	}
	defer f.Close()

	names := make(map[int]string)
	if known, err := session(s.Name()); err == nil {
		for i, b := range known.Blocks {
			names[i] = b.Name
		}
	}

	fmt.Fprintf(w, "%s: %d blocks\n", s.Name(), len(s.Blocks()))
	for _, b := range s.Blocks() {
		fmt.Fprintf(w, "%3d  %v  %6d  crc %02x  %s\n", b.Index, b.Addr, b.Size, b.Sum, names[b.Index])
	}

	for {
		_, _, err := s.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
