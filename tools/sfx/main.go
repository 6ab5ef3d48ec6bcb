package sfx

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"

	"github.com/clktmr/unicone/phase"
)

var (
	flags = flag.NewFlagSet("sfx", flag.ExitOnError)

	block  = flags.String("block", "", "check the effect fits the memory reserved for this block")
	output = flags.String("o", "", "output file, defaults to the input's name with .bin extension")
)

const usageString = `WAV to MEGA65 audio DMA sample converter.

Writes the first channel as signed 8-bit PCM.

Usage: %s [flags] <wavfile>

`

var ErrInvalidWAV = errors.New("not a valid wav file")

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "sfx")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(1)
	}
	wavfile := flags.Arg(0)

	r, err := os.Open(wavfile)
	if err != nil {
		log.Fatalln(err)
	}
	defer r.Close()

	pcm, rate, err := Convert(r)
	if err != nil {
		log.Fatalln(wavfile+":", err)
	}

	if *block != "" {
		if err := fits(*block, len(pcm)); err != nil {
			log.Fatalln(err)
		}
	}

	outfile := *output
	if outfile == "" {
		outfile = strings.TrimSuffix(wavfile, filepath.Ext(wavfile)) + ".bin"
	}
	if err := os.WriteFile(outfile, pcm, 0o644); err != nil {
		log.Fatalln(err)
	}
	log.Printf("%s: %d samples at %d Hz", outfile, len(pcm), rate)
}

// Convert decodes the WAV data in r and returns its first channel as signed
// 8-bit samples, together with the sample rate.
func Convert(r io.ReadSeeker) (pcm []byte, rate int, err error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, ErrInvalidWAV
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, err
	}

	chans := int(dec.NumChans)
	depth := int(dec.BitDepth)
	if chans < 1 || depth < 8 {
		return nil, 0, fmt.Errorf("%w: %d channels, %d bits", ErrInvalidWAV, chans, depth)
	}

	pcm = make([]byte, 0, len(buf.Data)/chans)
	for i := 0; i < len(buf.Data); i += chans {
		v := buf.Data[i]
		if depth == 8 {
			v -= 0x80 // 8-bit WAV is unsigned
		} else {
			v >>= depth - 8
		}
		pcm = append(pcm, byte(int8(v)))
	}
	return pcm, int(dec.SampleRate), nil
}

func fits(name string, n int) error {
	for _, s := range phase.DefaultManifest() {
		for _, b := range s.Blocks {
			if b.Name != name {
				continue
			}
			if n > b.Max {
				return fmt.Errorf("%s: %d samples exceed the %d bytes reserved at %v", name, n, b.Max, b.Addr)
			}
			return nil
		}
	}
	return fmt.Errorf("unknown block: %s", name)
}
