package palette

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ericpauley/go-quantize/quantize"
	_ "golang.org/x/image/bmp"

	"github.com/clktmr/unicone/chips/mem"
)

var (
	flags = flag.NewFlagSet("palette", flag.ExitOnError)

	colors = flags.Int("colors", 256, "number of palette entries to generate")
	dither = flags.Bool("dither", false, "enable Floyd-Steinberg error diffusion")
	pixels = flags.String("pixels", "", "also write the image as one palette index per pixel to this file")
	output = flags.String("o", "", "output file, defaults to the image's name with .pal extension")
)

const usageString = `Image to MEGA65 palette converter.

Usage: %s [flags] <image>

`

const entries = mem.PaletteSize / 3

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "palette")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() != 1 || *colors < 1 || *colors > entries {
		flags.Usage()
		os.Exit(1)
	}
	imagefile := flags.Arg(0)

	r, err := os.Open(imagefile)
	if err != nil {
		log.Fatalln(err)
	}
	defer r.Close()

	src, _, err := image.Decode(r)
	if err != nil {
		log.Fatalln(err)
	}

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, *colors), src)

	outfile := *output
	if outfile == "" {
		outfile = strings.TrimSuffix(imagefile, filepath.Ext(imagefile)) + ".pal"
	}
	if err := os.WriteFile(outfile, Encode(p), 0o644); err != nil {
		log.Fatalln(err)
	}

	if *pixels != "" {
		dst := image.NewPaletted(src.Bounds(), p)
		var d draw.Drawer = draw.Src
		if *dither {
			d = draw.FloydSteinberg
		}
		d.Draw(dst, dst.Bounds(), src, src.Bounds().Min)
		if err := os.WriteFile(*pixels, dst.Pix, 0o644); err != nil {
			log.Fatalln(err)
		}
	}
}

// Encode returns p in the layout of the palette registers: all red values,
// then all green, then all blue, each as a byte with swapped nibbles. Unused
// entries are black.
func Encode(p color.Palette) []byte {
	out := make([]byte, mem.PaletteSize)
	for i, c := range p[:min(len(p), entries)] {
		r, g, b, _ := color.NRGBAModel.Convert(c).RGBA()
		out[i] = swap(uint8(r >> 8))
		out[entries+i] = swap(uint8(g >> 8))
		out[2*entries+i] = swap(uint8(b >> 8))
	}
	return out
}

func swap(v uint8) uint8 {
	return v<<4 | v>>4
}
