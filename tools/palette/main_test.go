package palette

import (
	"image/color"
	"testing"
)

func TestEncode(t *testing.T) {
	p := color.Palette{
		color.NRGBA{0x12, 0x34, 0x56, 0xff},
		color.White,
		color.Black,
	}
	out := Encode(p)
	if len(out) != 0x300 {
		t.Fatalf("expected 768 bytes, got %d", len(out))
	}

	tests := map[string]struct {
		offset int
		want   byte
	}{
		"red0":   {0x000, 0x21},
		"green0": {0x100, 0x43},
		"blue0":  {0x200, 0x65},
		"red1":   {0x001, 0xff},
		"blue2":  {0x202, 0x00},
		"unused": {0x0ff, 0x00},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if out[tc.offset] != tc.want {
				t.Fatalf("expected %#02x at %#x, got %#02x", tc.want, tc.offset, out[tc.offset])
			}
		})
	}
}

func TestEncodeTruncates(t *testing.T) {
	p := make(color.Palette, 300)
	for i := range p {
		p[i] = color.Gray{uint8(i)}
	}
	if out := Encode(p); len(out) != 0x300 {
		t.Fatalf("expected 768 bytes, got %d", len(out))
	}
}
