package sfx

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, depth, chans int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "effect.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, 8000, depth, chans, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: chans, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: depth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvert(t *testing.T) {
	tests := map[string]struct {
		depth, chans int
		data         []int
		want         []byte
	}{
		"stereo16": {
			depth: 16, chans: 2,
			data: []int{0x7fff, 1, -0x8000, 2, 0x100, 3},
			want: []byte{0x7f, 0x80, 0x01},
		},
		"mono8": {
			depth: 8, chans: 1,
			data: []int{0xff, 0x00, 0x80, 0x81},
			want: []byte{0x7f, 0x80, 0x00, 0x01},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := os.Open(writeWAV(t, tc.depth, tc.chans, tc.data))
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()

			pcm, rate, err := Convert(f)
			if err != nil {
				t.Fatal(err)
			}
			if rate != 8000 {
				t.Errorf("expected 8000 Hz, got %d", rate)
			}
			if !bytes.Equal(pcm, tc.want) {
				t.Fatalf("expected % x, got % x", tc.want, pcm)
			}
		})
	}
}

func TestConvertInvalid(t *testing.T) {
	_, _, err := Convert(bytes.NewReader([]byte("RIFF but not really")))
	if !errors.Is(err, ErrInvalidWAV) {
		t.Fatalf("expected ErrInvalidWAV, got %v", err)
	}
}

func TestFits(t *testing.T) {
	if err := fits("sfx-trot", 0x2000); err != nil {
		t.Fatal(err)
	}
	if err := fits("sfx-trot", 0x2001); err == nil {
		t.Fatal("expected oversized effect to be rejected")
	}
	if err := fits("sfx-moo", 1); err == nil {
		t.Fatal("expected unknown block to be rejected")
	}
}
