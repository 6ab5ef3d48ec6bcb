package storage

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/clktmr/unicone/chips/mem"
	"github.com/clktmr/unicone/drivers/iffl"
)

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"+UNICONE0": "unicone0.ifl",
		"+UNICONE1": "unicone1.ifl",
		"DEMO":      "demo.ifl",
	}
	for session, want := range tests {
		if got := FileName(session); got != want {
			t.Errorf("%s: expected %q, got %q", session, want, got)
		}
	}
}

func bundle(t *testing.T, name string, blocks ...iffl.Block) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := iffl.Create(&buf, name, blocks); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFS(t *testing.T) {
	p := bundle(t, "+UNICONE0", iffl.Block{Addr: 0x1_0000, Data: []byte("palette")})
	fsys := fstest.MapFS{"unicone0.ifl": &fstest.MapFile{Data: p}}
	tr := NewFS(fsys)

	rc, err := tr.Mount("+UNICONE0")
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, p) {
		t.Fatal("bundle content mismatch")
	}

	if _, err := tr.Mount("+UNICONE1"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestImage(t *testing.T) {
	bundles := map[string][]byte{
		"+UNICONE0": bundle(t, "+UNICONE0",
			iffl.Block{Addr: 0x1_0000, Data: bytes.Repeat([]byte{0x42}, 0x300)},
			iffl.Block{Addr: 0x3_0000, Data: bytes.Repeat([]byte{0x17}, 0x8000)},
		),
		"+UNICONE1": bundle(t, "+UNICONE1",
			iffl.Block{Addr: 0x1_0000, Data: []byte("music")},
		),
	}

	path := filepath.Join(t.TempDir(), "unicone.img")
	if err := CreateImage(path, 64<<20, "UNICONE", bundles); err != nil {
		t.Fatal(err)
	}

	img, err := OpenImage(path)
	if err != nil {
		t.Fatal(err)
	}
	defer img.Close()

	files, err := img.Files()
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != len(bundles) {
		t.Fatalf("expected %d bundles in image, got %v", len(bundles), files)
	}

	m := mem.New()
	l := iffl.NewLoader(img, m)
	if err := l.Open("+UNICONE0"); err != nil {
		t.Fatal(err)
	}
	for n := 0; n < 2; n++ {
		if _, err := l.Next(); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	got, err := m.Bytes(0x3_0000, 0x8000)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, bytes.Repeat([]byte{0x17}, 0x8000)) {
		t.Fatal("block not loaded from image")
	}

	if err := l.Open("+UNICONE2"); !errors.Is(err, iffl.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
