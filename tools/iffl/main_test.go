package iffl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clktmr/unicone/phase"
)

func writeAssets(t *testing.T, dir string, s phase.Session) {
	t.Helper()
	for _, b := range s.Blocks {
		if err := os.WriteFile(filepath.Join(dir, b.Name+".bin"), Placeholder(b), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBlocks(t *testing.T) {
	s, ok := phase.DefaultManifest().Lookup(phase.Bootstrap)
	if !ok {
		t.Fatal("bootstrap session missing")
	}
	dir := t.TempDir()
	writeAssets(t, dir, s)

	blocks, err := Blocks(s, dir)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range blocks {
		if b.Addr != s.Blocks[i].Addr || len(b.Data) != s.Blocks[i].Max {
			t.Errorf("block %d: unexpected %v+%#x", i, b.Addr, len(b.Data))
		}
	}

	palette := filepath.Join(dir, s.Blocks[0].Name+".bin")
	if err := os.WriteFile(palette, make([]byte, s.Blocks[0].Max+1), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Blocks(s, dir); err == nil {
		t.Fatal("expected error for oversized asset")
	}
}

func TestStubList(t *testing.T) {
	dir := t.TempDir()
	if err := stub(dir); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := list(&buf, filepath.Join(dir, "unicone1.ifl")); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, phase.Main+": 16 blocks\n") {
		t.Fatalf("unexpected header in %q", out)
	}
	for _, name := range []string{"game-music", "sfx-splat3", "gameover-overlay"} {
		if !strings.Contains(out, name) {
			t.Errorf("block %s not listed", name)
		}
	}
}
