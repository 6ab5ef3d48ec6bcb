package phase

import (
	"errors"
	"testing"

	"github.com/clktmr/unicone/chips/dma"
	"github.com/clktmr/unicone/chips/mem"
	"github.com/clktmr/unicone/chips/vic"
)

func TestParse(t *testing.T) {
	for _, p := range Phases() {
		got, err := Parse(p.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != p {
			t.Fatalf("expected %v, got %v", p, got)
		}
	}
	if p, err := Parse("InGame"); err != nil || p != InGame {
		t.Fatalf("expected case insensitive match, got %v, %v", p, err)
	}
	if _, err := Parse("credits"); err == nil {
		t.Fatal("expected error for unknown phase")
	}
}

func TestScriptsValid(t *testing.T) {
	for p, s := range Scripts() {
		if s.Phase != p {
			t.Errorf("script for %v claims to be %v", p, s.Phase)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("%v: %v", p, err)
		}
	}
}

func TestOnlyLoaderStreams(t *testing.T) {
	for p, s := range Scripts() {
		if p == Loader {
			continue
		}
		if len(s.Stage) != 0 {
			t.Errorf("%v: unexpected staging steps", p)
		}
		for _, step := range s.Load {
			if step.Op != OpJob {
				t.Errorf("%v: unexpected step %v", p, step)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	blk := Block{"blk", 0x1_0000, 0x100}
	tests := map[string]struct {
		steps []Step
		err   bool
	}{
		"ok": {
			steps: []Step{Open("A"), Read(blk), Close(), Open("B"), Read(blk, blk), Close()},
		},
		"jobsOnly": {
			steps: []Step{Job(dma.Copy("x", 0x3_0000, mem.AtticSlot(1), mem.BankSize))},
		},
		"readClosed": {
			steps: []Step{Read(blk)},
			err:   true,
		},
		"readAfterClose": {
			steps: []Step{Open("A"), Close(), Read(blk)},
			err:   true,
		},
		"openTwice": {
			steps: []Step{Open("A"), Open("B"), Close()},
			err:   true,
		},
		"closeClosed": {
			steps: []Step{Close()},
			err:   true,
		},
		"leftOpen": {
			steps: []Step{Open("A"), Read(blk)},
			err:   true,
		},
		"emptyRead": {
			steps: []Step{Open("A"), Read(), Close()},
			err:   true,
		},
		"oversizedBlock": {
			steps: []Step{Open("A"), Read(Block{"big", 0, 0x1_0001}), Close()},
			err:   true,
		},
		"invalidJob": {
			steps: []Step{Job(dma.Copy("empty", 0x1_0000, 0x2_0000, 0))},
			err:   true,
		},
		"missingJob": {
			steps: []Step{{Op: OpJob}},
			err:   true,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			// Split anywhere, sessions may span Load and Stage.
			n := len(tc.steps) / 2
			s := &Script{Phase: Title, Load: tc.steps[:n], Stage: tc.steps[n:]}
			err := s.Validate()
			if tc.err && !errors.Is(err, ErrInvalidScript) {
				t.Fatalf("expected ErrInvalidScript, got %v", err)
			}
			if !tc.err && err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestManifest(t *testing.T) {
	m := DefaultManifest()
	if len(m) != 2 || m[0].Name != Bootstrap || m[1].Name != Main {
		t.Fatalf("unexpected sessions %v", m)
	}
	if n := len(m[0].Blocks); n != 18 {
		t.Errorf("expected 18 blocks in %s, got %d", Bootstrap, n)
	}
	if n := len(m[1].Blocks); n != 16 {
		t.Errorf("expected 16 blocks in %s, got %d", Main, n)
	}

	names := make(map[string]bool)
	for _, s := range m {
		for _, b := range s.Blocks {
			if names[b.Name] {
				t.Errorf("duplicate block name %s", b.Name)
			}
			names[b.Name] = true
		}
	}

	if _, ok := m.Lookup(Main); !ok {
		t.Errorf("%s not found", Main)
	}
	if _, ok := m.Lookup("+UNICONE2"); ok {
		t.Error("found unknown session")
	}
}

func TestDisplayConfig(t *testing.T) {
	tests := map[Phase]struct {
		rowLength uint16
		rowCount  uint8
		height    vic.Height
		color     uint8
	}{
		Loader:   {80, 60, vic.Tall, 28},
		Title:    {80, 60, vic.Tall, 28},
		InGame:   {100, 50, vic.Short, 23},
		GameOver: {100, 50, vic.Short, 23},
	}
	for p, tc := range tests {
		t.Run(p.String(), func(t *testing.T) {
			cfg := DisplayConfig(p)
			if cfg.RowLength != tc.rowLength || cfg.RowCount != tc.rowCount || cfg.Height != tc.height {
				t.Errorf("unexpected geometry %dx%d %v", cfg.RowLength, cfg.RowCount, cfg.Height)
			}
			if cfg.Border != tc.color || cfg.Background != tc.color {
				t.Errorf("unexpected colours %d/%d", cfg.Border, cfg.Background)
			}
			if cfg.TileMap != 0x5_8000 || cfg.AttrMap != mem.ColorRAM {
				t.Errorf("unexpected maps %v/%v", cfg.TileMap, cfg.AttrMap)
			}
		})
	}
}
