package disk

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/clktmr/unicone/drivers/storage"
	"github.com/clktmr/unicone/phase"
)

func TestBundles(t *testing.T) {
	dir := t.TempDir()
	if _, err := Bundles(dir); err == nil {
		t.Fatal("expected error for missing bundles")
	}

	for _, name := range []string{phase.Bootstrap, phase.Main} {
		path := filepath.Join(dir, storage.FileName(name))
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	bundles, err := Bundles(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{phase.Bootstrap, phase.Main} {
		if !bytes.Equal(bundles[name], []byte(name)) {
			t.Errorf("%s: unexpected content %q", name, bundles[name])
		}
	}
}

func TestRun(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no shell")
	}
	tests := map[string]struct {
		cmdline string
		fail    bool
	}{
		"quoted":     {cmdline: `/bin/sh -c 'test "$0" = disk.img'`},
		"exitStatus": {cmdline: `/bin/sh -c 'exit 3'`, fail: true},
		"unbalanced": {cmdline: `/bin/sh -c 'exit`, fail: true},
		"empty":      {cmdline: ``, fail: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := run(tc.cmdline, "disk.img")
			if tc.fail && err == nil {
				t.Fatal("expected error")
			}
			if !tc.fail && err != nil {
				t.Fatal(err)
			}
		})
	}
}
