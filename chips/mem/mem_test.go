package mem

import (
	"bytes"
	"errors"
	"testing"
)

func TestReadWrite(t *testing.T) {
	tests := map[string]struct {
		addr Addr
		n    int
		err  error
	}{
		"chip":          {0x1_2345, 100, nil},
		"chipBankCross": {0x1_fff0, 0x20, nil},
		"chipEnd":       {ChipRAM + ChipRAMSize - 4, 4, nil},
		"chipOverrun":   {ChipRAM + ChipRAMSize - 4, 5, ErrUnmapped},
		"attic":         {AtticSlot(3) + 0x10, 0x2_0000, nil},
		"color":         {ColorRAM, ColorRAMSize, nil},
		"palette":       {Palette + 0x100, 0x200, nil},
		"paletteOver":   {Palette + 0x100, 0x201, ErrUnmapped},
		"hole":          {0x10_0000, 1, ErrUnmapped},
		"beyond28bit":   {0x1000_0000, 1, ErrUnmapped},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			m := New()
			data := make([]byte, tc.n)
			for i := range data {
				data[i] = byte(i*7 + 3)
			}
			_, err := m.WriteAt(data, int64(tc.addr))
			if !errors.Is(err, tc.err) {
				t.Fatalf("write: expected %v, got %v", tc.err, err)
			}
			if tc.err != nil {
				var aerr *AddrError
				if !errors.As(err, &aerr) {
					t.Fatalf("expected *AddrError, got %T", err)
				}
				return
			}
			got, err := m.Bytes(tc.addr, tc.n)
			if err != nil {
				t.Fatal("read:", err)
			}
			if !bytes.Equal(got, data) {
				t.Fatal("read back differs from written data")
			}
		})
	}
}

func TestUnwrittenReadsZero(t *testing.T) {
	m := New()
	got, err := m.Bytes(AtticSlot(100), 16)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, make([]byte, 16)) {
		t.Fatalf("expected zeros, got % x", got)
	}
}

func TestFillCopy(t *testing.T) {
	m := New()
	if err := m.Fill(BankAddr(1), BankSize, 0xaa); err != nil {
		t.Fatal(err)
	}
	if _, err := m.WriteAt([]byte("hello"), int64(BankAddr(1)+0x10)); err != nil {
		t.Fatal(err)
	}
	if err := m.Copy(AtticSlot(0), BankAddr(1), BankSize); err != nil {
		t.Fatal(err)
	}
	got, _ := m.Bytes(AtticSlot(0)+0x0e, 9)
	if want := []byte("\xaa\xaahello\xaa\xaa"); !bytes.Equal(got, want) {
		t.Fatalf("expected % x, got % x", want, got)
	}

	// overlapping copy behaves like memmove
	if err := m.Copy(BankAddr(1)+0x12, BankAddr(1)+0x10, 5); err != nil {
		t.Fatal(err)
	}
	got, _ = m.Bytes(BankAddr(1)+0x10, 7)
	if want := []byte("hehello"); !bytes.Equal(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if err := m.Copy(ColorRAM, ChipRAM, ColorRAMSize+1); !errors.Is(err, ErrUnmapped) {
		t.Fatalf("expected %v, got %v", ErrUnmapped, err)
	}
}

func TestRangeOverlaps(t *testing.T) {
	tests := map[string]struct {
		a, b Range
		want bool
	}{
		"disjoint": {Range{0x100, 0x10}, Range{0x110, 0x10}, false},
		"touching": {Range{0x100, 0x11}, Range{0x110, 0x10}, true},
		"inside":   {Range{0x100, 0x100}, Range{0x120, 0x10}, true},
		"empty":    {Range{0x100, 0}, Range{0x100, 0x10}, false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("not symmetric: expected %v, got %v", tc.want, got)
			}
		})
	}
}
