// Package mem models the MEGA65 memory the loader works on: six banks of chip
// RAM, the attic RAM used as staging area, colour RAM and the palette.
//
// Addresses are 28-bit flat addresses as used by the DMAgic. Nothing is
// initialized on power-on: a bank's content must be considered garbage until
// a block or a DMA job has written it.
package mem

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/clktmr/unicone/debug"
)

// Addr is a 28-bit flat address.
type Addr uint32

const addrMask = 0x0fff_ffff

func (a Addr) String() string { return fmt.Sprintf("$%07x", uint32(a)) }

// Bank returns the number of the 64 KiB bank a is in.
func (a Addr) Bank() int { return int(a >> 16) }

const BankSize = 0x1_0000

// Memory map
const (
	ChipRAM      Addr = 0x000_0000
	ChipRAMBanks      = 6
	ChipRAMSize       = ChipRAMBanks * BankSize

	AtticRAM  Addr = 0x800_0000
	AtticSize      = 8 << 20

	ColorRAM     Addr = 0xff8_0000
	ColorRAMSize      = 0x8000

	Palette     Addr = 0xffd_3100
	PaletteSize      = 0x300
)

// BankAddr returns the start address of chip RAM bank n.
func BankAddr(n int) Addr {
	debug.Assert(n >= 0 && n < ChipRAMBanks, "chip RAM bank out of range")
	return ChipRAM + Addr(n)*BankSize
}

// AtticSlot returns the start address of the n-th 64 KiB slot in attic RAM.
func AtticSlot(n int) Addr {
	debug.Assert(n >= 0 && n < AtticSize/BankSize, "attic slot out of range")
	return AtticRAM + Addr(n)*BankSize
}

var ErrUnmapped = errors.New("unmapped address")

// AddrError records an error and the operation and address that caused it.
type AddrError struct {
	Op   string
	Addr Addr
	Err  error
}

func (e *AddrError) Error() string { return e.Op + " " + e.Addr.String() + ": " + e.Err.Error() }
func (e *AddrError) Unwrap() error { return e.Err }

const pageSize = BankSize

var zeroPage [pageSize]byte

type region struct {
	name  string
	start Addr
	size  int
	pages [][]byte // allocated on first write
}

func (r *region) end() Addr { return r.start + Addr(r.size) }

// Range is a half-open address range [Start, Start+Len).
type Range struct {
	Start Addr
	Len   int
}

func (r Range) End() Addr { return r.Start + Addr(r.Len) }

// Overlaps reports whether r and o share at least one address.
func (r Range) Overlaps(o Range) bool {
	if r.Len <= 0 || o.Len <= 0 {
		return false
	}
	return r.Start < o.End() && o.Start < r.End()
}

func (r Range) String() string { return r.Start.String() + "-" + (r.End() - 1).String() }

// Memory implements io.ReaderAt and io.WriterAt on the flat address space,
// with the offset being the address.
//
// Memory is safe for concurrent use.
type Memory struct {
	mtx     sync.Mutex
	regions []*region
}

var (
	_ io.ReaderAt = (*Memory)(nil)
	_ io.WriterAt = (*Memory)(nil)
)

// New returns the memory of a stock MEGA65 with attic RAM fitted.
func New() *Memory {
	m := &Memory{}
	m.mapRegion("chip", ChipRAM, ChipRAMSize)
	m.mapRegion("attic", AtticRAM, AtticSize)
	m.mapRegion("color", ColorRAM, ColorRAMSize)
	m.mapRegion("palette", Palette, PaletteSize)
	return m
}

func (m *Memory) mapRegion(name string, start Addr, size int) {
	npages := (size + pageSize - 1) / pageSize
	m.regions = append(m.regions, &region{name, start, size, make([][]byte, npages)})
}

// Mapped reports whether the whole range [a, a+n) is backed by memory.
func (m *Memory) Mapped(a Addr, n int) bool {
	_, err := m.lookup("", a, n)
	return err == nil
}

func (m *Memory) lookup(op string, a Addr, n int) (*region, error) {
	if n < 0 || a&^addrMask != 0 {
		return nil, &AddrError{op, a, ErrUnmapped}
	}
	for _, r := range m.regions {
		if a >= r.start && a < r.end() {
			if int64(a)+int64(n) > int64(r.end()) {
				return nil, &AddrError{op, r.end(), ErrUnmapped}
			}
			return r, nil
		}
	}
	return nil, &AddrError{op, a, ErrUnmapped}
}

// span calls fn for each page sized chunk of [a, a+n). Pages are only
// allocated if alloc is set, otherwise unwritten pages read as zero.
func (r *region) span(a Addr, n int, alloc bool, fn func(chunk []byte, done int)) {
	for done := 0; done < n; {
		off := int(a-r.start) + done
		idx, pgoff := off/pageSize, off%pageSize
		page := r.pages[idx]
		if page == nil {
			if alloc {
				page = make([]byte, pageSize)
				r.pages[idx] = page
			} else {
				page = zeroPage[:]
			}
		}
		chunk := page[pgoff:min(pageSize, pgoff+n-done)]
		fn(chunk, done)
		done += len(chunk)
	}
}

func (m *Memory) ReadAt(p []byte, off int64) (n int, err error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	a := Addr(off)
	if off < 0 || int64(a) != off {
		return 0, &AddrError{"read", a, ErrUnmapped}
	}
	r, err := m.lookup("read", a, len(p))
	if err != nil {
		return 0, err
	}
	r.span(a, len(p), false, func(chunk []byte, done int) {
		n += copy(p[done:], chunk)
	})
	return n, nil
}

func (m *Memory) WriteAt(p []byte, off int64) (n int, err error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	a := Addr(off)
	if off < 0 || int64(a) != off {
		return 0, &AddrError{"write", a, ErrUnmapped}
	}
	r, err := m.lookup("write", a, len(p))
	if err != nil {
		return 0, err
	}
	r.span(a, len(p), true, func(chunk []byte, done int) {
		n += copy(chunk, p[done:])
	})
	return n, nil
}

// Fill sets n bytes starting at a to v.
func (m *Memory) Fill(a Addr, n int, v byte) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	r, err := m.lookup("fill", a, n)
	if err != nil {
		return err
	}
	r.span(a, n, true, func(chunk []byte, _ int) {
		for i := range chunk {
			chunk[i] = v
		}
	})
	return nil
}

// Copy copies n bytes from src to dst. Overlapping ranges are copied as if
// through an intermediate buffer.
func (m *Memory) Copy(dst, src Addr, n int) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	sr, err := m.lookup("read", src, n)
	if err != nil {
		return err
	}
	dr, err := m.lookup("write", dst, n)
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	sr.span(src, n, false, func(chunk []byte, done int) {
		copy(buf[done:], chunk)
	})
	dr.span(dst, n, true, func(chunk []byte, done int) {
		copy(chunk, buf[done:])
	})
	return nil
}

// Bytes returns a copy of the n bytes at a.
func (m *Memory) Bytes(a Addr, n int) ([]byte, error) {
	p := make([]byte, n)
	_, err := m.ReadAt(p, int64(a))
	if err != nil {
		return nil, err
	}
	return p, nil
}
