// Package iffl implements streaming of asset bundles ("interleaved file
// format loader") from slow storage.
//
// A bundle is a single file holding an ordered sequence of blocks, each with
// the address it has to be loaded to. A Loader opens one bundle at a time and
// delivers the blocks strictly in the order they were written. There's no
// seeking: every block is read exactly once.
//
// The on-disk format, all integers little endian:
//
//	magic   "IFFL"
//	version uint8
//	name    [16]byte, PETSCII padded with $a0
//	count   uint16
//	dir     [count]{addr uint32; size uint32; crc8 uint8; pad [3]uint8}
//	data    the blocks' contents in directory order
package iffl

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sigurn/crc8"

	"github.com/clktmr/unicone/chips/mem"
)

const (
	Magic    = "IFFL"
	NameLen  = 16
	namePad  = 0xa0
	version  = 1
	maxCount = math.MaxUint16

	// MaxSize is the largest block a bundle can hold. A block never
	// crosses a bank.
	MaxSize = mem.BankSize
)

var (
	ErrFormat      = errors.New("not an iffl bundle")
	ErrChecksum    = errors.New("block checksum mismatch")
	ErrNameTooLong = errors.New("name too long")
	ErrTooLarge    = errors.New("bundle too large")
)

var crcTable = crc8.MakeTable(crc8.CRC8)

// Checksum returns the CRC-8 stored for a block with content p.
func Checksum(p []byte) uint8 {
	return crc8.Checksum(p, crcTable)
}

type header struct {
	Magic   [4]byte
	Version uint8
	Name    [NameLen]byte
	Count   uint16
}

type dirEntry struct {
	Addr uint32
	Size uint32
	Sum  uint8
	_    [3]uint8
}

// Block is a block's content together with its load address.
type Block struct {
	Addr mem.Addr
	Data []byte
}

// BlockInfo describes a block as listed in the bundle's directory.
type BlockInfo struct {
	Index int
	Addr  mem.Addr
	Size  int
	Sum   uint8
}

// Range returns the memory the block is loaded to.
func (b BlockInfo) Range() mem.Range { return mem.Range{Start: b.Addr, Len: b.Size} }

func (b BlockInfo) String() string {
	return fmt.Sprintf("#%d %v+%#x", b.Index, b.Addr, b.Size)
}

// encodeName returns name in PETSCII as stored in the bundle header.
func encodeName(name string) (n [NameLen]byte, err error) {
	p, err := PETSCII.NewEncoder().Bytes([]byte(name))
	if err != nil {
		return
	}
	if len(p) > NameLen {
		return n, fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}
	copy(n[:], p)
	for i := len(p); i < NameLen; i++ {
		n[i] = namePad
	}
	return
}

func decodeName(n [NameLen]byte) string {
	p := n[:]
	for len(p) > 0 && p[len(p)-1] == namePad {
		p = p[:len(p)-1]
	}
	s, err := PETSCII.NewDecoder().Bytes(p)
	if err != nil {
		return ""
	}
	return string(s)
}

// Create writes a bundle named name containing blocks to w.
func Create(w io.Writer, name string, blocks []Block) error {
	hdr := header{Version: version, Count: uint16(len(blocks))}
	copy(hdr.Magic[:], Magic)

	var err error
	hdr.Name, err = encodeName(name)
	if err != nil {
		return err
	}
	if len(blocks) > maxCount {
		return fmt.Errorf("%w: %d blocks", ErrTooLarge, len(blocks))
	}

	entries := make([]dirEntry, len(blocks))
	for i, b := range blocks {
		if len(b.Data) > MaxSize {
			return fmt.Errorf("%w: block %d is %#x bytes", ErrTooLarge, i, len(b.Data))
		}
		entries[i] = dirEntry{Addr: uint32(b.Addr), Size: uint32(len(b.Data)), Sum: Checksum(b.Data)}
	}

	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, entries); err != nil {
		return err
	}
	for _, b := range blocks {
		if _, err := w.Write(b.Data); err != nil {
			return err
		}
	}
	return nil
}

// Stream reads the blocks of a bundle in order.
type Stream struct {
	r      io.Reader
	name   string
	blocks []BlockInfo
	next   int
}

// NewStream reads the header and directory of the bundle in r.
func NewStream(r io.Reader) (*Stream, error) {
	var hdr header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if string(hdr.Magic[:]) != Magic || hdr.Version != version {
		return nil, ErrFormat
	}
	entries := make([]dirEntry, hdr.Count)
	if err := binary.Read(r, binary.LittleEndian, entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	s := &Stream{r: r, name: decodeName(hdr.Name), blocks: make([]BlockInfo, len(entries))}
	for i, e := range entries {
		if e.Size > MaxSize {
			return nil, fmt.Errorf("%w: block %d is %#x bytes", ErrFormat, i, e.Size)
		}
		s.blocks[i] = BlockInfo{i, mem.Addr(e.Addr), int(e.Size), e.Sum}
	}
	return s, nil
}

// Name returns the bundle's name decoded from PETSCII.
func (s *Stream) Name() string { return s.name }

// Blocks returns the bundle's directory.
func (s *Stream) Blocks() []BlockInfo { return s.blocks }

// Remaining returns the number of blocks not read yet.
func (s *Stream) Remaining() int { return len(s.blocks) - s.next }

// Peek returns the directory entry of the next block. It returns io.EOF if
// all blocks were read.
func (s *Stream) Peek() (BlockInfo, error) {
	if s.next >= len(s.blocks) {
		return BlockInfo{}, io.EOF
	}
	return s.blocks[s.next], nil
}

// Next reads the next block. It returns io.EOF if all blocks were read.
func (s *Stream) Next() (BlockInfo, []byte, error) {
	info, err := s.Peek()
	if err != nil {
		return info, nil, err
	}
	p := make([]byte, info.Size)
	if _, err := io.ReadFull(s.r, p); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return info, nil, err
	}
	s.next++
	if Checksum(p) != info.Sum {
		return info, nil, fmt.Errorf("%w: block %v", ErrChecksum, info)
	}
	return info, p, nil
}
