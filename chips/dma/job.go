// Package dma models the MEGA65's DMAgic block copy engine.
//
// A Job describes a single copy or fill. The Engine hands jobs to a
// Controller as enhanced DMA lists in F018B format and blocks until the
// controller reports completion. Jobs are idempotent, running the same job
// twice leaves the destination as running it once.
package dma

import (
	"errors"
	"fmt"

	"github.com/clktmr/unicone/chips/mem"
)

type Command uint8

const (
	CmdCopy Command = 0b00
	CmdFill Command = 0b11
)

func (c Command) String() string {
	switch c {
	case CmdCopy:
		return "copy"
	case CmdFill:
		return "fill"
	}
	return fmt.Sprintf("Command(%d)", uint8(c))
}

// MaxLen is the largest transfer a single job can do. The F018B count
// register encodes it as zero.
const MaxLen = 0x1_0000

var (
	ErrInvalidJob = errors.New("invalid dma job")
	ErrFormat     = errors.New("malformed dma list")
)

// Job is an immutable descriptor of a DMAgic transfer.
type Job struct {
	Name  string
	Cmd   Command
	Src   mem.Addr // ignored by fill jobs
	Dst   mem.Addr
	Len   int
	Value byte // fill byte, fill jobs only
}

// Copy returns a job that copies n bytes from src to dst.
func Copy(name string, dst, src mem.Addr, n int) *Job {
	return &Job{Name: name, Cmd: CmdCopy, Src: src, Dst: dst, Len: n}
}

// Fill returns a job that sets n bytes at dst to v.
func Fill(name string, dst mem.Addr, n int, v byte) *Job {
	return &Job{Name: name, Cmd: CmdFill, Dst: dst, Len: n, Value: v}
}

// Dest returns the range of memory the job writes.
func (j *Job) Dest() mem.Range { return mem.Range{Start: j.Dst, Len: j.Len} }

// Source returns the range of memory a copy job reads. It's empty for fills.
func (j *Job) Source() mem.Range {
	if j.Cmd != CmdCopy {
		return mem.Range{}
	}
	return mem.Range{Start: j.Src, Len: j.Len}
}

func (j *Job) Validate() error {
	if j.Cmd != CmdCopy && j.Cmd != CmdFill {
		return fmt.Errorf("%w: %q: unknown command %v", ErrInvalidJob, j.Name, j.Cmd)
	}
	if j.Len <= 0 || j.Len > MaxLen {
		return fmt.Errorf("%w: %q: length %d", ErrInvalidJob, j.Name, j.Len)
	}
	if uint32(j.Dst)>>28 != 0 || (j.Cmd == CmdCopy && uint32(j.Src)>>28 != 0) {
		return fmt.Errorf("%w: %q: address exceeds 28 bits", ErrInvalidJob, j.Name)
	}
	return nil
}

func (j *Job) String() string {
	if j.Cmd == CmdFill {
		return fmt.Sprintf("%s: fill %v+%#x with %#02x", j.Name, j.Dst, j.Len, j.Value)
	}
	return fmt.Sprintf("%s: copy %v+%#x to %v", j.Name, j.Src, j.Len, j.Dst)
}

// Enhanced DMA job options
const (
	optEnd   = 0x00
	optF018B = 0x0b
	optSrcMB = 0x80
	optDstMB = 0x81
	listLen  = 12
)

// MarshalBinary encodes the job as an enhanced DMA list with source and
// destination megabyte options, followed by an F018B job.
func (j *Job) MarshalBinary() ([]byte, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}
	src := uint32(j.Src)
	if j.Cmd == CmdFill {
		src = uint32(j.Value)
	}
	dst := uint32(j.Dst)
	count := uint16(j.Len) // MaxLen wraps to zero

	return []byte{
		optF018B,
		optSrcMB, byte(src >> 20),
		optDstMB, byte(dst >> 20),
		optEnd,
		byte(j.Cmd),
		byte(count), byte(count >> 8),
		byte(src), byte(src >> 8), byte(src>>16) & 0x0f,
		byte(dst), byte(dst >> 8), byte(dst>>16) & 0x0f,
		0,    // command msb
		0, 0, // modulo
	}, nil
}

// Decode parses an enhanced DMA list as produced by [Job.MarshalBinary].
// The returned job has no name.
func Decode(list []byte) (*Job, error) {
	var srcMB, dstMB uint32
	var f018b bool

	i := 0
options:
	for {
		if i >= len(list) {
			return nil, fmt.Errorf("%w: unterminated options", ErrFormat)
		}
		opt := list[i]
		i++
		switch {
		case opt == optEnd:
			break options
		case opt == optF018B:
			f018b = true
		case opt >= 0x80:
			if i >= len(list) {
				return nil, fmt.Errorf("%w: missing argument for option %#02x", ErrFormat, opt)
			}
			switch opt {
			case optSrcMB:
				srcMB = uint32(list[i])
			case optDstMB:
				dstMB = uint32(list[i])
			}
			i++
		}
	}
	if !f018b {
		return nil, fmt.Errorf("%w: only F018B lists are supported", ErrFormat)
	}
	if len(list)-i < listLen {
		return nil, fmt.Errorf("%w: short list", ErrFormat)
	}
	l := list[i : i+listLen]

	n := int(l[1]) | int(l[2])<<8
	if n == 0 {
		n = MaxLen
	}
	src := srcMB<<20 | uint32(l[5]&0x0f)<<16 | uint32(l[4])<<8 | uint32(l[3])
	dst := dstMB<<20 | uint32(l[8]&0x0f)<<16 | uint32(l[7])<<8 | uint32(l[6])

	j := &Job{Cmd: Command(l[0] & 0b11), Dst: mem.Addr(dst), Len: n}
	switch j.Cmd {
	case CmdCopy:
		j.Src = mem.Addr(src)
	case CmdFill:
		j.Value = l[3]
	default:
		return nil, fmt.Errorf("%w: unsupported command %v", ErrFormat, j.Cmd)
	}
	return j, nil
}
