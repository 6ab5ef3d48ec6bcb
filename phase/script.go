package phase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clktmr/unicone/chips/dma"
	"github.com/clktmr/unicone/chips/mem"
)

var ErrInvalidScript = errors.New("invalid script")

// Op is the kind of a script step.
type Op uint8

const (
	OpOpen  Op = iota // open a storage session
	OpRead            // stream blocks into memory
	OpClose           // close the storage session
	OpJob             // run a DMA job
)

func (op Op) String() string {
	switch op {
	case OpOpen:
		return "open"
	case OpRead:
		return "read"
	case OpClose:
		return "close"
	case OpJob:
		return "job"
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Block is a block a script expects next in the open session.
type Block struct {
	Name string
	Addr mem.Addr // load address
	Max  int      // size of the memory reserved for the block
}

// Range returns the memory reserved for the block.
func (b Block) Range() mem.Range { return mem.Range{Start: b.Addr, Len: b.Max} }

// Step is a single operation of a script.
type Step struct {
	Op      Op
	Session string   // OpOpen
	Blocks  []Block  // OpRead, read back to back
	Job     *dma.Job // OpJob
}

// Open returns a step opening session name.
func Open(name string) Step { return Step{Op: OpOpen, Session: name} }

// Read returns a step streaming blocks in order.
func Read(blocks ...Block) Step { return Step{Op: OpRead, Blocks: blocks} }

// Close returns a step closing the open session.
func Close() Step { return Step{Op: OpClose} }

// Job returns a step running j.
func Job(j *dma.Job) Step { return Step{Op: OpJob, Job: j} }

func (s Step) String() string {
	switch s.Op {
	case OpOpen:
		return "open " + s.Session
	case OpRead:
		names := make([]string, len(s.Blocks))
		for i, b := range s.Blocks {
			names[i] = b.Name
		}
		return "read " + strings.Join(names, ", ")
	case OpJob:
		if s.Job != nil {
			return "job " + s.Job.String()
		}
	}
	return s.Op.String()
}

// Script populates memory for a phase.
type Script struct {
	Phase Phase

	// Load runs while the display is disabled.
	Load []Step

	// Stage runs after the display was enabled. It must not touch what's
	// being displayed.
	Stage []Step
}

// Steps returns the Load steps followed by the Stage steps.
func (s *Script) Steps() []Step {
	return append(s.Load[:len(s.Load):len(s.Load)], s.Stage...)
}

// Validate checks the script's session handling and job descriptors. Errors
// are of type *StepError, with the index counting Load steps first.
func (s *Script) Validate() error {
	var session string
	for i, step := range s.Steps() {
		var err error
		switch step.Op {
		case OpOpen:
			if step.Session == "" {
				err = errors.New("empty session name")
			} else if session != "" {
				err = fmt.Errorf("%s still open", session)
			}
			session = step.Session
		case OpRead:
			if session == "" {
				err = errors.New("no session open")
			} else if len(step.Blocks) == 0 {
				err = errors.New("no blocks")
			}
			for _, b := range step.Blocks {
				if b.Max <= 0 || b.Max > dma.MaxLen {
					err = fmt.Errorf("block %s: size %d", b.Name, b.Max)
				}
			}
		case OpClose:
			if session == "" {
				err = errors.New("no session open")
			}
			session = ""
		case OpJob:
			if step.Job == nil {
				err = errors.New("missing job")
			} else {
				err = step.Job.Validate()
			}
		default:
			err = fmt.Errorf("unknown op %v", step.Op)
		}
		if err != nil {
			return &StepError{s.Phase, i, step, fmt.Errorf("%w: %w", ErrInvalidScript, err)}
		}
	}
	if session != "" {
		return fmt.Errorf("%w: %v: %s left open", ErrInvalidScript, s.Phase, session)
	}
	return nil
}
