package phase

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/clktmr/unicone/chips/dma"
	"github.com/clktmr/unicone/chips/mem"
	"github.com/clktmr/unicone/drivers/iffl"
)

var (
	ErrLiveWrite       = errors.New("write to displayed memory")
	ErrUnexpectedBlock = errors.New("unexpected block")
)

// A Streamer delivers the blocks of one storage session at a time into
// memory. It's implemented by *iffl.Loader.
type Streamer interface {
	Open(name string) error
	Peek() (iffl.BlockInfo, error)
	Next() (iffl.BlockInfo, error)
	Close() error
}

// A Copier runs DMA jobs to completion. It's implemented by *dma.Engine.
type Copier interface {
	Run(j *dma.Job) error
}

var (
	_ Streamer = (*iffl.Loader)(nil)
	_ Copier   = (*dma.Engine)(nil)
)

// StepError records an error and the script step that caused it.
type StepError struct {
	Phase Phase
	Index int
	Step  Step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%v: step %d (%v): %v", e.Phase, e.Index, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Event is emitted for every hardware operation the sequencer issues.
type Event struct {
	Phase   Phase
	Op      Op
	Session string         // OpOpen, OpClose
	Block   iffl.BlockInfo // OpRead
	Job     *dma.Job       // OpJob
}

func (ev Event) String() string {
	switch ev.Op {
	case OpOpen, OpClose:
		return fmt.Sprintf("%v: %v %s", ev.Phase, ev.Op, ev.Session)
	case OpRead:
		return fmt.Sprintf("%v: read %v", ev.Phase, ev.Block)
	case OpJob:
		return fmt.Sprintf("%v: job %v", ev.Phase, ev.Job)
	}
	return fmt.Sprintf("%v: %v", ev.Phase, ev.Op)
}

// Sequencer executes script steps strictly in order. There's no parallelism
// between streaming and copying: every step completes before the next one
// starts.
type Sequencer struct {
	Stream Streamer
	DMA    Copier

	Log   *slog.Logger
	Trace func(Event) // optional

	session string
}

func (sq *Sequencer) log() *slog.Logger {
	if sq.Log == nil {
		return slog.Default()
	}
	return sq.Log
}

func (sq *Sequencer) emit(ev Event) {
	if sq.Trace != nil {
		sq.Trace(ev)
	}
}

// Run executes steps of phase p. Blocks and jobs writing memory that
// overlaps one of the live ranges are rejected with ErrLiveWrite. The first
// failing step aborts the run with a *StepError, leaving memory as far as
// it got. A session opened by the steps is closed on failure.
func (sq *Sequencer) Run(p Phase, steps []Step, live ...mem.Range) error {
	for i, step := range steps {
		if err := sq.step(p, step, live); err != nil {
			sq.abort(p)
			return &StepError{p, i, step, err}
		}
	}
	return nil
}

func (sq *Sequencer) abort(p Phase) {
	if sq.session == "" {
		return
	}
	if err := sq.Stream.Close(); err != nil {
		sq.log().Warn("closing aborted session", "phase", p, "session", sq.session, "err", err)
	}
	sq.emit(Event{Phase: p, Op: OpClose, Session: sq.session})
	sq.session = ""
}

func (sq *Sequencer) step(p Phase, step Step, live []mem.Range) error {
	log := sq.log()
	switch step.Op {
	case OpOpen:
		if err := sq.Stream.Open(step.Session); err != nil {
			return err
		}
		sq.session = step.Session
		log.Info("session opened", "phase", p, "session", step.Session)
		sq.emit(Event{Phase: p, Op: OpOpen, Session: step.Session})

	case OpRead:
		for _, want := range step.Blocks {
			info, err := sq.Stream.Peek()
			if err != nil {
				return err
			}
			if info.Addr != want.Addr || info.Size > want.Max {
				return fmt.Errorf("%w: %v, want %s at %v", ErrUnexpectedBlock, info, want.Name, want.Addr)
			}
			if err := checkLive(info.Range(), live); err != nil {
				return err
			}
			if info, err = sq.Stream.Next(); err != nil {
				return err
			}
			log.Debug("block read", "phase", p, "block", want.Name, "addr", info.Addr, "size", info.Size)
			sq.emit(Event{Phase: p, Op: OpRead, Session: sq.session, Block: info})
		}

	case OpClose:
		if err := sq.Stream.Close(); err != nil {
			return err
		}
		log.Info("session closed", "phase", p, "session", sq.session)
		sq.emit(Event{Phase: p, Op: OpClose, Session: sq.session})
		sq.session = ""

	case OpJob:
		if err := checkLive(step.Job.Dest(), live); err != nil {
			return err
		}
		if err := sq.DMA.Run(step.Job); err != nil {
			return err
		}
		sq.emit(Event{Phase: p, Op: OpJob, Job: step.Job})

	default:
		return fmt.Errorf("%w: unknown op %v", ErrInvalidScript, step.Op)
	}
	return nil
}

func checkLive(r mem.Range, live []mem.Range) error {
	for _, l := range live {
		if r.Overlaps(l) {
			return fmt.Errorf("%w: %v overlaps %v", ErrLiveWrite, r, l)
		}
	}
	return nil
}
