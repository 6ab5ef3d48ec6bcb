package dma

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

var ErrBusy = errors.New("dma busy")

// A Controller executes encoded DMA lists. It's the hardware side of the
// engine: Trigger starts a list and Busy reports if it's still running.
type Controller interface {
	Trigger(list []byte) error
	Busy() bool
}

// A Faulter is a Controller that can tell if the last job failed.
type Faulter interface {
	Fault() error
}

// Engine runs jobs on a Controller one at a time.
type Engine struct {
	ctrl Controller

	// Watchdog is the time a job may take before the engine gives up and
	// panics. Zero waits forever, which is what the hardware would do.
	Watchdog time.Duration

	Log *slog.Logger // defaults to slog.Default()
}

func NewEngine(c Controller) *Engine {
	return &Engine{ctrl: c}
}

func (e *Engine) log() *slog.Logger {
	if e.Log == nil {
		return slog.Default()
	}
	return e.Log
}

// Run executes j and blocks until the controller reports completion. It
// returns an error if the job is invalid or the controller reports a fault.
func (e *Engine) Run(j *Job) error {
	list, err := j.MarshalBinary()
	if err != nil {
		return err
	}

	e.wait(j)

	if err := e.ctrl.Trigger(list); err != nil {
		return fmt.Errorf("dma: %s: %w", j.Name, err)
	}

	e.wait(j)

	if f, ok := e.ctrl.(Faulter); ok {
		if err := f.Fault(); err != nil {
			return fmt.Errorf("dma: %s: %w", j.Name, err)
		}
	}
	e.log().Debug("dma job done", "job", j.Name, "cmd", j.Cmd, "src", j.Src, "dst", j.Dst, "len", j.Len)
	return nil
}

// wait blocks until the controller is idle.
func (e *Engine) wait(j *Job) {
	var deadline time.Time
	if e.Watchdog > 0 {
		deadline = time.Now().Add(e.Watchdog)
	}
	for e.ctrl.Busy() {
		if !deadline.IsZero() && time.Now().After(deadline) {
			e.log().Error("dma job never completed", "job", j.Name, "watchdog", e.Watchdog)
			panic(fmt.Sprintf("dma: job %q timed out", j.Name))
		}
		runtime.Gosched()
	}
}
