package dma

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/clktmr/unicone/chips/mem"
	"github.com/clktmr/unicone/debug"
)

// Sim is a Controller executing jobs on a mem.Memory. Each job runs on its
// own goroutine, so callers must poll Busy like they would on hardware.
type Sim struct {
	mem *mem.Memory

	// Delay is added to every job to simulate the transfer time.
	Delay time.Duration

	busy  atomic.Bool
	mtx   sync.Mutex
	fault error
	stall bool
}

func NewSim(m *mem.Memory) *Sim {
	return &Sim{mem: m}
}

func (s *Sim) Busy() bool { return s.busy.Load() }

// Fault returns the error of the last finished job, if any.
func (s *Sim) Fault() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.fault
}

// Stall makes all following jobs never complete, like a hung DMAgic.
func (s *Sim) Stall() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.stall = true
}

func (s *Sim) Trigger(list []byte) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	j, err := Decode(list)
	if err != nil {
		s.busy.Store(false)
		return err
	}

	s.mtx.Lock()
	s.fault = nil
	stall := s.stall
	s.mtx.Unlock()
	if stall {
		return nil // busy forever
	}

	debug.Assertf(j.Len > 0 && j.Len <= MaxLen, "decoded job length %#x", j.Len)

	go func() {
		if s.Delay > 0 {
			time.Sleep(s.Delay)
		}
		var err error
		switch j.Cmd {
		case CmdCopy:
			err = s.mem.Copy(j.Dst, j.Src, j.Len)
		case CmdFill:
			err = s.mem.Fill(j.Dst, j.Len, j.Value)
		}
		s.mtx.Lock()
		s.fault = err
		s.mtx.Unlock()
		s.busy.Store(false)
	}()
	return nil
}
