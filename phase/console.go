package phase

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/clktmr/unicone/actor"
	"github.com/clktmr/unicone/debug"
	"github.com/clktmr/unicone/machine"
)

var ErrNotBooted = errors.New("console not booted")

// Config wires a Console to the hardware.
type Config struct {
	Display Display
	Audio   Audio
	Stream  Streamer
	DMA     Copier

	// Scripts replaces the game's scripts if set. It must hold a script for
	// every phase.
	Scripts map[Phase]*Script

	Log   *slog.Logger
	Trace func(Event)
}

// Console is the phase state machine. Any phase can be entered from any
// other; every entry fully reloads what the phase shows.
//
// Console is not safe for concurrent use.
type Console struct {
	seq     Sequencer
	display Display
	audio   Audio
	scripts map[Phase]*Script
	log     *slog.Logger

	video   machine.VideoType
	booted  bool
	current Phase

	// Actors are read and written by the gameplay code only.
	Actors actor.State
}

func New(cfg Config) *Console {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	scripts := cfg.Scripts
	if scripts == nil {
		scripts = Scripts()
	}
	if debug.Enabled {
		for p, s := range scripts {
			err := s.Validate()
			debug.Assertf(err == nil, "%v: %v", p, err)
		}
	}
	return &Console{
		seq: Sequencer{
			Stream: cfg.Stream,
			DMA:    cfg.DMA,
			Log:    log,
			Trace:  cfg.Trace,
		},
		display: cfg.Display,
		audio:   cfg.Audio,
		scripts: scripts,
		log:     log,
	}
}

// Current returns the phase loaded last.
func (c *Console) Current() Phase { return c.current }

// Video returns the video standard detected at boot.
func (c *Console) Video() machine.VideoType { return c.video }

// Boot probes the video standard, does the one-off display setup and loads
// the loader phase. The audio player is reset once all data is staged.
func (c *Console) Boot() error {
	c.video = machine.Probe(c.display)
	c.log.Info("booting", "video", c.video)

	c.display.Init(c.video)
	c.booted = true

	if err := c.EnterPhase(Loader); err != nil {
		return err
	}
	c.audio.Reset()
	return nil
}

// EnterPhase loads target and makes it visible. The display is disabled
// while the phase's memory and display registers are set up. On failure
// the display stays disabled and the current phase is unchanged.
func (c *Console) EnterPhase(target Phase) error {
	if !c.booted {
		return ErrNotBooted
	}
	s, ok := c.scripts[target]
	if !ok {
		return fmt.Errorf("%v: no script", target)
	}
	debug.Assertf(s.Phase == target, "script for %v loads %v", target, s.Phase)
	cfg := DisplayConfig(target)

	c.display.SetEnabled(false)

	if err := c.seq.Run(target, s.Load); err != nil {
		return c.fail(target, err)
	}
	if err := c.display.Configure(c.video, cfg); err != nil {
		return c.fail(target, err)
	}
	c.display.SetEnabled(true)

	if err := c.seq.Run(target, s.Stage, cfg.TileMapRange(), cfg.AttrMapRange()); err != nil {
		var serr *StepError
		if errors.As(err, &serr) {
			serr.Index += len(s.Load)
		}
		c.display.SetEnabled(false)
		return c.fail(target, err)
	}

	if song, ok := Music(target); ok {
		c.audio.Init(song)
	}

	c.log.Info("phase entered", "phase", target, "from", c.current)
	c.current = target
	return nil
}

func (c *Console) fail(target Phase, err error) error {
	c.log.Error("phase change failed", "phase", target, "err", err)
	return err
}
