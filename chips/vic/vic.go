package vic

import (
	"errors"
	"fmt"
	"sync"

	"github.com/clktmr/unicone/chips/mem"
	"github.com/clktmr/unicone/machine"
)

var (
	ErrEnabled = errors.New("display enabled during reconfiguration")
	ErrConfig  = errors.New("invalid display config")
)

// Config is the display setup of a single phase.
type Config struct {
	RowLength uint16 // characters per row
	RowCount  uint8
	Height    Height

	Border, Background uint8

	TileMap mem.Addr // in chip RAM
	AttrMap mem.Addr // in colour RAM
}

// TileMapRange returns the memory the display reads the tile map from.
func (c Config) TileMapRange() mem.Range {
	return mem.Range{Start: c.TileMap, Len: c.mapLen()}
}

// AttrMapRange returns the memory the display reads the attribute map from.
func (c Config) AttrMapRange() mem.Range {
	return mem.Range{Start: c.AttrMap, Len: c.mapLen()}
}

// Two bytes per character in CHR16 mode.
func (c Config) mapLen() int { return 2 * int(c.RowLength) * int(c.RowCount) }

func (c Config) validate() error {
	if c.RowLength == 0 || c.RowCount == 0 {
		return fmt.Errorf("%w: empty geometry", ErrConfig)
	}
	tiles := c.TileMapRange()
	if tiles.Start < mem.ChipRAM || tiles.End() > mem.ChipRAM+mem.ChipRAMSize {
		return fmt.Errorf("%w: tile map %v outside chip RAM", ErrConfig, tiles)
	}
	attrs := c.AttrMapRange()
	if attrs.Start < mem.ColorRAM || attrs.End() > mem.ColorRAM+mem.ColorRAMSize {
		return fmt.Errorf("%w: attribute map %v outside colour RAM", ErrConfig, attrs)
	}
	return nil
}

// VIC holds the display controller's registers.
//
// VIC is safe for concurrent use.
type VIC struct {
	mtx  sync.Mutex
	regs Registers
}

// New returns a VIC as found after power-on, with the display enabled and
// the video standard flag set by the hardware.
func New(video machine.VideoType) *VIC {
	return &VIC{regs: Registers{DEN: true, PALNTSC: video == machine.VideoNTSC}}
}

func (v *VIC) PALNTSC() bool {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.regs.PALNTSC
}

// Registers returns a snapshot of the current register state.
func (v *VIC) Registers() Registers {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	return v.regs
}

// Init does the one-off programming at boot which stays the same for all
// phases.
func (v *VIC) Init(video machine.VideoType) {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	r := &v.regs
	r.PALNTSC = video == machine.VideoNTSC
	r.RasterCompare = rasterCompare[video]

	r.FNRST = false // no raster interrupts
	r.H640 = true
	r.HOTREG = false
	r.CHR16 = true // tiles anywhere in memory
	r.MCM = true
	r.FCLRLO, r.FCLRHI = true, true
	r.NORRDEL = false // rrb double buffering
	r.CHRYSCL = 0
	r.CHRXSCL = 0x78
	r.DBLRR = false
}

func (v *VIC) SetEnabled(on bool) {
	v.mtx.Lock()
	defer v.mtx.Unlock()
	v.regs.DEN = on
}

// Configure applies cfg for video standard video. The display must be
// disabled, otherwise a half updated frame could be shown.
func (v *VIC) Configure(video machine.VideoType, cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	v.mtx.Lock()
	defer v.mtx.Unlock()

	if v.regs.DEN {
		return ErrEnabled
	}

	r := &v.regs
	b := Borders(video, cfg.Height)
	r.TBDRPOS = b.Top
	r.BBDRPOS = b.Bottom
	r.TEXTYPOS = b.TextY

	r.LINESTEP = cfg.RowLength << 1
	r.CHRCOUNT = cfg.RowLength
	r.DISPROWS = cfg.RowCount

	r.SCRNPTR = cfg.TileMap
	r.COLPTR = uint16(cfg.AttrMap - mem.ColorRAM)
	r.V400 = true

	r.BORDERCOL = cfg.Border
	r.SCREENCOL = cfg.Background
	return nil
}
