// VIC-IV display controller, reduced to the registers the loader programs.
package vic

import (
	"github.com/clktmr/unicone/chips/mem"
	"github.com/clktmr/unicone/machine"
)

// Registers is a snapshot of the VIC-IV state. The VIC type is the only
// thing mutating it.
type Registers struct {
	DEN     bool // display enable
	PALNTSC bool

	H640    bool
	V400    bool
	CHR16   bool
	MCM     bool
	HOTREG  bool
	NORRDEL bool
	DBLRR   bool
	FCLRLO  bool
	FCLRHI  bool
	FNRST   bool
	CHRXSCL uint8
	CHRYSCL uint8

	RasterCompare uint16

	TBDRPOS  uint16 // top border
	BBDRPOS  uint16 // bottom border
	TEXTYPOS uint16 // first text row

	LINESTEP uint16 // bytes per screen row
	CHRCOUNT uint16 // characters per screen row
	DISPROWS uint8

	SCRNPTR mem.Addr // tile map
	COLPTR  uint16   // attribute map offset into colour RAM

	BORDERCOL uint8
	SCREENCOL uint8
}

// Height selects one of the two vertical resolutions the game uses.
type Height uint8

const (
	Tall  Height = iota // 480 lines
	Short               // 400 lines
)

func (h Height) String() string {
	if h == Short {
		return "short"
	}
	return "tall"
}

// BorderSet is the vertical border and text start position for a video
// standard and height.
type BorderSet struct {
	Top, Bottom, TextY uint16
}

var borders = map[machine.VideoType][2]BorderSet{
	machine.VideoNTSC: {
		Tall:  {Top: 0x00f, Bottom: 0x1ef, TextY: 0x00f},
		Short: {Top: 0x037, Bottom: 0x1c7, TextY: 0x037},
	},
	machine.VideoPAL: {
		Tall:  {Top: 0x040, Bottom: 0x220, TextY: 0x040},
		Short: {Top: 0x068, Bottom: 0x1f8, TextY: 0x068},
	},
}

// Borders returns the border positions for video standard v and height h.
func Borders(v machine.VideoType, h Height) BorderSet {
	return borders[v][h]
}

var rasterCompare = map[machine.VideoType]uint16{
	machine.VideoNTSC: 0x1c6,
	machine.VideoPAL:  0x1f7,
}
