// Package machine holds the properties of the MEGA65 that are fixed at
// power-on and probed once during boot.
package machine

import "fmt"

// VideoType is the video standard the VIC-IV was started with. The values
// equal the VIC-IV's PALNTSC flag.
type VideoType uint8

const (
	VideoPAL  VideoType = 0
	VideoNTSC VideoType = 1
)

func (v VideoType) String() string {
	switch v {
	case VideoPAL:
		return "PAL"
	case VideoNTSC:
		return "NTSC"
	}
	return fmt.Sprintf("VideoType(%d)", uint8(v))
}

// A Prober reports the hardware's video standard flag.
type Prober interface {
	PALNTSC() bool
}

// Probe reads the video standard from p. It's meant to be called once at
// boot, the result doesn't change until the next power cycle.
func Probe(p Prober) VideoType {
	if p.PALNTSC() {
		return VideoNTSC
	}
	return VideoPAL
}
