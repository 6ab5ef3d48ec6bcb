// Package phase orchestrates loading of the game's four phases.
//
// Every phase is described by a Script: an ordered list of streaming and DMA
// steps that populates memory for the phase. Scripts are data, not code, so
// their ordering can be validated and replayed without the hardware. The
// Sequencer executes scripts and the Console ties scripts, display and audio
// together into the phase state machine.
//
// The loader phase streams everything from storage once, backing up the data
// of later phases into attic RAM. Entering any other phase only moves staged
// data into the banks the display and the player read from.
package phase

import (
	"fmt"
	"strings"
)

// Phase is one of the mutually exclusive states of the game.
type Phase uint8

const (
	Loader Phase = iota
	Title
	InGame
	GameOver

	numPhases
)

var phaseNames = [numPhases]string{
	Loader:   "loader",
	Title:    "title",
	InGame:   "ingame",
	GameOver: "gameover",
}

func (p Phase) String() string {
	if p >= numPhases {
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
	return phaseNames[p]
}

// Phases returns all phases in boot order.
func Phases() []Phase {
	return []Phase{Loader, Title, InGame, GameOver}
}

// Parse returns the phase named s, ignoring case.
func Parse(s string) (Phase, error) {
	for i, name := range phaseNames {
		if strings.EqualFold(s, name) {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}
