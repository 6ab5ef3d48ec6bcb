package phase

import (
	"github.com/clktmr/unicone/chips/audio"
	"github.com/clktmr/unicone/chips/mem"
	"github.com/clktmr/unicone/chips/vic"
	"github.com/clktmr/unicone/machine"
)

// Display is the display controller as seen by the console. It's
// implemented by *vic.VIC.
type Display interface {
	machine.Prober
	Init(video machine.VideoType)
	SetEnabled(on bool)
	Configure(video machine.VideoType, cfg vic.Config) error
}

// Audio is the music player as seen by the console. It's implemented by
// *audio.Player.
type Audio interface {
	Init(song mem.Addr)
	Reset()
}

var (
	_ Display = (*vic.VIC)(nil)
	_ Audio   = (*audio.Player)(nil)
)

var displayConfigs = [numPhases]vic.Config{
	Loader: {
		RowLength: 80, RowCount: 60, Height: vic.Tall,
		Border: 28, Background: 28,
		TileMap: tileMap, AttrMap: mem.ColorRAM,
	},
	Title: {
		RowLength: 80, RowCount: 60, Height: vic.Tall,
		Border: 28, Background: 28,
		TileMap: tileMap, AttrMap: mem.ColorRAM,
	},
	InGame: {
		RowLength: 100, RowCount: 50, Height: vic.Short,
		Border: 23, Background: 23,
		TileMap: tileMap, AttrMap: mem.ColorRAM,
	},
	GameOver: {
		RowLength: 100, RowCount: 50, Height: vic.Short,
		Border: 23, Background: 23,
		TileMap: tileMap, AttrMap: mem.ColorRAM,
	},
}

// DisplayConfig returns the display setup of phase p.
func DisplayConfig(p Phase) vic.Config {
	return displayConfigs[p]
}

// Music returns the address of the tune played in phase p.
func Music(p Phase) (song mem.Addr, ok bool) {
	song, ok = music[p]
	return
}
