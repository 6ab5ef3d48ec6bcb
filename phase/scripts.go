package phase

import (
	"github.com/clktmr/unicone/chips/dma"
	"github.com/clktmr/unicone/chips/mem"
)

// Storage sessions
const (
	Bootstrap = "+UNICONE0"
	Main      = "+UNICONE1"
)

const half = mem.BankSize / 2

// Map sizes, two bytes per character
const (
	loaderMapLen = 2 * 80 * 60
	gameMapLen   = 2 * 100 * 50
	playfieldLen = 2 * 100 * 40
)

var bank = mem.BankAddr

// Memory layout
var (
	tileMap     = bank(5) + 0x8000 // displayed in all phases
	song        = bank(1)
	scratch     = bank(1) // staging buffer for streamed blocks
	attrScratch = bank(1) + 0x1000
	switchboard = bank(0) + 0xc000

	slotTitleMusic   = mem.AtticSlot(0)
	slotTitleTiles0  = mem.AtticSlot(1)
	slotTitleTiles1  = mem.AtticSlot(2)
	slotTitleBank5   = mem.AtticSlot(3) // tiles, tile map +$8000, attributes +$c000, sprites +$e800
	slotGameBank1    = mem.AtticSlot(4) // music, sprites +$6000, playfield +$c000, palettes +$e000
	slotGameSFX      = mem.AtticSlot(5)
	slotBackdrop     = mem.AtticSlot(6)
	slotBackdropTail = mem.AtticSlot(7) // tiles, splat +$c000
	slotGameOverA    = mem.AtticSlot(8) // effects, in-game attributes +$8000
	slotGameOverB    = mem.AtticSlot(9)
)

func clearScratch() Step {
	return Job(dma.Fill("clear-bank1", scratch, mem.BankSize, 0))
}

func backup(name string, slot mem.Addr, n int) Step {
	return Job(dma.Copy(name, slot, scratch, n))
}

func restore(name string, n int, slot mem.Addr) Step {
	return Job(dma.Copy(name, bank(n), slot, mem.BankSize))
}

var loaderScript = &Script{
	Phase: Loader,
	Load: []Step{
		Open(Bootstrap),
		Read(Block{"palette", scratch, mem.PaletteSize}),
		Job(dma.Copy("palette", mem.Palette, scratch, mem.PaletteSize)),

		// The loading screen's tiles arrive in halves. Every second half is
		// moved into place before the next pair is read.
		Read(
			Block{"loader-tiles-0", bank(3), half},
			Block{"loader-tiles-1", bank(2), half},
		),
		Job(dma.Copy("loader-tiles-1", bank(3)+half, bank(2), half)),
		Read(
			Block{"loader-tiles-2", bank(4), half},
			Block{"loader-tiles-3", bank(2), half},
		),
		Job(dma.Copy("loader-tiles-3", bank(4)+half, bank(2), half)),
		Read(
			Block{"loader-tiles-4", bank(5), half},
			Block{"loader-tilemap", tileMap, loaderMapLen},
			Block{"loader-attrmap", attrScratch, loaderMapLen},
		),
		Job(dma.Copy("loader-attrmap", mem.ColorRAM, attrScratch, loaderMapLen)),
	},
	Stage: []Step{
		Read(Block{"sfx-switchboard", switchboard, 0x1000}),

		clearScratch(),
		Read(Block{"title-music", scratch, mem.BankSize}),
		backup("title-music", slotTitleMusic, mem.BankSize),

		Read(Block{"title-tiles-0a", scratch, half}),
		backup("title-tiles-0a", slotTitleTiles0, half),
		Read(Block{"title-tiles-0b", scratch, half}),
		backup("title-tiles-0b", slotTitleTiles0+half, half),
		Read(Block{"title-tiles-1a", scratch, half}),
		backup("title-tiles-1a", slotTitleTiles1, half),
		Read(Block{"title-tiles-1b", scratch, half}),
		backup("title-tiles-1b", slotTitleTiles1+half, half),

		clearScratch(),
		Read(
			Block{"title-tiles-2", scratch, half},
			Block{"title-tilemap", scratch + 0x8000, loaderMapLen},
			Block{"title-attrmap", scratch + 0xc000, loaderMapLen},
			Block{"title-sprites", scratch + 0xe800, 0x1800},
		),
		backup("title-bank5", slotTitleBank5, mem.BankSize),
		Close(),

		Open(Main),
		clearScratch(),
		Read(
			Block{"game-music", scratch, 0x6000},
			Block{"game-sprites", scratch + 0x6000, 0x6000},
			Block{"game-tilemap", scratch + 0xc000, playfieldLen},
			Block{"game-palettes", scratch + 0xe000, 3 * mem.PaletteSize},
		),
		backup("game-bank1", slotGameBank1, mem.BankSize),

		clearScratch(),
		Read(
			Block{"sfx-start", scratch, 0x2000},
			Block{"sfx-trot", scratch + 0x2000, 0x2000},
			Block{"sfx-splat1", scratch + 0x4000, 0x4000},
		),
		backup("game-sfx-a", slotGameSFX, half),
		clearScratch(),
		Read(
			Block{"sfx-falling", scratch, 0x3000},
			Block{"sfx-splat2", scratch + 0x3000, 0x5000},
		),
		backup("game-sfx-b", slotGameSFX+half, half),

		clearScratch(),
		Read(Block{"backdrop-tiles-a", scratch, half}),
		backup("backdrop-tiles-a", slotBackdrop, half),
		Read(Block{"backdrop-tiles-b", scratch, half}),
		backup("backdrop-tiles-b", slotBackdrop+half, half),
		clearScratch(),
		Read(
			Block{"backdrop-tiles-c", scratch, half},
			Block{"sfx-splat3", scratch + 0xc000, 0x4000},
		),
		backup("backdrop-bank5", slotBackdropTail, mem.BankSize),

		clearScratch(),
		Read(
			Block{"gameover-sfx", scratch, half},
			Block{"game-attrmap", scratch + half, gameMapLen},
		),
		backup("gameover-bank2", slotGameOverA, mem.BankSize),
		clearScratch(),
		Read(Block{"gameover-overlay", scratch, mem.BankSize}),
		backup("gameover-bank3", slotGameOverB, mem.BankSize),
		Close(),
	},
}

var titleScript = &Script{
	Phase: Title,
	Load: []Step{
		restore("title-music", 1, slotTitleMusic),
		restore("title-tiles-0", 3, slotTitleTiles0),
		restore("title-tiles-1", 4, slotTitleTiles1),
		restore("title-bank5", 5, slotTitleBank5),
		Job(dma.Copy("title-attrmap", mem.ColorRAM, bank(5)+0xc000, loaderMapLen)),
	},
}

var inGameScript = &Script{
	Phase: InGame,
	Load: []Step{
		restore("game-bank1", 1, slotGameBank1),
		restore("game-sfx", 2, slotGameSFX),
		restore("backdrop-tiles", 4, slotBackdrop),
		restore("backdrop-bank5", 5, slotBackdropTail),
		Job(dma.Fill("clear-tilemap", tileMap, gameMapLen, 0)),
		Job(dma.Copy("game-tilemap", tileMap, slotGameBank1+0xc000, playfieldLen)),
		Job(dma.Copy("game-attrmap", mem.ColorRAM, slotGameOverA+half, gameMapLen)),
	},
}

var gameOverScript = &Script{
	Phase: GameOver,
	Load: []Step{
		restore("gameover-sfx", 2, slotGameOverA),
		restore("gameover-overlay", 3, slotGameOverB),
	},
}

var scripts = [numPhases]*Script{
	Loader:   loaderScript,
	Title:    titleScript,
	InGame:   inGameScript,
	GameOver: gameOverScript,
}

// ScriptOf returns the script loading p.
func ScriptOf(p Phase) *Script {
	return scripts[p]
}

// Scripts returns the scripts of all phases.
func Scripts() map[Phase]*Script {
	m := make(map[Phase]*Script, numPhases)
	for p, s := range scripts {
		m[Phase(p)] = s
	}
	return m
}

// music holds the tune each phase plays. Phases not listed keep the player
// untouched.
var music = map[Phase]mem.Addr{
	Title:  song,
	InGame: song,
}
