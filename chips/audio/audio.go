// Package audio is the loader's view of the music and sound effect player.
//
// The player itself runs from the raster interrupt and is not modelled here.
// The loader only ever starts a tune that it placed in memory beforehand and
// resets the player's state once all data is loaded.
package audio

import (
	"sync"

	"github.com/clktmr/unicone/chips/mem"
)

// Channels is the number of audio DMA channels sound effects rotate over.
const Channels = 4

// Player is safe for concurrent use.
type Player struct {
	mtx         sync.Mutex
	song        mem.Addr
	playing     bool
	muted       bool
	nextChannel int
}

// Init starts the tune located at song from the beginning.
func (p *Player) Init(song mem.Addr) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.song = song
	p.playing = true
}

// Reset unmutes the player and restarts sound effect channel allocation.
func (p *Player) Reset() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.muted = false
	p.nextChannel = 0
}

// Stop silences the current tune.
func (p *Player) Stop() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.playing = false
}

// Playing returns the address of the tune being played, if any.
func (p *Player) Playing() (song mem.Addr, ok bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.song, p.playing
}

func (p *Player) SetMuted(muted bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.muted = muted
}

func (p *Player) Muted() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.muted
}

// NextChannel returns the channel for the next sound effect.
func (p *Player) NextChannel() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	ch := p.nextChannel
	p.nextChannel = (p.nextChannel + 1) % Channels
	return ch
}
