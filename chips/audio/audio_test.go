package audio

import "testing"

func TestPlayer(t *testing.T) {
	var p Player
	if _, ok := p.Playing(); ok {
		t.Fatal("fresh player must be silent")
	}

	p.Init(0x1_0000)
	if song, ok := p.Playing(); !ok || song != 0x1_0000 {
		t.Fatalf("expected song at $10000, got %v (playing %v)", song, ok)
	}

	p.SetMuted(true)
	for n := 0; n < Channels+1; n++ {
		p.NextChannel()
	}
	p.Reset()
	if p.Muted() {
		t.Fatal("Reset must unmute")
	}
	if ch := p.NextChannel(); ch != 0 {
		t.Fatalf("expected channel 0 after Reset, got %d", ch)
	}
	if _, ok := p.Playing(); !ok {
		t.Fatal("Reset must not stop the tune")
	}

	p.Stop()
	if _, ok := p.Playing(); ok {
		t.Fatal("still playing after Stop")
	}
}

func TestNextChannelRotates(t *testing.T) {
	var p Player
	for i := 0; i < 2*Channels; i++ {
		if ch := p.NextChannel(); ch != i%Channels {
			t.Fatalf("call %d: expected channel %d, got %d", i, i%Channels, ch)
		}
	}
}
