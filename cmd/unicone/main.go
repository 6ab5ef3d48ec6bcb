// Command unicone boots the game on a simulated MEGA65 and walks through its
// phases, printing the display setup after every phase change.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/clktmr/unicone/chips/audio"
	"github.com/clktmr/unicone/chips/dma"
	"github.com/clktmr/unicone/chips/mem"
	"github.com/clktmr/unicone/chips/vic"
	"github.com/clktmr/unicone/drivers/iffl"
	"github.com/clktmr/unicone/drivers/storage"
	"github.com/clktmr/unicone/machine"
	"github.com/clktmr/unicone/phase"
)

var (
	dir      = flag.String("dir", ".", "directory holding the bundles")
	image    = flag.String("image", "", "FAT32 SD card image holding the bundles, overrides -dir")
	ntsc     = flag.Bool("ntsc", false, "start the VIC-IV in NTSC mode")
	watchdog = flag.Duration("watchdog", 5*time.Second, "give up on DMA jobs running longer, 0 waits forever")
	delay    = flag.Duration("delay", 0, "simulated duration of every DMA job")
	verbose  = flag.Bool("v", false, "log every block and DMA job")
	trace    = flag.Bool("trace", false, "print every streaming and DMA operation")
	phases   = flag.String("phases", "title,ingame,gameover", "comma separated phases to enter after boot")
)

const usageString = `Boots the game on a simulated MEGA65.

Usage: %s [flags]

`

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(log); err != nil {
		log.Error("halted", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	var targets []phase.Phase
	for _, name := range strings.Split(*phases, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		p, err := phase.Parse(name)
		if err != nil {
			return err
		}
		targets = append(targets, p)
	}

	var tr iffl.Transport = storage.NewFS(os.DirFS(*dir))
	if *image != "" {
		img, err := storage.OpenImage(*image)
		if err != nil {
			return err
		}
		defer img.Close()
		log.Info("image opened", "path", *image, "label", img.Label())
		tr = img
	}

	video := machine.VideoPAL
	if *ntsc {
		video = machine.VideoNTSC
	}

	m := mem.New()
	sim := dma.NewSim(m)
	sim.Delay = *delay
	eng := dma.NewEngine(sim)
	eng.Watchdog = *watchdog
	eng.Log = log

	display := vic.New(video)
	player := &audio.Player{}

	cfg := phase.Config{
		Display: display,
		Audio:   player,
		Stream:  iffl.NewLoader(tr, m),
		DMA:     eng,
		Log:     log,
	}
	if *trace {
		cfg.Trace = func(ev phase.Event) { fmt.Println(ev) }
	}
	c := phase.New(cfg)

	if err := c.Boot(); err != nil {
		return err
	}
	show(c, display, player)

	for _, p := range targets {
		if err := c.EnterPhase(p); err != nil {
			return err
		}
		show(c, display, player)
	}
	return nil
}

func show(c *phase.Console, display *vic.VIC, player *audio.Player) {
	r := display.Registers()
	fmt.Printf("%v (%v)\n", c.Current(), c.Video())
	fmt.Printf("\tscreen   %dx%d, line step %d, V400 %v, display %v\n", r.CHRCOUNT, r.DISPROWS, r.LINESTEP, r.V400, r.DEN)
	fmt.Printf("\tborders  top %#03x, bottom %#03x, text %#03x\n", r.TBDRPOS, r.BBDRPOS, r.TEXTYPOS)
	fmt.Printf("\tpointers screen %v, colour +%#04x\n", r.SCRNPTR, r.COLPTR)
	fmt.Printf("\tcolours  border %d, screen %d\n", r.BORDERCOL, r.SCREENCOL)
	if song, ok := player.Playing(); ok {
		fmt.Printf("\tmusic    %v\n", song)
	}
	fmt.Printf("\tactors   falling %v, stacked %v, stack top %d\n", c.Actors.Falling, c.Actors.Stacked, c.Actors.Stack.Top)
}
