package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep/speaker"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zerodeaths/zerodeaths/internal/core/component"
	"github.com/zerodeaths/zerodeaths/internal/core/input"
	"github.com/zerodeaths/zerodeaths/internal/core/observability/log"
	"github.com/zerodeaths/zerodeaths/internal/game"
	"github.com/zerodeaths/zerodeaths/internal/injector"
)

// defaultLogFile keeps log output off the game screen.
const defaultLogFile = "zerodeaths.log"

type runFlags struct {
	level    int
	listen   string
	headless bool
	frames   int
}

func newRunCmd(flags *rootFlags) *cobra.Command {
	rf := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play the game in this terminal",
		Long: `Play the game in this terminal. With --headless nothing is drawn and
no audio device is opened; the frame loop runs for --frames frames (or until
interrupted) and the final HUD is printed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGame(cmd, flags, rf)
		},
	}

	cmd.Flags().IntVar(&rf.level, "level", 0, "start at this level instead of the configured one")
	cmd.Flags().StringVar(&rf.listen, "listen", "", "serve /metrics and /events on this address")
	cmd.Flags().BoolVar(&rf.headless, "headless", false, "run without a screen or audio")
	cmd.Flags().IntVar(&rf.frames, "frames", 0, "with --headless, stop after this many frames")

	return cmd
}

func runGame(cmd *cobra.Command, flags *rootFlags, rf *runFlags) error {
	cfg, err := flags.load()
	if err != nil {
		return err
	}
	if rf.level > 0 {
		cfg.Game.StartLevel = rf.level
	}
	if rf.listen != "" {
		cfg.Server.Enabled = true
		cfg.Server.Listen = rf.listen
	}
	if !rf.headless && cfg.Game.LogFile == "" {
		cfg.Game.LogFile = defaultLogFile
	}
	if rf.headless {
		// Nobody reads the menu without a screen.
		cfg.Game.StartInMenu = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := input.NewState(cfg.Game.HoldFrames)
	rt, cleanup, err := injector.InitializeRuntime(cfg, []game.Option{game.WithInput(in), game.WithExit(cancel)})
	if err != nil {
		return err
	}
	defer cleanup()
	defer func() { _ = rt.Logger.Sync() }()

	if err := rt.Game.Start(); err != nil {
		return err
	}
	rt.Logger.Info("game started",
		log.String("title", cfg.Game.Title),
		log.Int("level", cfg.Game.StartLevel),
		log.Bool("headless", rf.headless),
	)

	if rf.headless {
		return runHeadless(ctx, cancel, cmd, rt, rf.frames)
	}
	return runTerminal(ctx, cancel, rt)
}

// background starts the debug server, if enabled, in eg.
func background(ctx context.Context, eg *errgroup.Group, rt *injector.Runtime) {
	if rt.Server == nil {
		return
	}
	eg.Go(func() error { return rt.Server.Run(ctx) })
}

func runHeadless(ctx context.Context, cancel context.CancelFunc, cmd *cobra.Command, rt *injector.Runtime, frames int) error {
	loop := game.NewLoop(rt.Game, rt.Config.FrameInterval(), nil, nil, rt.Logger)

	eg, ctx := errgroup.WithContext(ctx)
	background(ctx, eg, rt)
	eg.Go(func() error {
		defer cancel()
		if frames > 0 {
			return loop.Step(frames)
		}
		return loop.Run(ctx)
	})
	err := eg.Wait()

	for _, line := range rt.Game.HUD() {
		cmd.Println(line)
	}
	return err
}

func runTerminal(ctx context.Context, cancel context.CancelFunc, rt *injector.Runtime) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	var finiOnce sync.Once
	fini := func() { finiOnce.Do(screen.Fini) }
	defer fini()
	screen.EnableMouse()
	screen.HideCursor()

	defer startAudio(rt.Game.Sound(), rt.Logger)()

	events := make(chan tcell.Event, 128)
	loop := game.NewLoop(rt.Game, rt.Config.FrameInterval(), events, func(g *game.Game) { draw(screen, g) }, rt.Logger)

	eg, ctx := errgroup.WithContext(ctx)
	background(ctx, eg, rt)
	eg.Go(func() error {
		defer cancel()
		return loop.Run(ctx)
	})
	eg.Go(func() error {
		pump(ctx, screen, events, cancel)
		return nil
	})
	eg.Go(func() error {
		// Fini unblocks PollEvent in pump.
		<-ctx.Done()
		fini()
		return nil
	})
	return eg.Wait()
}

// pump forwards terminal events to the frame loop until the screen is
// finalized. Ctrl+C quits; the terminal swallows it as a key.
func pump(ctx context.Context, screen tcell.Screen, out chan<- tcell.Event, quit func()) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
			continue
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				quit()
				continue
			}
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// startAudio plays the sound manager's mix on the default device. Audio is
// optional: without a device the game runs silently.
func startAudio(sound *component.SoundManager, logger log.Log) func() {
	sr := sound.SampleRate()
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		logger.Warn("audio unavailable", log.Error(err))
		return func() {}
	}
	speaker.Play(sound.Output())
	return speaker.Close
}
