package testbed

import (
	"errors"
	"slices"

	"github.com/spaghettifunk/anima-progress/engine"
	"github.com/spaghettifunk/anima-progress/engine/core"
	"github.com/spaghettifunk/anima-progress/engine/renderer/components"
)

// demoSequence is played when no feed file is configured. It passes through
// 0 so the hide-on-empty path runs too.
var demoSequence = []float32{0.75, 0.5, 0.25, 0, 0.6, 1}

type TestGame struct {
	*engine.Game
}

type gameState struct {
	config      *Config
	bar         *components.ProgressBar
	moveOptions []components.MoveOption
	feed        *Feed

	demoStep    int
	demoElapsed float64
}

func NewTestGame(cfg *Config) (*TestGame, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: &cfg.Application,
			State: &gameState{
				config: cfg,
			},
		},
	}

	tg.FnBoot = tg.Boot
	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

// Bar is nil until the game is initialized.
func (g *TestGame) Bar() *components.ProgressBar {
	return g.state().bar
}

func (g *TestGame) Boot() error {
	core.LogInfo("booting testbed...")
	s := g.state()

	var err error
	if s.moveOptions, err = s.config.ProgressBar.MoveOptions(); err != nil {
		return err
	}
	if s.config.Feed.Path != "" {
		if s.feed, err = NewFeed(s.config.Feed.Path, s.config.ProgressBar.Duration.Duration); err != nil {
			return err
		}
		core.LogInfo("reading progress from %s", s.feed.Path())
	}
	return nil
}

func (g *TestGame) Initialize() error {
	s := g.state()
	opts, err := s.config.ProgressBar.Options()
	if err != nil {
		return err
	}
	bar, err := components.NewProgressBar(components.NewDependencies(g.SystemManager), opts...)
	if err != nil {
		return err
	}
	g.Scene.AddAnchor(bar.Entity)
	s.bar = bar
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	s := g.state()
	if s.bar == nil {
		return nil
	}

	if s.feed != nil {
		select {
		case u := <-s.feed.Updates():
			g.move(u.Progress, append(slices.Clone(s.moveOptions), components.WithDuration(u.Duration))...)
		default:
		}
		return nil
	}

	s.demoElapsed += deltaTime
	if s.demoElapsed < s.config.Feed.DemoInterval.Seconds() {
		return nil
	}
	s.demoElapsed = 0
	g.move(demoSequence[s.demoStep], s.moveOptions...)
	s.demoStep = (s.demoStep + 1) % len(demoSequence)
	return nil
}

// move logs rejected values instead of failing the frame, a bad feed line
// must not stop the engine.
func (g *TestGame) move(progress float32, opts ...components.MoveOption) {
	bar := g.state().bar
	if err := bar.MoveProgress(progress, opts...); err != nil {
		var rangeErr *components.ProgressRangeError
		if errors.As(err, &rangeErr) {
			core.LogWarn("ignoring progress %v: outside [0, 1]", rangeErr.Value)
			return
		}
		core.LogError("progress update failed: %s", err)
		return
	}
	core.LogDebug("progress %.3f -> %.3f", bar.Progress(), progress)
}

func (g *TestGame) Shutdown() error {
	s := g.state()
	var errs []error
	if s.feed != nil {
		errs = append(errs, s.feed.Close())
		s.feed = nil
	}
	if s.bar != nil {
		s.bar.Destroy()
		s.bar = nil
	}
	core.LogInfo("testbed stopped")
	return errors.Join(errs...)
}
