package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spaghettifunk/anima-progress/engine/core"
	"github.com/spaghettifunk/anima-progress/engine/scene"
	"github.com/spaghettifunk/anima-progress/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has released every system
	EngineStageStopped
)

const metricsLogInterval = 300

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	systemManager *systems.SystemManager
	scene         *scene.Scene
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      time.Duration
	frameCount    uint64

	quit     chan struct{}
	quitOnce sync.Once
}

func New(g *Game) (*Engine, error) {
	if g == nil || g.ApplicationConfig == nil {
		return nil, errors.New("engine: game and application config are required")
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	events := core.NewEventSystem()
	sm, err := systems.NewSystemManager(events)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	sc := scene.New(g.ApplicationConfig.Name, events)

	g.SystemManager = sm
	g.Scene = sc

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		systemManager: sm,
		scene:         sc,
		clock:         core.NewClock(),
		metrics:       core.NewMetrics(),
		quit:          make(chan struct{}),
	}, nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Scene() *scene.Scene {
	return e.scene
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

// Initialize boots and initializes the game. When either hook fails the game
// is shut down and every system released before the error is returned.
func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine already initialized (stage %d)", e.currentStage)
	}

	level, err := core.ParseLogLevel(e.gameInstance.ApplicationConfig.LogLevel)
	if err != nil {
		return err
	}
	core.SetLogLevel(level)

	e.currentStage = EngineStageBooting
	if e.gameInstance.FnBoot != nil {
		if err := e.gameInstance.FnBoot(); err != nil {
			core.LogError("game boot failed: %s", err)
			return errors.Join(err, e.teardown())
		}
	}
	e.currentStage = EngineStageBootComplete

	e.currentStage = EngineStageInitializing
	e.systemManager.EventSystem.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			core.LogError("game initialization failed: %s", err)
			return errors.Join(err, e.teardown())
		}
	}
	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized", e.gameInstance.ApplicationConfig.Name)
	return nil
}

// Run ticks the engine at the configured rate until Shutdown is called, an
// APPLICATION_QUIT event is fired, MaxFrames is reached or a frame fails.
// Every system is released before Run returns.
func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine cannot run from stage %d", e.currentStage)
	}
	e.currentStage = EngineStageRunning

	config := e.gameInstance.ApplicationConfig
	ticker := time.NewTicker(time.Second / time.Duration(config.TickRate))
	defer ticker.Stop()

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var runErr error
loop:
	for {
		select {
		case <-e.quit:
			break loop
		case <-ticker.C:
			e.clock.Update()
			currentTime := e.clock.Elapsed()
			delta := currentTime - e.lastTime
			e.lastTime = currentTime

			if err := e.Step(delta); err != nil {
				core.LogError("frame %d failed, shutting down: %s", e.frameCount, err)
				runErr = err
				break loop
			}
			if config.MaxFrames > 0 && e.frameCount >= config.MaxFrames {
				core.LogInfo("reached %d frames, shutting down", config.MaxFrames)
				break loop
			}
		}
	}
	e.clock.Stop()

	if err := e.teardown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Step advances the engine by one frame of deltaTime.
func (e *Engine) Step(deltaTime time.Duration) error {
	seconds := deltaTime.Seconds()
	if err := e.systemManager.Update(seconds); err != nil {
		return err
	}
	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(seconds); err != nil {
			return err
		}
	}

	e.frameCount++
	e.metrics.Update(deltaTime)
	if e.frameCount%metricsLogInterval == 0 {
		fps, frameTime := e.metrics.Frame()
		core.LogDebug("frame %d: %.1f fps, %.3f ms", e.frameCount, fps, frameTime)
	}
	return nil
}

func (e *Engine) FrameCount() uint64 {
	return e.frameCount
}

// Shutdown asks the loop to stop. It is safe to call from any goroutine and
// more than once.
func (e *Engine) Shutdown() error {
	e.quitOnce.Do(func() {
		close(e.quit)
	})
	return nil
}

func (e *Engine) teardown() error {
	e.currentStage = EngineStageShuttingDown
	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	errs = append(errs, e.systemManager.Shutdown())
	e.currentStage = EngineStageStopped
	return errors.Join(errs...)
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		_ = e.Shutdown()
		return true
	}
	return false
}
