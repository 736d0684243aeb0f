package engine

import (
	"github.com/spaghettifunk/anima-progress/engine/scene"
	"github.com/spaghettifunk/anima-progress/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	// Both are set by engine.New before FnBoot is called.
	SystemManager *systems.SystemManager
	Scene         *scene.Scene
	State         interface{}
	FnBoot        Boot
	FnInitialize  Initialize
	FnUpdate      Update
	FnShutdown    Shutdown
}

type Boot func() error
type Initialize func() error
type Update func(deltaTime float64) error
type Shutdown func() error
