package systems

import (
	"github.com/spaghettifunk/anima-progress/engine/core"
	"github.com/spaghettifunk/anima-progress/engine/math"
	"github.com/spaghettifunk/anima-progress/engine/renderer/metadata"
)

type SystemManager struct {
	EventSystem     *core.EventSystem
	MaterialSystem  *MaterialSystem
	GeometrySystem  *GeometrySystem
	AnimationSystem *AnimationSystem
}

func NewSystemManager(events *core.EventSystem) (*SystemManager, error) {
	if events == nil {
		events = core.NewEventSystem()
	}
	ms, err := NewMaterialSystem(&MaterialSystemConfig{
		MaxMaterialCount: 1000,
	})
	if err != nil {
		return nil, err
	}
	gs, err := NewGeometrySystem(&GeometrySystemConfig{
		MaxGeometryCount: 1000,
	}, ms)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		EventSystem:     events,
		MaterialSystem:  ms,
		GeometrySystem:  gs,
		AnimationSystem: NewAnimationSystem(events),
	}, nil
}

// Update ticks every system that advances with time.
func (sm *SystemManager) Update(deltaTime float64) error {
	return sm.AnimationSystem.Update(deltaTime)
}

// GenerateRoundedBox forwards to the geometry system.
func (sm *SystemManager) GenerateRoundedBox(name string, width, height, depth, cornerRadius float32) (*metadata.Geometry, error) {
	return sm.GeometrySystem.GenerateRoundedBox(name, width, height, depth, cornerRadius)
}

// AcquireSimpleMaterial forwards to the material system.
func (sm *SystemManager) AcquireSimpleMaterial(colour math.Vec4, metallic bool) (*metadata.Material, error) {
	return sm.MaterialSystem.AcquireSimpleMaterial(colour, metallic)
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.AnimationSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.GeometrySystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.MaterialSystem.Shutdown(); err != nil {
		return err
	}
	return sm.EventSystem.Shutdown()
}

// ReleaseGeometry hands a geometry back to the geometry system.
func (sm *SystemManager) ReleaseGeometry(g *metadata.Geometry) {
	sm.GeometrySystem.Release(g)
}
