package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-progress/engine/core"
	"github.com/spaghettifunk/anima-progress/engine/math"
	"github.com/spaghettifunk/anima-progress/engine/renderer/metadata"
)

type MaterialSystemConfig struct {
	MaxMaterialCount uint32
}

// MaterialSystem hands out reference counted materials, keyed by name.
type MaterialSystem struct {
	config             *MaterialSystemConfig
	defaultMaterial    *metadata.Material
	registeredMaterial map[string]*metadata.MaterialReference
	nextID             uint32
}

func NewMaterialSystem(config *MaterialSystemConfig) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		err := fmt.Errorf("func NewMaterialSystem - config.MaxMaterialCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	ms := &MaterialSystem{
		config:             config,
		registeredMaterial: make(map[string]*metadata.MaterialReference),
	}
	m, err := ms.AcquireFromConfig(&metadata.MaterialConfig{
		Name:          metadata.DefaultMaterialName,
		DiffuseColour: math.NewVec4(1, 1, 1, 1),
		AutoRelease:   false,
	})
	if err != nil {
		return nil, err
	}
	ms.defaultMaterial = m
	return ms, nil
}

func (ms *MaterialSystem) Shutdown() error {
	clear(ms.registeredMaterial)
	ms.defaultMaterial = nil
	return nil
}

// Acquire returns an already registered material and takes a reference on it.
func (ms *MaterialSystem) Acquire(name string) (*metadata.Material, error) {
	ref, ok := ms.registeredMaterial[name]
	if !ok {
		return nil, fmt.Errorf("material %q: %w", name, core.ErrMaterialNotFound)
	}
	ref.ReferenceCount++
	return ref.Material, nil
}

// AcquireFromConfig registers the material if needed and takes a reference on it.
func (ms *MaterialSystem) AcquireFromConfig(config *metadata.MaterialConfig) (*metadata.Material, error) {
	if m, err := ms.Acquire(config.Name); err == nil {
		return m, nil
	}
	if uint32(len(ms.registeredMaterial)) >= ms.config.MaxMaterialCount {
		err := fmt.Errorf("material system is full (%d), cannot load %q", ms.config.MaxMaterialCount, config.Name)
		core.LogError(err.Error())
		return nil, err
	}
	m := &metadata.Material{
		ID:            ms.nextID,
		Name:          config.Name,
		DiffuseColour: config.DiffuseColour,
		Metallic:      config.Metallic,
	}
	ms.nextID++
	ms.registeredMaterial[config.Name] = &metadata.MaterialReference{
		ReferenceCount: 1,
		Material:       m,
		AutoRelease:    config.AutoRelease,
	}
	core.LogDebug("material %q created", config.Name)
	return m, nil
}

// AcquireSimpleMaterial returns a flat colour material, shared between every
// caller asking for the same colour and metallic flag.
func (ms *MaterialSystem) AcquireSimpleMaterial(colour math.Vec4, metallic bool) (*metadata.Material, error) {
	return ms.AcquireFromConfig(&metadata.MaterialConfig{
		Name:          metadata.SimpleMaterialName(colour, metallic),
		DiffuseColour: colour,
		Metallic:      metallic,
		AutoRelease:   true,
	})
}

func (ms *MaterialSystem) Release(name string) {
	ref, ok := ms.registeredMaterial[name]
	if !ok {
		core.LogWarn("material_system_release called for unknown material %q. Nothing was done.", name)
		return
	}
	if ref.ReferenceCount > 0 {
		ref.ReferenceCount--
	}
	if ref.ReferenceCount < 1 && ref.AutoRelease {
		ref.Material.Generation++
		delete(ms.registeredMaterial, name)
	}
}

func (ms *MaterialSystem) ReferenceCount(name string) uint64 {
	if ref, ok := ms.registeredMaterial[name]; ok {
		return ref.ReferenceCount
	}
	return 0
}

func (ms *MaterialSystem) GetDefault() *metadata.Material {
	return ms.defaultMaterial
}
