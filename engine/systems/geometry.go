package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-progress/engine/core"
	"github.com/spaghettifunk/anima-progress/engine/math"
	"github.com/spaghettifunk/anima-progress/engine/renderer/metadata"
)

type GeometrySystemConfig struct {
	// Max number of geometries that can be loaded at once.
	MaxGeometryCount uint32
}

// GeometrySystem registers rounded-box geometry descriptors and reference
// counts them. Tessellation is left to whichever renderer consumes them.
type GeometrySystem struct {
	config          *GeometrySystemConfig
	materialSystem  *MaterialSystem
	defaultGeometry *metadata.Geometry
	// Array of registered geometries, indexed by geometry id.
	registeredGeometries []*metadata.GeometryReference
}

func NewGeometrySystem(config *GeometrySystemConfig, ms *MaterialSystem) (*GeometrySystem, error) {
	if config.MaxGeometryCount == 0 {
		err := fmt.Errorf("func NewGeometrySystem - config.MaxGeometryCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}

	gs := &GeometrySystem{
		config:               config,
		materialSystem:       ms,
		registeredGeometries: make([]*metadata.GeometryReference, config.MaxGeometryCount),
	}

	cfg, err := GenerateRoundedBoxConfig(1, 1, 1, 0, metadata.DefaultGeometryName, metadata.DefaultMaterialName)
	if err != nil {
		return nil, err
	}
	g, err := gs.AcquireFromConfig(cfg, false)
	if err != nil {
		err = fmt.Errorf("failed to create default geometry. Application cannot continue: %w", err)
		core.LogError(err.Error())
		return nil, err
	}
	gs.defaultGeometry = g

	return gs, nil
}

func (gs *GeometrySystem) Shutdown() error {
	for i, ref := range gs.registeredGeometries {
		if ref != nil {
			gs.destroyGeometry(ref.Geometry)
			gs.registeredGeometries[i] = nil
		}
	}
	gs.defaultGeometry = nil
	return nil
}

/**
 * @brief Acquires an existing geometry by id.
 */
func (gs *GeometrySystem) AcquireByID(id uint32) (*metadata.Geometry, error) {
	if id < uint32(len(gs.registeredGeometries)) && gs.registeredGeometries[id] != nil {
		ref := gs.registeredGeometries[id]
		ref.ReferenceCount++
		return ref.Geometry, nil
	}
	err := fmt.Errorf("geometry id %d: %w", id, core.ErrGeometryNotFound)
	core.LogError(err.Error())
	return nil, err
}

/**
 * @brief Registers and acquires a new geometry using the given config.
 *
 * @param config The geometry configuration.
 * @param autoRelease Indicates if the acquired geometry should be unloaded when its reference count reaches 0.
 */
func (gs *GeometrySystem) AcquireFromConfig(config *metadata.GeometryConfig, autoRelease bool) (*metadata.Geometry, error) {
	slot := -1
	for i, ref := range gs.registeredGeometries {
		if ref == nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		err := fmt.Errorf("unable to obtain free slot for geometry. Adjust configuration to allow more space")
		core.LogError(err.Error())
		return nil, err
	}

	geometry := &metadata.Geometry{
		ID:           uint32(slot),
		Name:         config.Name,
		Width:        config.Width,
		Height:       config.Height,
		Depth:        config.Depth,
		CornerRadius: config.CornerRadius,
		Center:       config.Center,
		Extents: math.Extents3D{
			Min: config.MinExtents,
			Max: config.MaxExtents,
		},
	}

	if gs.materialSystem != nil && len(config.MaterialName) > 0 {
		m, err := gs.materialSystem.Acquire(config.MaterialName)
		if err != nil {
			core.LogWarn("geometry %s: material %s not found, using default", config.Name, config.MaterialName)
			m = gs.materialSystem.GetDefault()
		}
		geometry.Material = m
	}

	gs.registeredGeometries[slot] = &metadata.GeometryReference{
		ReferenceCount: 1,
		Geometry:       geometry,
		AutoRelease:    autoRelease,
	}
	return geometry, nil
}

/**
 * @brief Releases a reference to the provided geometry.
 */
func (gs *GeometrySystem) Release(geometry *metadata.Geometry) {
	if geometry == nil || geometry.ID >= uint32(len(gs.registeredGeometries)) {
		core.LogWarn("geometry_system_release cannot release invalid geometry id. Nothing was done.")
		return
	}
	ref := gs.registeredGeometries[geometry.ID]
	if ref == nil || ref.Geometry != geometry {
		core.LogError("Geometry id mismatch. Check registration logic, as this should never occur.")
		return
	}
	if ref.ReferenceCount > 0 {
		ref.ReferenceCount--
	}
	if ref.ReferenceCount < 1 && ref.AutoRelease {
		gs.destroyGeometry(ref.Geometry)
		gs.registeredGeometries[geometry.ID] = nil
	}
}

// ReferenceCount returns the live references held on a geometry id.
func (gs *GeometrySystem) ReferenceCount(id uint32) uint64 {
	if id >= uint32(len(gs.registeredGeometries)) || gs.registeredGeometries[id] == nil {
		return 0
	}
	return gs.registeredGeometries[id].ReferenceCount
}

func (gs *GeometrySystem) GetDefault() *metadata.Geometry {
	return gs.defaultGeometry
}

// GenerateRoundedBox registers an auto-released rounded box with no material.
func (gs *GeometrySystem) GenerateRoundedBox(name string, width, height, depth, cornerRadius float32) (*metadata.Geometry, error) {
	cfg, err := GenerateRoundedBoxConfig(width, height, depth, cornerRadius, name, "")
	if err != nil {
		return nil, err
	}
	return gs.AcquireFromConfig(cfg, true)
}

func (gs *GeometrySystem) destroyGeometry(g *metadata.Geometry) {
	if g.Material != nil && gs.materialSystem != nil {
		gs.materialSystem.Release(g.Material.Name)
	}
	g.Material = nil
	g.Generation++
}

/**
 * @brief Generates configuration for a rounded box centered on the origin.
 * Zero or negative dimensions are rejected. The corner radius is clamped to
 * [0, half the smallest dimension]; at the upper bound the short axes are
 * fully round and the box is a capsule.
 */
func GenerateRoundedBoxConfig(width, height, depth, cornerRadius float32, name, materialName string) (*metadata.GeometryConfig, error) {
	if !(width > 0) || !(height > 0) || !(depth > 0) {
		err := fmt.Errorf("rounded box %q: dimensions must be positive, got %.3fx%.3fx%.3f: %w", name, width, height, depth, core.ErrInvalidGeometry)
		core.LogWarn(err.Error())
		return nil, err
	}

	maxRadius := min(width, height, depth) * 0.5
	radius := math.Clamp(cornerRadius, 0, maxRadius)
	if radius != cornerRadius {
		core.LogDebug("rounded box %q: corner radius %.3f clamped to %.3f", name, cornerRadius, radius)
	}

	halfWidth := width * 0.5
	halfHeight := height * 0.5
	halfDepth := depth * 0.5

	config := &metadata.GeometryConfig{
		Width:        width,
		Height:       height,
		Depth:        depth,
		CornerRadius: radius,
		// Always 0 since min/max of each axis are -/+ half of the size.
		Center:     math.NewVec3Zero(),
		MinExtents: math.NewVec3(-halfWidth, -halfHeight, -halfDepth),
		MaxExtents: math.NewVec3(halfWidth, halfHeight, halfDepth),
	}

	if len(name) > 0 {
		config.Name = name
	} else {
		config.Name = metadata.DefaultGeometryName
	}
	config.MaterialName = materialName

	return config, nil
}
