package metadata

import (
	"github.com/spaghettifunk/anima-progress/engine/math"
)

/** @brief The name of the default geometry. */
const DefaultGeometryName string = "default"

/**
 * @brief Describes a rounded box: an axis aligned box whose edges are
 * rounded with CornerRadius. With CornerRadius equal to half the smallest
 * dimension the box becomes a capsule.
 */
type GeometryConfig struct {
	/** @brief The Name of the geometry. */
	Name string
	/** @brief Size along X. */
	Width float32
	/** @brief Size along Y. */
	Height float32
	/** @brief Size along Z. */
	Depth float32
	/** @brief Edge rounding radius. Never more than half the smallest dimension. */
	CornerRadius float32

	Center     math.Vec3
	MinExtents math.Vec3
	MaxExtents math.Vec3

	/** @brief The name of the material used by the geometry. */
	MaterialName string
}

type GeometryReference struct {
	ReferenceCount uint64
	Geometry       *Geometry
	AutoRelease    bool
}

/**
 * @brief Represents actual geometry in the world.
 * Typically (but not always, depending on use) paired with a material.
 */
type Geometry struct {
	/** @brief The geometry identifier. */
	ID uint32
	/** @brief The geometry generation. Incremented every time the geometry changes. */
	Generation uint16
	/** @brief The geometry name. */
	Name string
	/** @brief The dimensions the geometry was generated from. */
	Width, Height, Depth, CornerRadius float32
	/** @brief The center of the geometry in local coordinates. */
	Center math.Vec3
	/** @brief The extents of the geometry in local coordinates. */
	Extents math.Extents3D
	/** @brief The material associated with this geometry. */
	Material *Material
}

// Size returns the full extents along each axis.
func (g *Geometry) Size() math.Vec3 {
	return g.Extents.Max.Sub(g.Extents.Min)
}
