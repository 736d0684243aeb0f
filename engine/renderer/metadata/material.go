package metadata

import (
	"fmt"

	"github.com/spaghettifunk/anima-progress/engine/math"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

type MaterialReference struct {
	ReferenceCount uint64
	Material       *Material
	AutoRelease    bool
}

/**
 * @brief Material configuration created in code to acquire a material from.
 */
type MaterialConfig struct {
	/** @brief The name of the material. */
	Name string
	/** @brief Indicates if the material should be automatically released when no references to it remain. */
	AutoRelease bool
	/** @brief The diffuse colour of the material. */
	DiffuseColour math.Vec4
	/** @brief Metallic surfaces reflect their environment. */
	Metallic bool
}

/**
 * @brief A simple surface material: a flat colour, optionally metallic.
 */
type Material struct {
	/** @brief The material id. */
	ID uint32
	/** @brief The material generation. Incremented every time the material is changed. */
	Generation uint32
	/** @brief The material name. */
	Name string
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec4
	Metallic      bool
}

// SimpleMaterialName is the cache key for a colour/metallic pair. Components
// are printed in their shortest exact form, distinct colours never share a key.
func SimpleMaterialName(colour math.Vec4, metallic bool) string {
	return fmt.Sprintf("simple_%g_%g_%g_%g_%t", colour.X, colour.Y, colour.Z, colour.W, metallic)
}
