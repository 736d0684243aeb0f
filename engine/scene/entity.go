package scene

import (
	"slices"

	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-progress/engine/math"
	"github.com/spaghettifunk/anima-progress/engine/renderer/metadata"
)

// Entity is a node of the scene graph. Its Transform is local to its parent.
type Entity struct {
	ID        uuid.UUID
	Name      string
	Transform math.Transform
	// Model is nil for pure grouping entities.
	Model *metadata.Mesh

	enabled  bool
	parent   *Entity
	children []*Entity
	scene    *Scene
}

func NewEntity(name string) *Entity {
	return &Entity{
		ID:        uuid.New(),
		Name:      name,
		Transform: math.TransformCreate(),
		enabled:   true,
	}
}

// NewModelEntity creates an entity that renders the given mesh.
func NewModelEntity(name string, model *metadata.Mesh) *Entity {
	e := NewEntity(name)
	e.Model = model
	return e
}

func (e *Entity) Parent() *Entity {
	return e.parent
}

// Children returns a copy of the child list, in insertion order.
func (e *Entity) Children() []*Entity {
	return slices.Clone(e.children)
}

// Scene returns the scene the entity is anchored in, or nil.
func (e *Entity) Scene() *Scene {
	return e.scene
}

// AddChild re-parents child under e, detaching it from any previous parent.
func (e *Entity) AddChild(child *Entity) {
	if child == nil || child == e {
		return
	}
	child.RemoveFromParent()
	child.parent = e
	e.children = append(e.children, child)
	if e.scene != nil {
		e.scene.attach(child)
	}
}

func (e *Entity) RemoveChild(child *Entity) bool {
	i := slices.Index(e.children, child)
	if i < 0 {
		return false
	}
	e.children = slices.Delete(e.children, i, i+1)
	child.parent = nil
	if child.scene != nil {
		child.scene.detach(child)
	}
	return true
}

func (e *Entity) RemoveFromParent() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

func (e *Entity) SetEnabled(enabled bool) {
	e.enabled = enabled
}

// IsEnabled reports the entity's own flag, ignoring its ancestors.
func (e *Entity) IsEnabled() bool {
	return e.enabled
}

// IsEnabledInHierarchy is false as soon as the entity or any ancestor is disabled.
func (e *Entity) IsEnabledInHierarchy() bool {
	for n := e; n != nil; n = n.parent {
		if !n.enabled {
			return false
		}
	}
	return true
}

// Walk visits e and its descendants depth first. Returning false from fn
// skips the children of the visited entity.
func (e *Entity) Walk(fn func(*Entity) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.children {
		c.Walk(fn)
	}
}
