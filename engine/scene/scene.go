package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-progress/engine/core"
)

// Scene owns the root of an entity tree, the event bus entities publish on
// and an index of every anchored entity by id.
type Scene struct {
	Name string

	root   *Entity
	events *core.EventSystem
	ids    *core.IdentifierRegistry
}

func New(name string, events *core.EventSystem) *Scene {
	if events == nil {
		events = core.NewEventSystem()
	}
	s := &Scene{
		Name:   name,
		events: events,
		ids:    core.NewIdentifierRegistry(),
	}
	s.root = NewEntity(name + "_root")
	s.attach(s.root)
	return s
}

func (s *Scene) Root() *Entity {
	return s.root
}

func (s *Scene) Events() *core.EventSystem {
	return s.events
}

// AddAnchor adds e as a top level entity.
func (s *Scene) AddAnchor(e *Entity) {
	s.root.AddChild(e)
}

// FindEntity looks up an anchored entity by id.
func (s *Scene) FindEntity(id uuid.UUID) (*Entity, bool) {
	owner, ok := s.ids.Owner(id)
	if !ok {
		return nil, false
	}
	e, ok := owner.(*Entity)
	return e, ok
}

func (s *Scene) EntityCount() int {
	return s.ids.Len()
}

// Subscribe listens for events of the given code sent by on. A nil on
// listens to every sender.
func (s *Scene) Subscribe(code core.SystemEventCode, on interface{}, fn core.FnOnEvent) core.Cancellable {
	return s.events.Subscribe(code, on, fn)
}

// SubscribeOnce is Subscribe that detaches after the first delivered event.
func (s *Scene) SubscribeOnce(code core.SystemEventCode, on interface{}, fn core.FnOnEvent) core.Cancellable {
	return s.events.SubscribeOnce(code, on, fn)
}

func (s *Scene) attach(e *Entity) {
	e.Walk(func(n *Entity) bool {
		if err := s.ids.Track(n.ID, n); err != nil {
			core.LogWarn("scene %s: %s", s.Name, err)
		}
		n.scene = s
		return true
	})
}

func (s *Scene) detach(e *Entity) {
	e.Walk(func(n *Entity) bool {
		if err := s.ids.ReleaseID(n.ID); err != nil {
			core.LogWarn("scene %s: %s", s.Name, err)
		}
		n.scene = nil
		return true
	})
}
