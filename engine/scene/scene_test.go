package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-progress/engine/core"
)

func TestEntityHierarchy(t *testing.T) {
	root := NewEntity("root")
	a := NewEntity("a")
	b := NewEntity("b")

	root.AddChild(a)
	root.AddChild(b)
	assert.Equal(t, []*Entity{a, b}, root.Children())
	assert.Same(t, root, a.Parent())

	// re-parenting detaches from the previous parent
	a.AddChild(b)
	assert.Equal(t, []*Entity{a}, root.Children())
	assert.Same(t, a, b.Parent())

	// self and nil are ignored
	a.AddChild(a)
	a.AddChild(nil)
	assert.Len(t, a.Children(), 1)

	b.RemoveFromParent()
	assert.Nil(t, b.Parent())
	assert.Empty(t, a.Children())
	assert.False(t, a.RemoveChild(b))
}

func TestEntityEnabledInHierarchy(t *testing.T) {
	root := NewEntity("root")
	child := NewEntity("child")
	root.AddChild(child)

	assert.True(t, child.IsEnabled())
	assert.True(t, child.IsEnabledInHierarchy())

	root.SetEnabled(false)
	assert.True(t, child.IsEnabled())
	assert.False(t, child.IsEnabledInHierarchy())

	root.SetEnabled(true)
	child.SetEnabled(false)
	assert.False(t, child.IsEnabledInHierarchy())
}

func TestEntityWalk(t *testing.T) {
	root := NewEntity("root")
	a := NewEntity("a")
	b := NewEntity("b")
	c := NewEntity("c")
	root.AddChild(a)
	root.AddChild(c)
	a.AddChild(b)

	var names []string
	root.Walk(func(e *Entity) bool {
		names = append(names, e.Name)
		return true
	})
	assert.Equal(t, []string{"root", "a", "b", "c"}, names)

	names = nil
	root.Walk(func(e *Entity) bool {
		names = append(names, e.Name)
		return e != a
	})
	assert.Equal(t, []string{"root", "a", "c"}, names)
}

func TestSceneTracksAnchoredEntities(t *testing.T) {
	s := New("test", nil)
	require.NotNil(t, s.Events())
	assert.Equal(t, 1, s.EntityCount())

	bar := NewEntity("bar")
	fill := NewEntity("fill")
	bar.AddChild(fill)
	s.AddAnchor(bar)

	assert.Equal(t, 3, s.EntityCount())
	assert.Same(t, s, fill.Scene())
	found, ok := s.FindEntity(fill.ID)
	require.True(t, ok)
	assert.Same(t, fill, found)

	// children added after anchoring are tracked too
	late := NewEntity("late")
	bar.AddChild(late)
	assert.Equal(t, 4, s.EntityCount())

	bar.RemoveFromParent()
	assert.Equal(t, 1, s.EntityCount())
	assert.Nil(t, fill.Scene())
	_, ok = s.FindEntity(fill.ID)
	assert.False(t, ok)
}

func TestSceneSubscribeOnce(t *testing.T) {
	s := New("test", core.NewEventSystem())
	e := NewEntity("e")
	s.AddAnchor(e)

	calls := 0
	sub := s.SubscribeOnce(core.EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED, e, func(core.EventContext) bool {
		calls++
		return false
	})
	s.Events().Fire(core.EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED, s.Root(), nil)
	s.Events().Fire(core.EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED, e, nil)
	s.Events().Fire(core.EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED, e, nil)
	assert.Equal(t, 1, calls)

	sub.Cancel()

	other := s.Subscribe(core.EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED, nil, func(core.EventContext) bool {
		calls++
		return false
	})
	s.Events().Fire(core.EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED, e, nil)
	other.Cancel()
	s.Events().Fire(core.EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED, e, nil)
	assert.Equal(t, 2, calls)
}
