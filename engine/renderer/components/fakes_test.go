package components

import (
	"time"

	"github.com/spaghettifunk/anima-progress/engine/core"
	"github.com/spaghettifunk/anima-progress/engine/math"
	"github.com/spaghettifunk/anima-progress/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-progress/engine/scene"
)

type boxRequest struct {
	name string

	width, height, depth, cornerRadius float32
}

type fakeMeshes struct {
	boxes     []boxRequest
	materials []*metadata.Material
	released  []*metadata.Geometry

	// n > 0 fails the n-th box request and every one after it
	failBoxesFrom int
	failMaterials bool
}

func (f *fakeMeshes) GenerateRoundedBox(name string, width, height, depth, cornerRadius float32) (*metadata.Geometry, error) {
	if f.failBoxesFrom > 0 && len(f.boxes)+1 >= f.failBoxesFrom {
		return nil, core.ErrInvalidGeometry
	}
	f.boxes = append(f.boxes, boxRequest{name, width, height, depth, cornerRadius})
	return &metadata.Geometry{Name: name, Width: width, Height: height, Depth: depth, CornerRadius: cornerRadius}, nil
}

func (f *fakeMeshes) AcquireSimpleMaterial(colour math.Vec4, metallic bool) (*metadata.Material, error) {
	if f.failMaterials {
		return nil, core.ErrMaterialNotFound
	}
	m := &metadata.Material{Name: metadata.SimpleMaterialName(colour, metallic), DiffuseColour: colour, Metallic: metallic}
	f.materials = append(f.materials, m)
	return m, nil
}

func (f *fakeMeshes) ReleaseGeometry(g *metadata.Geometry) {
	f.released = append(f.released, g)
}

type moveRequest struct {
	entity   *scene.Entity
	to       math.Transform
	duration time.Duration
	timing   math.TimingFunction
}

type fakeHandle struct {
	cancelled bool
}

func (h *fakeHandle) Cancel() {
	h.cancelled = true
}

// fakeAnimator records requests and never moves anything on its own.
type fakeAnimator struct {
	moves   []moveRequest
	stopped int
	playing map[*scene.Entity]bool
}

func (f *fakeAnimator) Move(e *scene.Entity, to math.Transform, duration time.Duration, timing math.TimingFunction) core.Cancellable {
	f.moves = append(f.moves, moveRequest{e, to, duration, timing})
	if f.playing == nil {
		f.playing = make(map[*scene.Entity]bool)
	}
	f.playing[e] = true
	return &fakeHandle{}
}

func (f *fakeAnimator) StopAllAnimations(e *scene.Entity) {
	f.stopped++
	delete(f.playing, e)
}

func (f *fakeAnimator) IsAnimating(e *scene.Entity) bool {
	return f.playing[e]
}

// finish lands e on the last requested transform, as a real animator would.
func (f *fakeAnimator) finish(e *scene.Entity) {
	for i := len(f.moves) - 1; i >= 0; i-- {
		if f.moves[i].entity == e {
			e.Transform = f.moves[i].to
			break
		}
	}
	delete(f.playing, e)
}

type fakeSubscription struct {
	code      core.SystemEventCode
	sender    interface{}
	fn        core.FnOnEvent
	cancelled bool
}

func (s *fakeSubscription) Cancel() {
	s.cancelled = true
}

type fakeEvents struct {
	subs []*fakeSubscription
}

func (f *fakeEvents) SubscribeOnce(code core.SystemEventCode, sender interface{}, fn core.FnOnEvent) core.Cancellable {
	s := &fakeSubscription{code: code, sender: sender, fn: fn}
	f.subs = append(f.subs, s)
	return s
}

// fire delivers an event to the live subscriptions matching code and sender,
// detaching each one before its callback as SubscribeOnce requires.
func (f *fakeEvents) fire(code core.SystemEventCode, sender interface{}) {
	for _, s := range f.subs {
		if s.cancelled || s.code != code || s.sender != sender {
			continue
		}
		s.cancelled = true
		s.fn(core.EventContext{Type: code, Sender: sender})
	}
}

func (f *fakeEvents) live() int {
	n := 0
	for _, s := range f.subs {
		if !s.cancelled {
			n++
		}
	}
	return n
}

type fakeDeps struct {
	meshes   *fakeMeshes
	animator *fakeAnimator
	events   *fakeEvents
}

func newFakeDeps() *fakeDeps {
	return &fakeDeps{
		meshes:   &fakeMeshes{},
		animator: &fakeAnimator{},
		events:   &fakeEvents{},
	}
}

func (f *fakeDeps) deps() Dependencies {
	return Dependencies{
		Meshes:   f.meshes,
		Animator: f.animator,
		Events:   f.events,
	}
}
