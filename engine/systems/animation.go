package systems

import (
	"slices"
	"time"

	"github.com/spaghettifunk/anima-progress/engine/containers"
	"github.com/spaghettifunk/anima-progress/engine/core"
	"github.com/spaghettifunk/anima-progress/engine/math"
	"github.com/spaghettifunk/anima-progress/engine/scene"
)

type AnimationState uint8

const (
	AnimationStatePlaying AnimationState = iota
	AnimationStateCompleted
	AnimationStateTerminated
)

func (s AnimationState) String() string {
	switch s {
	case AnimationStatePlaying:
		return "playing"
	case AnimationStateCompleted:
		return "completed"
	case AnimationStateTerminated:
		return "terminated"
	}
	return "unknown"
}

// AnimationHandle tracks one timed transform animation.
type AnimationHandle struct {
	ID       uint64
	entity   *scene.Entity
	from     math.Transform
	to       math.Transform
	duration float64
	elapsed  float64
	timing   math.TimingFunction
	state    AnimationState
	system   *AnimationSystem
}

func (h *AnimationHandle) Entity() *scene.Entity {
	return h.entity
}

func (h *AnimationHandle) Target() math.Transform {
	return h.to
}

func (h *AnimationHandle) State() AnimationState {
	return h.state
}

func (h *AnimationHandle) IsPlaying() bool {
	return h.state == AnimationStatePlaying
}

// Cancel stops the animation where it is. The entity keeps its current,
// partially interpolated transform.
func (h *AnimationHandle) Cancel() {
	h.system.stop(h)
}

// AnimationSystem interpolates entity transforms over time. It is driven by
// Update on the engine loop and publishes playback events on the event system
// with the animated entity as sender.
type AnimationSystem struct {
	events *core.EventSystem
	active []*AnimationHandle
	nextID uint64
}

func NewAnimationSystem(events *core.EventSystem) *AnimationSystem {
	return &AnimationSystem{
		events: events,
	}
}

func (as *AnimationSystem) Shutdown() error {
	for _, h := range as.active {
		h.state = AnimationStateTerminated
	}
	as.active = nil
	return nil
}

// Play starts animating e from its current transform to `to`. A zero or
// negative duration lands on `to` at the next Update.
func (as *AnimationSystem) Play(e *scene.Entity, to math.Transform, duration time.Duration, timing math.TimingFunction) *AnimationHandle {
	as.nextID++
	h := &AnimationHandle{
		ID:       as.nextID,
		entity:   e,
		from:     e.Transform,
		to:       to,
		duration: max(duration.Seconds(), 0),
		timing:   timing,
		state:    AnimationStatePlaying,
		system:   as,
	}
	as.active = append(as.active, h)
	core.LogDebug("animation %d started on %s (%s, %s)", h.ID, e.Name, duration, timing.Name)
	as.fire(core.EVENT_CODE_ANIMATION_PLAYBACK_STARTED, h)
	return h
}

// Move is Play returning only the cancel handle.
func (as *AnimationSystem) Move(e *scene.Entity, to math.Transform, duration time.Duration, timing math.TimingFunction) core.Cancellable {
	return as.Play(e, to, duration, timing)
}

// StopAllAnimations terminates every animation playing on e.
func (as *AnimationSystem) StopAllAnimations(e *scene.Entity) {
	for _, h := range slices.Clone(as.active) {
		if h.entity == e {
			as.stop(h)
		}
	}
}

func (as *AnimationSystem) IsAnimating(e *scene.Entity) bool {
	return slices.ContainsFunc(as.active, func(h *AnimationHandle) bool { return h.entity == e })
}

func (as *AnimationSystem) ActiveCount() int {
	return len(as.active)
}

/**
 * @brief Advances every playing animation by deltaTime seconds. Completion
 * events are fired once all transforms of this tick have been written, so
 * listeners may start new animations safely.
 */
func (as *AnimationSystem) Update(deltaTime float64) error {
	if len(as.active) == 0 {
		return nil
	}

	completed := containers.NewRingQueue[*AnimationHandle](len(as.active))
	playing := make([]*AnimationHandle, 0, len(as.active))
	for _, h := range as.active {
		h.elapsed += deltaTime
		if h.duration <= 0 || h.elapsed >= h.duration {
			h.entity.Transform = h.to
			h.state = AnimationStateCompleted
			if err := completed.Enqueue(h); err != nil {
				return err
			}
			continue
		}
		fraction := h.timing.Evaluate(float32(h.elapsed / h.duration))
		h.entity.Transform = h.from.Interpolate(h.to, fraction)
		playing = append(playing, h)
	}
	as.active = playing

	for !completed.IsEmpty() {
		h, err := completed.Dequeue()
		if err != nil {
			return err
		}
		core.LogDebug("animation %d completed on %s", h.ID, h.entity.Name)
		as.fire(core.EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED, h)
	}
	return nil
}

func (as *AnimationSystem) stop(h *AnimationHandle) {
	if h.state != AnimationStatePlaying {
		return
	}
	i := slices.Index(as.active, h)
	if i >= 0 {
		as.active = slices.Delete(as.active, i, i+1)
	}
	h.state = AnimationStateTerminated
	core.LogDebug("animation %d terminated on %s", h.ID, h.entity.Name)
	as.fire(core.EVENT_CODE_ANIMATION_PLAYBACK_TERMINATED, h)
}

func (as *AnimationSystem) fire(code core.SystemEventCode, h *AnimationHandle) {
	if as.events != nil {
		as.events.Fire(code, h.entity, h)
	}
}
