package components

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"

	"github.com/spaghettifunk/anima-progress/engine/core"
	"github.com/spaghettifunk/anima-progress/engine/math"
	"github.com/spaghettifunk/anima-progress/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-progress/engine/scene"
	"github.com/spaghettifunk/anima-progress/engine/systems"
)

const (
	// Nominal size of the fill capsule, the shell grows from it by the margin.
	progressBarWidth        float32 = 10
	progressBarHeight       float32 = 1
	progressBarDepth        float32 = 1
	progressBarCornerRadius float32 = 0.5
	progressBarHalfLength   float32 = progressBarWidth / 2
)

// MeshFactory builds the geometry and materials of the bar.
type MeshFactory interface {
	GenerateRoundedBox(name string, width, height, depth, cornerRadius float32) (*metadata.Geometry, error)
	AcquireSimpleMaterial(colour math.Vec4, metallic bool) (*metadata.Material, error)
}

// GeometryReleaser is optionally implemented by a MeshFactory that wants its
// geometries back when a bar is destroyed.
type GeometryReleaser interface {
	ReleaseGeometry(g *metadata.Geometry)
}

// Animator plays timed transform animations on entities.
type Animator interface {
	Move(e *scene.Entity, to math.Transform, duration time.Duration, timing math.TimingFunction) core.Cancellable
	StopAllAnimations(e *scene.Entity)
	IsAnimating(e *scene.Entity) bool
}

// EventSubscriber delivers events sent by a given sender.
type EventSubscriber interface {
	SubscribeOnce(code core.SystemEventCode, sender interface{}, fn core.FnOnEvent) core.Cancellable
}

// Dependencies are the engine services a ProgressBar calls into.
type Dependencies struct {
	Meshes   MeshFactory
	Animator Animator
	Events   EventSubscriber
}

// NewDependencies wires a bar to the engine systems. Completion events are
// read from the bus the animation system publishes on.
func NewDependencies(sm *systems.SystemManager) Dependencies {
	return Dependencies{
		Meshes:   sm,
		Animator: sm.AnimationSystem,
		Events:   eventBus{sm.EventSystem},
	}
}

type eventBus struct {
	events *core.EventSystem
}

func (b eventBus) SubscribeOnce(code core.SystemEventCode, sender interface{}, fn core.FnOnEvent) core.Cancellable {
	return b.events.SubscribeOnce(code, sender, fn)
}

func (d Dependencies) validate() error {
	if d.Meshes == nil || d.Animator == nil || d.Events == nil {
		return errors.New("progress bar: mesh factory, animator and event subscriber are all required")
	}
	return nil
}

// capsule generates a rounded box and gives it a flat colour material. The box
// is handed back when the material cannot be acquired.
func (d Dependencies) capsule(name string, width, height, depth, cornerRadius float32, colour math.Vec4) (*metadata.Geometry, error) {
	g, err := d.Meshes.GenerateRoundedBox(name, width, height, depth, cornerRadius)
	if err != nil {
		return nil, err
	}
	if g.Material, err = d.Meshes.AcquireSimpleMaterial(colour, false); err != nil {
		d.release(g)
		return nil, err
	}
	return g, nil
}

// release hands geometries, and the materials attached to them, back to a
// factory implementing GeometryReleaser. Other factories keep no state to free.
func (d Dependencies) release(geometries ...*metadata.Geometry) {
	r, ok := d.Meshes.(GeometryReleaser)
	if !ok {
		return
	}
	for _, g := range geometries {
		r.ReleaseGeometry(g)
	}
}

// ProgressRangeError reports a progress value outside [0, 1]. The bar never
// clamps, the value is rejected and the bar left untouched.
type ProgressRangeError struct {
	Value float32
}

func (e *ProgressRangeError) Error() string {
	return fmt.Sprintf("progress %v: %s", e.Value, core.ErrProgressOutOfRange)
}

func (e *ProgressRangeError) Unwrap() error {
	return core.ErrProgressOutOfRange
}

func validateProgress(progress float32) error {
	if !math.InRange(progress, 0, 1) {
		return &ProgressRangeError{Value: progress}
	}
	return nil
}

// FillOffset is the X translation of the fill for a given progress. At full
// progress the fill is centred in the shell; as progress drops it slides
// towards -X while it shrinks.
func FillOffset(progress, innerMargin float32) float32 {
	return (progressBarHalfLength - innerMargin) * (progress - 1)
}

/**
 * @brief A capsule shaped progress bar. The root entity holds two children:
 * an inside-out shell acting as the track and a fill capsule whose X scale is
 * the progress value.
 */
type ProgressBar struct {
	*scene.Entity

	fill        *scene.Entity
	shell       *scene.Entity
	innerMargin float32
	deps        Dependencies

	// hides the fill once a shrink-to-empty animation completes
	emptied core.Cancellable
}

// NewProgressBar builds the bar and sets it to its start value without animating.
func NewProgressBar(deps Dependencies, opts ...ProgressBarOption) (*ProgressBar, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	o := defaultProgressBarOptions()
	for _, opt := range opts {
		opt(o)
	}
	if !(o.innerMargin >= 0) || math32.IsInf(o.innerMargin, 1) {
		return nil, fmt.Errorf("progress bar %q: margin %v: %w", o.name, o.innerMargin, core.ErrInvalidMargin)
	}
	if err := validateProgress(o.startAt); err != nil {
		return nil, err
	}

	m := o.innerMargin
	innerGeometry, err := deps.capsule(o.name+"_fill",
		progressBarWidth, progressBarHeight, progressBarDepth, progressBarCornerRadius, o.innerColour)
	if err != nil {
		return nil, err
	}
	outerGeometry, err := deps.capsule(o.name+"_shell",
		progressBarWidth+m*2, progressBarHeight+m*2, progressBarDepth+m*2, progressBarCornerRadius+m, o.outerColour)
	if err != nil {
		deps.release(innerGeometry)
		return nil, err
	}

	shell := scene.NewModelEntity(o.name+"_shell", metadata.NewMesh(outerGeometry))
	// Flipped on every axis so the shell's inner surface faces the viewer.
	shell.Transform.SetScale(math.NewVec3Repeating(-1))
	fill := scene.NewModelEntity(o.name+"_fill", metadata.NewMesh(innerGeometry))

	pb := &ProgressBar{
		Entity:      scene.NewEntity(o.name),
		fill:        fill,
		shell:       shell,
		innerMargin: m,
		deps:        deps,
	}
	pb.AddChild(shell)
	pb.AddChild(fill)
	pb.applyProgress(o.startAt)

	core.LogDebug("progress bar %q created (margin=%.3f, start=%.3f)", o.name, m, o.startAt)
	return pb, nil
}

// Progress is the fill's current X scale, including mid-animation values.
func (pb *ProgressBar) Progress() float32 {
	return pb.fill.Transform.Scale.X
}

// InnerMargin is the gap between the fill and the shell, fixed at construction.
func (pb *ProgressBar) InnerMargin() float32 {
	return pb.innerMargin
}

// Fill is the capsule entity scaled along X by the progress.
func (pb *ProgressBar) Fill() *scene.Entity {
	return pb.fill
}

// Shell is the inside-out capsule drawn as the track.
func (pb *ProgressBar) Shell() *scene.Entity {
	return pb.shell
}

// IsAnimating reports whether a MoveProgress animation is still playing.
func (pb *ProgressBar) IsAnimating() bool {
	return pb.deps.Animator.IsAnimating(pb.fill)
}

// SetProgress jumps to progress, cancelling any running animation.
func (pb *ProgressBar) SetProgress(progress float32) error {
	if err := validateProgress(progress); err != nil {
		return err
	}
	pb.stopAnimations()
	pb.applyProgress(progress)
	return nil
}

// MoveProgress animates the fill to progress. A new call supersedes the
// previous animation from wherever it got to.
func (pb *ProgressBar) MoveProgress(progress float32, opts ...MoveOption) error {
	if err := validateProgress(progress); err != nil {
		return err
	}
	o := defaultMoveOptions()
	for _, opt := range opts {
		opt(o)
	}

	pb.fill.SetEnabled(true)
	if o.duration <= 0 {
		return pb.SetProgress(progress)
	}

	pb.stopAnimations()
	end := pb.fill.Transform
	end.Scale.X = progress
	end.Position.X = FillOffset(progress, pb.innerMargin)
	pb.deps.Animator.Move(pb.fill, end, o.duration, o.timing)

	// A zero width capsule renders badly, hide it once the shrink is visible.
	if progress == 0 {
		pb.emptied = pb.deps.Events.SubscribeOnce(core.EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED, pb.fill,
			func(core.EventContext) bool {
				pb.emptied = nil
				pb.fill.SetEnabled(false)
				return false
			})
	}
	return nil
}

// Destroy stops the bar, detaches it from its parent and hands the
// geometries back when the factory supports it.
func (pb *ProgressBar) Destroy() {
	pb.stopAnimations()
	pb.RemoveFromParent()
	if _, ok := pb.deps.Meshes.(GeometryReleaser); !ok {
		return
	}
	for _, e := range []*scene.Entity{pb.fill, pb.shell} {
		if e.Model == nil {
			continue
		}
		pb.deps.release(e.Model.Geometries...)
		e.Model = nil
	}
}

func (pb *ProgressBar) applyProgress(progress float32) {
	pb.fill.SetEnabled(progress > 0)
	pb.fill.Transform.Scale.X = progress
	pb.fill.Transform.Position.X = FillOffset(progress, pb.innerMargin)
}

func (pb *ProgressBar) stopAnimations() {
	pb.deps.Animator.StopAllAnimations(pb.fill)
	if pb.emptied != nil {
		pb.emptied.Cancel()
		pb.emptied = nil
	}
}
