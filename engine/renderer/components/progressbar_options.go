package components

import (
	"time"

	"github.com/spaghettifunk/anima-progress/engine/math"
)

const (
	DefaultInnerMargin  float32 = 0.25
	DefaultStartAt      float32 = 1
	DefaultMoveDuration         = time.Second
	DefaultName                 = "progress_bar"
)

var (
	DefaultInnerColour = math.NewVec4(0, 1, 0, 1)
	DefaultOuterColour = math.NewVec4(0, 0, 0, 1)
)

type progressBarOptions struct {
	name        string
	innerColour math.Vec4
	outerColour math.Vec4
	innerMargin float32
	startAt     float32
}

type ProgressBarOption func(*progressBarOptions)

func defaultProgressBarOptions() *progressBarOptions {
	return &progressBarOptions{
		name:        DefaultName,
		innerColour: DefaultInnerColour,
		outerColour: DefaultOuterColour,
		innerMargin: DefaultInnerMargin,
		startAt:     DefaultStartAt,
	}
}

// WithName names the bar entity, its children are suffixed _fill and _shell.
// An empty name keeps the default.
func WithName(name string) ProgressBarOption {
	return func(o *progressBarOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithInnerColour sets the colour of the fill capsule.
func WithInnerColour(colour math.Vec4) ProgressBarOption {
	return func(o *progressBarOptions) {
		o.innerColour = colour
	}
}

// WithOuterColour sets the colour of the shell.
func WithOuterColour(colour math.Vec4) ProgressBarOption {
	return func(o *progressBarOptions) {
		o.outerColour = colour
	}
}

// WithInnerMargin sets the gap between the fill and the shell. It cannot
// change after construction.
func WithInnerMargin(margin float32) ProgressBarOption {
	return func(o *progressBarOptions) {
		o.innerMargin = margin
	}
}

// WithStartAt sets the progress shown right after construction, without
// animating. It must lie in [0, 1].
func WithStartAt(progress float32) ProgressBarOption {
	return func(o *progressBarOptions) {
		o.startAt = progress
	}
}

type moveOptions struct {
	duration time.Duration
	timing   math.TimingFunction
}

type MoveOption func(*moveOptions)

func defaultMoveOptions() *moveOptions {
	return &moveOptions{
		duration: DefaultMoveDuration,
		timing:   math.TimingLinear,
	}
}

func WithDuration(d time.Duration) MoveOption {
	return func(o *moveOptions) {
		o.duration = d
	}
}

func WithTimingFunction(tf math.TimingFunction) MoveOption {
	return func(o *moveOptions) {
		o.timing = tf
	}
}
