package math

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

/**
 * @brief A timing function maps the linear progress of an animation
 * (0..1 of its duration) onto the progress of the animated value. Curves
 * are unit cubic béziers anchored at (0,0) and (1,1), defined by their two
 * inner control points.
 */
type TimingFunction struct {
	Name   string
	c1, c2 Vec3
	linear bool
}

var (
	TimingLinear    = TimingFunction{Name: "linear", c1: Vec3{0, 0, 0}, c2: Vec3{1, 1, 0}, linear: true}
	TimingDefault   = NewTimingCubicBezier("default", 0.25, 0.1, 0.25, 1.0)
	TimingEaseIn    = NewTimingCubicBezier("ease_in", 0.42, 0.0, 1.0, 1.0)
	TimingEaseOut   = NewTimingCubicBezier("ease_out", 0.0, 0.0, 0.58, 1.0)
	TimingEaseInOut = NewTimingCubicBezier("ease_in_out", 0.42, 0.0, 0.58, 1.0)
)

// NewTimingCubicBezier builds a custom curve. Every control value is clamped
// to [0, 1]: x so the curve stays a function of time, y so it never overshoots
// the animation's end points.
func NewTimingCubicBezier(name string, x1, y1, x2, y2 float32) TimingFunction {
	return TimingFunction{
		Name: name,
		c1:   Vec3{Clamp(x1, 0, 1), Clamp(y1, 0, 1), 0},
		c2:   Vec3{Clamp(x2, 0, 1), Clamp(y2, 0, 1), 0},
	}
}

// ParseTimingFunction resolves the names used in config files and flags.
func ParseTimingFunction(name string) (TimingFunction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return TimingLinear, nil
	case "default":
		return TimingDefault, nil
	case "ease_in", "easein", "ease-in":
		return TimingEaseIn, nil
	case "ease_out", "easeout", "ease-out":
		return TimingEaseOut, nil
	case "ease_in_out", "easeinout", "ease-in-out":
		return TimingEaseInOut, nil
	}
	return TimingFunction{}, fmt.Errorf("unknown timing function %q", name)
}

// Evaluate returns the curve value at time fraction t. Both t and the result
// lie in [0, 1]; Evaluate(0) == 0 and Evaluate(1) == 1 exactly.
func (tf TimingFunction) Evaluate(t float32) float32 {
	t = Clamp(t, 0, 1)
	if t == 0 || t == 1 || tf.linear {
		return t
	}
	s := tf.solveCurveX(t)
	return Clamp(bezier(tf.c1.Y, tf.c2.Y, s), 0, 1)
}

// solveCurveX finds the curve parameter s such that x(s) == x.
func (tf TimingFunction) solveCurveX(x float32) float32 {
	const epsilon = 1e-6

	// Newton's method first, it converges in a few steps for sane curves.
	s := x
	for i := 0; i < 8; i++ {
		dx := bezier(tf.c1.X, tf.c2.X, s) - x
		if math32.Abs(dx) < epsilon {
			return s
		}
		d := bezierDerivative(tf.c1.X, tf.c2.X, s)
		if math32.Abs(d) < epsilon {
			break
		}
		s -= dx / d
	}

	// Fall back to bisection.
	lo, hi := float32(0), float32(1)
	s = x
	for i := 0; i < 32 && lo < hi; i++ {
		v := bezier(tf.c1.X, tf.c2.X, s)
		if math32.Abs(v-x) < epsilon {
			return s
		}
		if x > v {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return s
}

// bezier evaluates one axis of a unit cubic with control values p1, p2.
func bezier(p1, p2, s float32) float32 {
	inv := 1 - s
	return 3*inv*inv*s*p1 + 3*inv*s*s*p2 + s*s*s
}

func bezierDerivative(p1, p2, s float32) float32 {
	inv := 1 - s
	return 3*inv*inv*p1 + 6*inv*s*(p2-p1) + 3*s*s*(1-p2)
}
