package components

import (
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-progress/engine/core"
	"github.com/spaghettifunk/anima-progress/engine/math"
	"github.com/spaghettifunk/anima-progress/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-progress/engine/scene"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

var sampleProgress = []float32{0, 0.01, 0.25, 0.3, 0.5, 0.78, 0.999, 1}

func newTestBar(t *testing.T, f *fakeDeps, opts ...ProgressBarOption) *ProgressBar {
	t.Helper()
	pb, err := NewProgressBar(f.deps(), opts...)
	require.NoError(t, err)
	return pb
}

func TestNewProgressBarDefaults(t *testing.T) {
	f := newFakeDeps()
	pb := newTestBar(t, f)

	assert.Equal(t, DefaultName, pb.Name)
	assert.Equal(t, DefaultInnerMargin, pb.InnerMargin())
	assert.Equal(t, DefaultStartAt, pb.Progress())
	assert.True(t, pb.Fill().IsEnabled())
	assert.Zero(t, pb.Fill().Transform.Position.X)
	assert.Empty(t, f.animator.moves)
	assert.Empty(t, f.events.subs)
}

func TestNewProgressBarGeometry(t *testing.T) {
	f := newFakeDeps()
	green := math.NewVec4(0, 1, 0, 1)
	black := math.NewVec4(0, 0, 0, 1)
	pb := newTestBar(t, f,
		WithName("loader"),
		WithInnerMargin(0.5),
		WithInnerColour(green),
		WithOuterColour(black))

	require.Len(t, f.meshes.boxes, 2)
	assert.Equal(t, boxRequest{"loader_fill", 10, 1, 1, 0.5}, f.meshes.boxes[0])
	assert.Equal(t, boxRequest{"loader_shell", 11, 2, 2, 1}, f.meshes.boxes[1])

	require.Len(t, f.meshes.materials, 2)
	assert.Equal(t, green, f.meshes.materials[0].DiffuseColour)
	assert.Equal(t, black, f.meshes.materials[1].DiffuseColour)
	for _, m := range f.meshes.materials {
		assert.False(t, m.Metallic)
	}

	assert.Same(t, f.meshes.materials[0], pb.Fill().Model.Geometries[0].Material)
	assert.Same(t, f.meshes.materials[1], pb.Shell().Model.Geometries[0].Material)
	assert.Equal(t, "loader_shell", pb.Shell().Name)

	// the shell is turned inside out and comes first
	assert.Equal(t, math.NewVec3(-1, -1, -1), pb.Shell().Transform.Scale)
	assert.Equal(t, []*scene.Entity{pb.Shell(), pb.Fill()}, pb.Children())
	assert.Same(t, pb.Entity, pb.Fill().Parent())
}

func TestScenarioA(t *testing.T) {
	pb := newTestBar(t, newFakeDeps(), WithInnerMargin(0.5), WithStartAt(0.78))
	assert.Equal(t, float32(0.5), pb.InnerMargin())
	assert.Equal(t, float32(0.78), pb.Progress())
}

func TestScenarioB(t *testing.T) {
	pb := newTestBar(t, newFakeDeps(), WithStartAt(0.3))
	require.NoError(t, pb.SetProgress(1))
	assert.Equal(t, float32(1), pb.Progress())
}

func TestScenarioC(t *testing.T) {
	pb := newTestBar(t, newFakeDeps())
	require.NoError(t, pb.SetProgress(0))
	assert.False(t, pb.Fill().IsEnabled())
	assert.Equal(t, float32(0), pb.Progress())
}

func TestScenarioD(t *testing.T) {
	f := newFakeDeps()
	pb := newTestBar(t, f)

	require.NoError(t, pb.MoveProgress(0, WithDuration(2*time.Second)))
	assert.True(t, pb.Fill().IsEnabled())
	require.Len(t, f.animator.moves, 1)
	assert.Equal(t, 2*time.Second, f.animator.moves[0].duration)
	require.Len(t, f.events.subs, 1)
	assert.Equal(t, core.EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED, f.events.subs[0].code)
	assert.Same(t, pb.Fill(), f.events.subs[0].sender)

	f.animator.finish(pb.Fill())
	assert.True(t, pb.Fill().IsEnabled())
	f.events.fire(core.EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED, pb.Fill())

	assert.False(t, pb.Fill().IsEnabled())
	assert.Equal(t, float32(0), pb.Progress())
	assert.Zero(t, f.events.live())
}

func TestStartAtRoundTrips(t *testing.T) {
	for _, p := range sampleProgress {
		pb := newTestBar(t, newFakeDeps(), WithStartAt(p))
		assert.Equal(t, p, pb.Progress())
		assert.Equal(t, p > 0, pb.Fill().IsEnabled())
	}
}

func TestSetProgressPlacesFill(t *testing.T) {
	for _, m := range []float32{0, 0.25, 0.5, 2} {
		pb := newTestBar(t, newFakeDeps(), WithInnerMargin(m))
		for _, p := range sampleProgress {
			require.NoError(t, pb.SetProgress(p))
			assert.Equal(t, p, pb.Progress())
			assert.Equal(t, p > 0, pb.Fill().IsEnabled())
			assert.InDelta(t, (5-m)*(p-1), pb.Fill().Transform.Position.X, 1e-6, "m=%v p=%v", m, p)
			assert.Equal(t, float32(1), pb.Fill().Transform.Scale.Y)
			assert.Equal(t, float32(1), pb.Fill().Transform.Scale.Z)
		}
	}
}

func TestFillOffset(t *testing.T) {
	assert.Equal(t, float32(0), FillOffset(1, 0.25))
	assert.Equal(t, float32(-4.75), FillOffset(0, 0.25))
	assert.Equal(t, float32(-2.5), FillOffset(0.5, 0))

	// with no margin the left end of the fill stays on the shell's left end
	for _, p := range sampleProgress[1:] {
		left := FillOffset(p, 0) - progressBarHalfLength*p
		assert.InDelta(t, -progressBarHalfLength, left, 1e-6)
	}
}

func TestSetProgressIsIdempotent(t *testing.T) {
	f := newFakeDeps()
	pb := newTestBar(t, f)

	require.NoError(t, pb.SetProgress(0.4))
	once := pb.Fill().Transform
	enabled := pb.Fill().IsEnabled()

	require.NoError(t, pb.SetProgress(0.4))
	assert.Equal(t, once, pb.Fill().Transform)
	assert.Equal(t, enabled, pb.Fill().IsEnabled())
}

func TestMoveProgressWithoutDurationMatchesSetProgress(t *testing.T) {
	for _, p := range sampleProgress {
		moved := newTestBar(t, newFakeDeps(), WithStartAt(0.5))
		set := newTestBar(t, newFakeDeps(), WithStartAt(0.5))

		require.NoError(t, moved.MoveProgress(p, WithDuration(0)))
		require.NoError(t, set.SetProgress(p))

		assert.Equal(t, set.Fill().Transform, moved.Fill().Transform, "p=%v", p)
		assert.Equal(t, set.Fill().IsEnabled(), moved.Fill().IsEnabled(), "p=%v", p)
		assert.False(t, moved.IsAnimating())
	}
}

func TestMoveProgressRequest(t *testing.T) {
	f := newFakeDeps()
	pb := newTestBar(t, f, WithInnerMargin(0.5))
	pb.Fill().Transform.Position.Y = 2

	require.NoError(t, pb.MoveProgress(0.25))
	require.Len(t, f.animator.moves, 1)
	req := f.animator.moves[0]

	assert.Same(t, pb.Fill(), req.entity)
	assert.Equal(t, DefaultMoveDuration, req.duration)
	assert.Equal(t, math.TimingLinear.Name, req.timing.Name)
	assert.Equal(t, float32(0.25), req.to.Scale.X)
	assert.Equal(t, FillOffset(0.25, 0.5), req.to.Position.X)
	assert.Equal(t, float32(2), req.to.Position.Y)
	assert.Equal(t, pb.Fill().Transform.Rotation, req.to.Rotation)

	// nothing moves until the animator does
	assert.Equal(t, float32(1), pb.Progress())
	assert.True(t, pb.IsAnimating())
	// only an empty target hides the fill
	assert.Empty(t, f.events.subs)

	require.NoError(t, pb.MoveProgress(0.5, WithTimingFunction(math.TimingEaseOut)))
	assert.Equal(t, "ease_out", f.animator.moves[1].timing.Name)
}

func TestMoveProgressSupersedesEmptyHide(t *testing.T) {
	f := newFakeDeps()
	pb := newTestBar(t, f)

	require.NoError(t, pb.MoveProgress(0))
	require.Equal(t, 1, f.events.live())
	stopped := f.animator.stopped

	require.NoError(t, pb.MoveProgress(0.5))
	assert.Greater(t, f.animator.stopped, stopped)
	assert.Zero(t, f.events.live())

	// a stale completion cannot hide the fill any more
	f.events.fire(core.EVENT_CODE_ANIMATION_PLAYBACK_COMPLETED, pb.Fill())
	assert.True(t, pb.Fill().IsEnabled())
}

func TestSetProgressCancelsAnimation(t *testing.T) {
	f := newFakeDeps()
	pb := newTestBar(t, f)

	require.NoError(t, pb.MoveProgress(0))
	require.True(t, pb.IsAnimating())

	require.NoError(t, pb.SetProgress(0.7))
	assert.False(t, pb.IsAnimating())
	assert.Zero(t, f.events.live())
	assert.Equal(t, float32(0.7), pb.Progress())
	assert.True(t, pb.Fill().IsEnabled())
}

func TestRepeatedEmptyMovesKeepOneSubscription(t *testing.T) {
	f := newFakeDeps()
	pb := newTestBar(t, f)

	for i := 0; i < 3; i++ {
		require.NoError(t, pb.MoveProgress(0))
	}
	assert.Len(t, f.events.subs, 3)
	assert.Equal(t, 1, f.events.live())
}

func TestMoveProgressReenablesHiddenFill(t *testing.T) {
	f := newFakeDeps()
	pb := newTestBar(t, f, WithStartAt(0))
	require.False(t, pb.Fill().IsEnabled())

	require.NoError(t, pb.MoveProgress(0.4))
	assert.True(t, pb.Fill().IsEnabled())
}

func TestOutOfRangeIsRejected(t *testing.T) {
	for _, p := range []float32{1.5, -0.1, math32.NaN(), math32.Inf(1), math32.Inf(-1), 1.0000001} {
		f := newFakeDeps()
		pb := newTestBar(t, f, WithStartAt(0))
		before := pb.Fill().Transform

		err := pb.SetProgress(p)
		require.Error(t, err, "p=%v", p)
		assert.ErrorIs(t, err, core.ErrProgressOutOfRange)
		var rangeErr *ProgressRangeError
		require.True(t, errors.As(err, &rangeErr))
		if !math32.IsNaN(p) {
			assert.Equal(t, p, rangeErr.Value)
		}

		err = pb.MoveProgress(p)
		assert.ErrorIs(t, err, core.ErrProgressOutOfRange, "p=%v", p)

		// never clamped, never half applied
		assert.Equal(t, before, pb.Fill().Transform)
		assert.False(t, pb.Fill().IsEnabled())
		assert.Zero(t, f.animator.stopped)
		assert.Empty(t, f.animator.moves)
		assert.Empty(t, f.events.subs)
	}
}

func TestNewProgressBarRejectsInvalidOptions(t *testing.T) {
	_, err := NewProgressBar(newFakeDeps().deps(), WithStartAt(1.5))
	assert.ErrorIs(t, err, core.ErrProgressOutOfRange)

	_, err = NewProgressBar(newFakeDeps().deps(), WithInnerMargin(-0.1))
	assert.ErrorIs(t, err, core.ErrInvalidMargin)

	_, err = NewProgressBar(newFakeDeps().deps(), WithInnerMargin(math32.NaN()))
	assert.ErrorIs(t, err, core.ErrInvalidMargin)

	_, err = NewProgressBar(newFakeDeps().deps(), WithInnerMargin(math32.Inf(1)))
	assert.ErrorIs(t, err, core.ErrInvalidMargin)

	_, err = NewProgressBar(Dependencies{})
	assert.Error(t, err)

	f := newFakeDeps()
	f.meshes.failBoxesFrom = 1
	_, err = NewProgressBar(f.deps())
	assert.ErrorIs(t, err, core.ErrInvalidGeometry)
	assert.Empty(t, f.meshes.released)
}

func TestNewProgressBarReleasesFillWhenShellFails(t *testing.T) {
	f := newFakeDeps()
	f.meshes.failBoxesFrom = 2

	_, err := NewProgressBar(f.deps())
	assert.ErrorIs(t, err, core.ErrInvalidGeometry)
	require.Len(t, f.meshes.boxes, 1)
	require.Len(t, f.meshes.released, 1)
	assert.Equal(t, DefaultName+"_fill", f.meshes.released[0].Name)
	// the material goes back with its geometry
	assert.NotNil(t, f.meshes.released[0].Material)
}

func TestNewProgressBarReleasesBoxWhenMaterialFails(t *testing.T) {
	f := newFakeDeps()
	f.meshes.failMaterials = true

	_, err := NewProgressBar(f.deps())
	assert.ErrorIs(t, err, core.ErrMaterialNotFound)
	require.Len(t, f.meshes.boxes, 1)
	require.Len(t, f.meshes.released, 1)
	assert.Equal(t, DefaultName+"_fill", f.meshes.released[0].Name)
}

func TestDestroy(t *testing.T) {
	f := newFakeDeps()
	parent := scene.NewEntity("hud")
	pb := newTestBar(t, f)
	parent.AddChild(pb.Entity)
	fillGeometry := pb.Fill().Model.Geometries[0]
	shellGeometry := pb.Shell().Model.Geometries[0]

	require.NoError(t, pb.MoveProgress(0))
	pb.Destroy()

	assert.Empty(t, parent.Children())
	assert.Zero(t, f.events.live())
	assert.False(t, pb.IsAnimating())
	assert.Equal(t, []*scene.Entity{pb.Shell(), pb.Fill()}, pb.Children())
	assert.ElementsMatch(t, f.meshes.released, []*metadata.Geometry{fillGeometry, shellGeometry})
	assert.Nil(t, pb.Fill().Model)
	assert.Nil(t, pb.Shell().Model)

	// a second call has nothing left to release
	pb.Destroy()
	assert.Len(t, f.meshes.released, 2)
}
