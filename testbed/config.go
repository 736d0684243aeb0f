package testbed

import (
	"fmt"
	"time"

	"github.com/spaghettifunk/anima-progress/engine"
	"github.com/spaghettifunk/anima-progress/engine/math"
	"github.com/spaghettifunk/anima-progress/engine/renderer/components"
)

// Duration decodes TOML strings such as "750ms" or "2s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Application engine.ApplicationConfig `toml:"application"`
	ProgressBar ProgressBarConfig        `toml:"progress_bar"`
	Feed        FeedConfig               `toml:"feed"`
}

type ProgressBarConfig struct {
	Name        string    `toml:"name"`
	InnerColour []float32 `toml:"inner_colour"`
	OuterColour []float32 `toml:"outer_colour"`
	InnerMargin float32   `toml:"inner_margin"`
	StartAt     float32   `toml:"start_at"`
	// Default length of every animated move.
	Duration Duration `toml:"duration"`
	// linear, default, ease_in, ease_out or ease_in_out.
	Timing string `toml:"timing"`
}

type FeedConfig struct {
	// File holding the next progress value. Empty plays the demo sequence.
	Path string `toml:"path"`
	// Pause between two demo steps.
	DemoInterval Duration `toml:"demo_interval"`
}

func DefaultConfig() *Config {
	inner := components.DefaultInnerColour
	outer := components.DefaultOuterColour
	return &Config{
		Application: engine.DefaultApplicationConfig(),
		ProgressBar: ProgressBarConfig{
			Name:        components.DefaultName,
			InnerColour: []float32{inner.X, inner.Y, inner.Z, inner.W},
			OuterColour: []float32{outer.X, outer.Y, outer.Z, outer.W},
			InnerMargin: components.DefaultInnerMargin,
			StartAt:     components.DefaultStartAt,
			Duration:    Duration{components.DefaultMoveDuration},
			Timing:      math.TimingLinear.Name,
		},
		Feed: FeedConfig{
			DemoInterval: Duration{2 * time.Second},
		},
	}
}

// LoadConfig reads path over the defaults. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := engine.LoadConfigFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Application.Validate(); err != nil {
		return err
	}
	if _, err := colour(c.ProgressBar.InnerColour); err != nil {
		return fmt.Errorf("progress_bar.inner_colour: %w", err)
	}
	if _, err := colour(c.ProgressBar.OuterColour); err != nil {
		return fmt.Errorf("progress_bar.outer_colour: %w", err)
	}
	if _, err := math.ParseTimingFunction(c.ProgressBar.Timing); err != nil {
		return fmt.Errorf("progress_bar.timing: %w", err)
	}
	if c.ProgressBar.Duration.Duration < 0 {
		return fmt.Errorf("progress_bar.duration: must not be negative, got %s", c.ProgressBar.Duration)
	}
	if c.Feed.Path == "" && c.Feed.DemoInterval.Duration <= 0 {
		return fmt.Errorf("feed.demo_interval: must be > 0, got %s", c.Feed.DemoInterval)
	}
	return nil
}

// Options turns the [progress_bar] section into construction options. The
// margin and start value are checked by the bar itself.
func (c ProgressBarConfig) Options() ([]components.ProgressBarOption, error) {
	inner, err := colour(c.InnerColour)
	if err != nil {
		return nil, err
	}
	outer, err := colour(c.OuterColour)
	if err != nil {
		return nil, err
	}
	opts := []components.ProgressBarOption{
		components.WithInnerColour(inner),
		components.WithOuterColour(outer),
		components.WithInnerMargin(c.InnerMargin),
		components.WithStartAt(c.StartAt),
	}
	if c.Name != "" {
		opts = append(opts, components.WithName(c.Name))
	}
	return opts, nil
}

func (c ProgressBarConfig) MoveOptions() ([]components.MoveOption, error) {
	tf, err := math.ParseTimingFunction(c.Timing)
	if err != nil {
		return nil, err
	}
	return []components.MoveOption{
		components.WithDuration(c.Duration.Duration),
		components.WithTimingFunction(tf),
	}, nil
}

func colour(rgba []float32) (math.Vec4, error) {
	if len(rgba) != 4 {
		return math.Vec4{}, fmt.Errorf("expected 4 components (r, g, b, a), got %d", len(rgba))
	}
	for _, c := range rgba {
		if !math.InRange(c, 0, 1) {
			return math.Vec4{}, fmt.Errorf("component %v outside [0, 1]", c)
		}
	}
	return math.NewVec4(rgba[0], rgba[1], rgba[2], rgba[3]), nil
}
