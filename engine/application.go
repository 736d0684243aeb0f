package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/anima-progress/engine/core"
)

type ApplicationConfig struct {
	// The application name, also used to name the scene.
	Name string `toml:"name"`
	// One of debug, info, warn, error, fatal.
	LogLevel string `toml:"log_level"`
	// Number of engine ticks per second.
	TickRate uint32 `toml:"tick_rate"`
	// Stop after this many frames, 0 runs until quit.
	MaxFrames uint64 `toml:"max_frames"`
}

func DefaultApplicationConfig() ApplicationConfig {
	return ApplicationConfig{
		Name:     "Anima Progress",
		LogLevel: "info",
		TickRate: 60,
	}
}

func (c *ApplicationConfig) Validate() error {
	if c.TickRate == 0 {
		return fmt.Errorf("application %q: tick_rate must be > 0", c.Name)
	}
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("application %q: %w", c.Name, err)
	}
	return nil
}

// LoadConfigFile decodes the TOML file at path into out. Fields missing from
// the file keep whatever out already holds, unknown keys are an error.
func LoadConfigFile(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(out); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}
