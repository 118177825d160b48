package orion

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/oliverbestmann/pixl/gfxerr"
	"github.com/oliverbestmann/pixl/pulse"
	"github.com/pelletier/go-toml/v2"
)

// Config describes the window and the renderer. It can be loaded from a
// toml file, see LoadConfig.
type Config struct {
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Title     string `toml:"title"`
	Resizable bool   `toml:"resizable"`

	// Stretch rescales the projection to the current window size instead of
	// stretching the content of the initial window size.
	Stretch bool `toml:"stretch"`

	// BatchCapacity is the number of vertices per draw call.
	BatchCapacity int `toml:"batch_capacity"`

	// MemoryLimit bounds the bytes of all pixel buffers, zero is unlimited.
	MemoryLimit int `toml:"memory_limit"`

	MaxImages    int `toml:"max_images"`
	MaxInstances int `toml:"max_instances"`

	// ClearColor is the background, encoded as 0xRRGGBBAA.
	ClearColor uint32 `toml:"clear_color"`

	// Profile writes a cpu profile while the window is open.
	Profile bool `toml:"profile"`

	LogLevel string `toml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Width:         1000,
		Height:        600,
		Title:         "pixl",
		Resizable:     true,
		BatchCapacity: 12000,
		ClearColor:    0x333333FF,
		LogLevel:      "info",
	}
}

// LoadConfig reads a toml file. Keys missing from the file keep their
// default value.
func LoadConfig(path string) (Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (Config, error) {
	conf := DefaultConfig()

	if err := toml.Unmarshal(buf, &conf); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return Config{}, err
	}

	return conf, nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("validate config: window size %dx%d: %w", c.Width, c.Height, gfxerr.Set(gfxerr.InvalidDimensions))
	}

	if c.BatchCapacity < 0 {
		return fmt.Errorf("validate config: negative batch capacity %d", c.BatchCapacity)
	}

	// zero selects the default, anything else must hold at least one quad
	if c.BatchCapacity > 0 && c.BatchCapacity < pulse.VerticesPerQuad {
		return fmt.Errorf("validate config: batch capacity %d is below %d vertices", c.BatchCapacity, pulse.VerticesPerQuad)
	}

	if c.MemoryLimit < 0 || c.MaxImages < 0 || c.MaxInstances < 0 {
		return fmt.Errorf("validate config: negative limit")
	}

	if _, err := c.Level(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return nil
}

// Level parses LogLevel. An empty LogLevel selects slog.LevelInfo.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level

	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}

	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("parse log level %q: %w", c.LogLevel, err)
	}

	return level, nil
}
