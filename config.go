package vkframe

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// MaxFramesInFlightLimit bounds Config.MaxFramesInFlight
const MaxFramesInFlightLimit = 16

// Config is the engine configuration, normally loaded from a TOML file
type Config struct {
	// AppName is reported to the instance and used as the window title
	AppName string `toml:"app_name"`

	// Width and Height are the initial window size in screen coordinates
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// MaxFramesInFlight is the number of frame slots, bounding how far the
	// CPU may run ahead of the GPU
	MaxFramesInFlight int `toml:"max_frames_in_flight"`

	// EnableValidation turns on the Khronos validation layer and routes its
	// messages to the logger
	EnableValidation bool `toml:"enable_validation"`

	// ClearColor is the RGBA color the render pass clears to
	ClearColor [4]float32 `toml:"clear_color"`

	// VertexShader and FragmentShader are SPIR-V files
	VertexShader   string `toml:"vertex_shader"`
	FragmentShader string `toml:"fragment_shader"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns the configuration used when no file is supplied
func DefaultConfig() Config {
	return Config{
		AppName:           "vkframe",
		Width:             800,
		Height:            600,
		MaxFramesInFlight: 2,
		ClearColor:        [4]float32{0, 0, 0, 1},
		VertexShader:      "res/shaders/vs.spv",
		FragmentShader:    "res/shaders/fs.spv",
		LogLevel:          "info",
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig and validates the result
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML data on top of DefaultConfig and validates the result
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can construct an engine
func (c Config) Validate() error {
	if c.MaxFramesInFlight < 1 || c.MaxFramesInFlight > MaxFramesInFlightLimit {
		return errors.Newf("max_frames_in_flight must be in [1, %d], got %d", MaxFramesInFlightLimit, c.MaxFramesInFlight)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Newf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.VertexShader == "" || c.FragmentShader == "" {
		return errors.New("vertex_shader and fragment_shader are required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel into a slog level, empty means info
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	return level, nil
}
