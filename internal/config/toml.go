package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/leandrodaf/midisteno/sdk/contracts"
)

// Input sources.
const (
	SourceMIDI  = "midi"
	SourceEvdev = "evdev"
)

// Output sinks.
const (
	SinkBlueZ = "bluez"
	SinkLog   = "log"
)

var ErrInvalid = errors.New("invalid configuration")

// FileConfig represents the TOML configuration file. Unset keys keep their defaults.
type FileConfig struct {
	Input       InputConfig  `toml:"input"`
	Timing      TimingConfig `toml:"timing"`
	Output      OutputConfig `toml:"output"`
	Store       StoreConfig  `toml:"store"`
	Log         LogConfig    `toml:"log"`
	FlushOnExit *bool        `toml:"flush-on-exit"`
}

type InputConfig struct {
	Source          *string `toml:"source"`
	Device          *int    `toml:"device"`
	EvdevPath       *string `toml:"evdev-path"`
	Grab            *bool   `toml:"grab"`
	DefaultVelocity *int    `toml:"default-velocity"`
}

type TimingConfig struct {
	ChordThreshold   *time.Duration `toml:"chord-threshold"`
	SilenceThreshold *time.Duration `toml:"silence-threshold"`
	PollInterval     *time.Duration `toml:"poll-interval"`
}

type OutputConfig struct {
	Sink            *string `toml:"sink"`
	DevicePath      *string `toml:"device-path"`
	ActivateAdapter *bool   `toml:"activate-adapter"`
}

type StoreConfig struct {
	Path *string `toml:"path"`
}

type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// Config is the resolved configuration with every default applied.
type Config struct {
	Source          string
	Device          int
	EvdevPath       string
	Grab            bool
	DefaultVelocity int

	ChordThreshold   time.Duration
	SilenceThreshold time.Duration
	PollInterval     time.Duration

	Sink            string
	DevicePath      string
	ActivateAdapter bool

	StorePath string

	LogLevel contracts.LogLevel
	LogFile  string

	FlushOnExit bool
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Source:           SourceMIDI,
		DefaultVelocity:  64,
		ChordThreshold:   contracts.DefaultChordThreshold,
		SilenceThreshold: contracts.DefaultSilenceThreshold,
		PollInterval:     10 * time.Millisecond,
		Sink:             SinkBlueZ,
		DevicePath:       "/org/bluez/input/hci0/device1",
		StorePath:        DefaultStorePath(),
		LogLevel:         contracts.InfoLevel,
	}
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
	}
	return cfg, nil
}

// Resolve overlays the file settings on the defaults and validates the result.
func (f FileConfig) Resolve() (Config, error) {
	c := Default()
	set(&c.Source, f.Input.Source)
	set(&c.Device, f.Input.Device)
	set(&c.EvdevPath, f.Input.EvdevPath)
	set(&c.Grab, f.Input.Grab)
	set(&c.DefaultVelocity, f.Input.DefaultVelocity)
	set(&c.ChordThreshold, f.Timing.ChordThreshold)
	set(&c.SilenceThreshold, f.Timing.SilenceThreshold)
	set(&c.PollInterval, f.Timing.PollInterval)
	set(&c.Sink, f.Output.Sink)
	set(&c.DevicePath, f.Output.DevicePath)
	set(&c.ActivateAdapter, f.Output.ActivateAdapter)
	set(&c.StorePath, f.Store.Path)
	set(&c.LogFile, f.Log.File)
	set(&c.FlushOnExit, f.FlushOnExit)

	if f.Log.Level != nil {
		level, err := contracts.ParseLogLevel(*f.Log.Level)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		c.LogLevel = level
	}
	return c, c.Validate()
}

// Validate reports the first setting outside its allowed range.
func (c Config) Validate() error {
	switch {
	case c.Source != SourceMIDI && c.Source != SourceEvdev:
		return fmt.Errorf("%w: input source %q", ErrInvalid, c.Source)
	case c.Source == SourceEvdev && c.EvdevPath == "":
		return fmt.Errorf("%w: evdev source needs input.evdev-path", ErrInvalid)
	case c.Device < 0:
		return fmt.Errorf("%w: device index %d", ErrInvalid, c.Device)
	case c.DefaultVelocity < 1 || c.DefaultVelocity > 127:
		return fmt.Errorf("%w: default velocity %d", ErrInvalid, c.DefaultVelocity)
	case c.ChordThreshold <= 0, c.SilenceThreshold <= 0, c.PollInterval <= 0:
		return fmt.Errorf("%w: timing values must be positive", ErrInvalid)
	case c.Sink != SinkBlueZ && c.Sink != SinkLog:
		return fmt.Errorf("%w: output sink %q", ErrInvalid, c.Sink)
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
