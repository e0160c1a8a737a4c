package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Backend selects the board the player runs on.
const (
	BackendSim  = "sim"
	BackendGPIO = "gpio"
)

// TimingConfig holds the playback pauses in milliseconds.
type TimingConfig struct {
	LeadInMs     int `json:"leadInMs" yaml:"leadInMs"`
	GapMs        int `json:"gapMs" yaml:"gapMs"`
	TrackPauseMs int `json:"trackPauseMs" yaml:"trackPauseMs"`
}

// MIDIConfig maps controller pads and keys to the four buttons, in
// previous, next, pause, light order.
type MIDIConfig struct {
	Enabled    bool     `json:"enabled" yaml:"enabled"`
	Pads       []int    `json:"pads" yaml:"pads"`
	CCs        []int    `json:"ccs" yaml:"ccs"`
	Keys       []int    `json:"keys" yaml:"keys"`
	LED        int      `json:"led,omitempty" yaml:"led,omitempty"`
	Launchpads []string `json:"launchpads,omitempty" yaml:"launchpads,omitempty"`
	Keyboards  []string `json:"keyboards,omitempty" yaml:"keyboards,omitempty"`
}

// GPIOConfig names the header pins for the gpio backend.
type GPIOConfig struct {
	Buttons []string `json:"buttons" yaml:"buttons"` // previous, next, pause, light
	Outputs []string `json:"outputs" yaml:"outputs"` // red, green, blue, tone
}

// LinkConfig mirrors the output to a serial device when Port is set.
type LinkConfig struct {
	Port string `json:"port,omitempty" yaml:"port,omitempty"`
	Baud int    `json:"baud,omitempty" yaml:"baud,omitempty"`
}

// AudioConfig controls the simulated tone output.
type AudioConfig struct {
	Enabled    bool `json:"enabled" yaml:"enabled"`
	SampleRate int  `json:"sampleRate,omitempty" yaml:"sampleRate,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty" yaml:"palette,omitempty"` // GIMP .gpl file
	PressMs int    `json:"pressMs" yaml:"pressMs"`                     // how long a key holds a button
}

// LogConfig enables the debug log.
type LogConfig struct {
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Verbose bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Backend  string       `json:"backend" yaml:"backend"`
	SampleHz int          `json:"sampleHz" yaml:"sampleHz"`
	Start    int          `json:"start,omitempty" yaml:"start,omitempty"`
	Timing   TimingConfig `json:"timing" yaml:"timing"`
	MIDI     MIDIConfig   `json:"midi" yaml:"midi"`
	GPIO     GPIOConfig   `json:"gpio" yaml:"gpio"`
	Link     LinkConfig   `json:"link,omitempty" yaml:"link,omitempty"`
	Audio    AudioConfig  `json:"audio" yaml:"audio"`
	UI       UIConfig     `json:"ui,omitempty" yaml:"ui,omitempty"`
	Log      LogConfig    `json:"log,omitempty" yaml:"log,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Backend:  BackendSim,
		SampleHz: 50,
		Timing: TimingConfig{
			LeadInMs:     300,
			GapMs:        10,
			TrackPauseMs: 1500,
		},
		MIDI: MIDIConfig{
			Enabled:    true,
			Pads:       []int{11, 12, 13, 14},
			CCs:        []int{91, 92, 93, 94},
			Keys:       []int{60, 62, 64, 65},
			LED:        18,
			Launchpads: []string{"launchpad"},
		},
		GPIO: GPIOConfig{
			Buttons: []string{"GPIO5", "GPIO6", "GPIO16", "GPIO26"},
			Outputs: []string{"GPIO12", "GPIO13", "GPIO18", "GPIO19"},
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
		},
		UI: UIConfig{
			PressMs: 120,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "music-board"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFile reads a config file over the defaults. Files ending in .yml or
// .yaml are parsed as YAML; anything else is tried as JSON and then YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else if jerr := json.Unmarshal(data, cfg); jerr != nil {
		cfg = DefaultConfig()
		if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
			err = jerr
		}
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, as YAML or JSON by extension.
func (c *Config) SaveFile(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values the board cannot run without.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSim, BackendGPIO:
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalid, c.Backend)
	}
	if c.SampleHz < 1 || c.SampleHz > 1000 {
		return fmt.Errorf("%w: sampleHz %d outside 1..1000", ErrInvalid, c.SampleHz)
	}
	if c.Timing.LeadInMs < 0 || c.Timing.GapMs < 0 || c.Timing.TrackPauseMs < 0 {
		return fmt.Errorf("%w: negative timing", ErrInvalid)
	}
	// A tap must stay high across one sample period to be seen.
	if c.UI.PressMs*c.SampleHz < 1000 {
		return fmt.Errorf("%w: pressMs %d shorter than one sample period at %d Hz", ErrInvalid, c.UI.PressMs, c.SampleHz)
	}
	for name, notes := range map[string][]int{"pads": c.MIDI.Pads, "ccs": c.MIDI.CCs, "keys": c.MIDI.Keys} {
		if err := checkNotes(name, notes); err != nil {
			return err
		}
	}
	if c.MIDI.LED < 0 || c.MIDI.LED > 127 {
		return fmt.Errorf("%w: midi led %d", ErrInvalid, c.MIDI.LED)
	}
	if c.Backend == BackendGPIO && (len(c.GPIO.Buttons) != 4 || len(c.GPIO.Outputs) != 4) {
		return fmt.Errorf("%w: gpio needs 4 button and 4 output pins", ErrInvalid)
	}
	return nil
}

func checkNotes(name string, notes []int) error {
	if len(notes) != 4 {
		return fmt.Errorf("%w: midi %s needs 4 entries, got %d", ErrInvalid, name, len(notes))
	}
	for _, n := range notes {
		if n < 0 || n > 127 {
			return fmt.Errorf("%w: midi %s value %d", ErrInvalid, name, n)
		}
	}
	return nil
}
