package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/jscyril/golang_metronome/api"
)

// Config holds application configuration. It provides startup defaults
// only; the running engine never writes back to it.
type Config struct {
	Tempo         int         `json:"tempo"`
	Volume        int         `json:"volume"` // percent
	Sound         string      `json:"sound"`
	Mode          string      `json:"mode"`
	Accent        string      `json:"accent"`
	Pattern       string      `json:"pattern"` // step notation, e.g. "1-2-1-2-"
	PatternSounds []string    `json:"pattern_sounds"`
	AudioRoute    string      `json:"audio_route"`
	Audio         AudioConfig `json:"audio"`
	LogLevel      string      `json:"log_level"`
	LogFile       string      `json:"log_file"`
	KeyBindings   KeyMap      `json:"key_bindings"`
}

// AudioConfig configures the output backend
type AudioConfig struct {
	SampleRate   int                     `json:"sample_rate"`
	BufferMillis int                     `json:"buffer_ms"`
	SoundsDir    string                  `json:"sounds_dir"`
	Muted        bool                    `json:"muted"`
	Routes       map[string]RouteProfile `json:"routes"`
}

// RouteProfile mirrors audio.RouteProfile in file form
type RouteProfile struct {
	VolumeOffset float64 `json:"volume_offset"`
	RespectMute  bool    `json:"respect_mute"`
}

// KeyMap defines keyboard shortcuts
type KeyMap struct {
	PlayPause   string `json:"play_pause"`
	Stop        string `json:"stop"`
	TempoUp     string `json:"tempo_up"`
	TempoDown   string `json:"tempo_down"`
	NextPreset  string `json:"next_preset"`
	VolumeUp    string `json:"volume_up"`
	VolumeDown  string `json:"volume_down"`
	NextSound   string `json:"next_sound"`
	NextAccent  string `json:"next_accent"`
	ToggleMode  string `json:"toggle_mode"`
	ToggleRoute string `json:"toggle_route"`
	Quit        string `json:"quit"`
}

// Settings is the parsed form of the playback fields
type Settings struct {
	Tempo  int
	Volume int
	Sound  api.Sound
	Mode   api.PlaybackMode
	Accent api.AccentPattern
	Drum   api.DrumPattern
	Route  api.AudioRoute
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Tempo:         api.DefaultTempo,
		Volume:        api.DefaultVolume,
		Sound:         api.SoundClassic.String(),
		Mode:          api.ModeSimple.String(),
		Accent:        api.AccentNone.String(),
		Pattern:       "--------",
		PatternSounds: []string{api.SoundClassic.String(), api.SoundSnare.String()},
		AudioRoute:    api.RouteMedia.String(),
		Audio: AudioConfig{
			SampleRate:   44100,
			BufferMillis: 50,
			Routes: map[string]RouteProfile{
				api.RouteMedia.String():        {VolumeOffset: 0, RespectMute: false},
				api.RouteNotification.String(): {VolumeOffset: -1, RespectMute: true},
			},
		},
		LogLevel: "info",
		KeyBindings: KeyMap{
			PlayPause:   " ",
			Stop:        "s",
			TempoUp:     "+",
			TempoDown:   "-",
			NextPreset:  "p",
			VolumeUp:    "]",
			VolumeDown:  "[",
			NextSound:   "c",
			NextAccent:  "a",
			ToggleMode:  "m",
			ToggleRoute: "r",
			Quit:        "q",
		},
	}
}

// LoadConfig reads and unmarshals configuration from file. Fields
// missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

// SaveConfig marshals and saves configuration to file
func SaveConfig(config *Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadOrCreate loads config from path or creates default if not exists
func LoadOrCreate(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Save default config if file didn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	return config, nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	// Check environment variable first
	if path := os.Getenv("METRONOME_CONFIG"); path != "" {
		return path
	}

	// Use XDG config directory if available
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "metronome", "config.json")
	}

	// Fall back to home directory
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(home, ".config", "metronome", "config.json")
}

// LoadDotEnv loads variables from .env files into the environment.
// Missing files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config fields from METRONOME_* variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("METRONOME_TEMPO"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("METRONOME_TEMPO: %w", err)
		}
		c.Tempo = n
	}
	if v := os.Getenv("METRONOME_VOLUME"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("METRONOME_VOLUME: %w", err)
		}
		c.Volume = n
	}
	if v := os.Getenv("METRONOME_SOUND"); v != "" {
		c.Sound = v
	}
	if v := os.Getenv("METRONOME_ROUTE"); v != "" {
		c.AudioRoute = v
	}
	if v := os.Getenv("METRONOME_SOUNDS_DIR"); v != "" {
		c.Audio.SoundsDir = v
	}
	return nil
}

// Settings parses the playback fields. Tempo and volume are passed
// through unclamped; the engine clamps them.
func (c *Config) Settings() (Settings, error) {
	s := Settings{Tempo: c.Tempo, Volume: c.Volume}

	var err error
	if s.Sound, err = api.ParseSound(c.Sound); err != nil {
		return Settings{}, fmt.Errorf("sound: %w", err)
	}
	if s.Mode, err = api.ParsePlaybackMode(c.Mode); err != nil {
		return Settings{}, fmt.Errorf("mode: %w", err)
	}
	if s.Accent, err = api.ParseAccentPattern(c.Accent); err != nil {
		return Settings{}, fmt.Errorf("accent: %w", err)
	}
	if s.Route, err = api.ParseAudioRoute(c.AudioRoute); err != nil {
		return Settings{}, fmt.Errorf("audio_route: %w", err)
	}

	sound1, sound2 := api.SoundClassic, api.SoundSnare
	if len(c.PatternSounds) > 0 {
		if sound1, err = api.ParseSound(c.PatternSounds[0]); err != nil {
			return Settings{}, fmt.Errorf("pattern_sounds: %w", err)
		}
	}
	if len(c.PatternSounds) > 1 {
		if sound2, err = api.ParseSound(c.PatternSounds[1]); err != nil {
			return Settings{}, fmt.Errorf("pattern_sounds: %w", err)
		}
	}

	notation := c.Pattern
	if notation == "" {
		notation = "--------"
	}
	if s.Drum, err = api.ParseSteps(notation, sound1, sound2); err != nil {
		return Settings{}, fmt.Errorf("pattern: %w", err)
	}

	return s, nil
}
