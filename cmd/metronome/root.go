package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/faiface/beep"
	"github.com/spf13/cobra"

	"github.com/jscyril/golang_metronome/api"
	"github.com/jscyril/golang_metronome/internal/audio"
	"github.com/jscyril/golang_metronome/internal/config"
	"github.com/jscyril/golang_metronome/internal/metronome"
	"github.com/jscyril/golang_metronome/internal/ui"
)

// RootOptions holds the command line flags
type RootOptions struct {
	ConfigPath string
	EnvFile    string

	Tempo     int
	Volume    int
	Sound     string
	Mode      string
	Accent    string
	Pattern   string
	Route     string
	SoundsDir string
	Muted     bool

	Headless bool
	Play     bool
	Verbose  bool
	LogFile  string
}

// NewRootCommand creates the metronome command
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "metronome",
		Short: "Terminal metronome and drum pattern player",
		Long: `Play a click track or an 8-step two-voice drum pattern.

Settings come from the config file, then METRONOME_* environment
variables (a .env file is read first), then flags.

Example:
  metronome --tempo 180 --accent every4th
  metronome --mode pattern --pattern "1-2-1-2-" --headless`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.Flags().Changed)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.ConfigPath, "config", "", "config file (default $METRONOME_CONFIG or ~/.config/metronome/config.json)")
	f.StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to load before reading METRONOME_* variables")
	f.IntVarP(&opts.Tempo, "tempo", "t", api.DefaultTempo, "beats per minute (40-200)")
	f.IntVar(&opts.Volume, "volume", api.DefaultVolume, "volume percent (0-100)")
	f.StringVar(&opts.Sound, "sound", "", "click sound: classic, snare, knock, tr707, tr808, tr909")
	f.StringVar(&opts.Mode, "mode", "", "playback mode: simple or pattern")
	f.StringVar(&opts.Accent, "accent", "", "accent: none, every2nd, every3rd, every4th")
	f.StringVar(&opts.Pattern, "pattern", "", `drum steps, e.g. "1-2-1-2-"`)
	f.StringVar(&opts.Route, "route", "", "audio route: media or notification")
	f.StringVar(&opts.SoundsDir, "sounds-dir", "", "directory of <sound>.wav|.mp3|.flac overrides")
	f.BoolVar(&opts.Muted, "muted", false, "treat the system mute switch as on")
	f.BoolVar(&opts.Headless, "headless", false, "play without the terminal UI until interrupted")
	f.BoolVar(&opts.Play, "play", false, "start playing as soon as the UI opens")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	f.StringVar(&opts.LogFile, "log-file", "", "write logs to this file")

	cmd.AddCommand(newSoundsCommand())

	return cmd
}

func newSoundsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sounds",
		Short: "List the built-in sounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, s := range api.Sounds() {
				fmt.Fprintf(out, "%-8s %s\n", s.String(), s.DisplayName())
			}
			return nil
		},
	}
}

func run(ctx context.Context, opts *RootOptions, changed func(string) bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return err
	}

	path := opts.ConfigPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	applyFlags(cfg, opts, changed)

	settings, err := cfg.Settings()
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	logger, closeLog, err := newLogger(cfg, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	audioOpts, err := audioOptions(cfg, logger)
	if err != nil {
		return err
	}

	engine, err := metronome.New(audio.NewFactory(audioOpts),
		metronome.WithRoute(settings.Route),
		metronome.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Error("engine close failed", "error", err)
		}
	}()

	if err := applySettings(engine, settings); err != nil {
		return err
	}

	if opts.Headless {
		return runHeadless(ctx, engine, logger)
	}

	if opts.Play {
		engine.Play()
	}
	if err := ui.Run(engine, cfg.KeyBindings); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// applyFlags copies explicitly set flags over the config values
func applyFlags(cfg *config.Config, opts *RootOptions, changed func(string) bool) {
	if changed("tempo") {
		cfg.Tempo = opts.Tempo
	}
	if changed("volume") {
		cfg.Volume = opts.Volume
	}
	if changed("sound") {
		cfg.Sound = opts.Sound
	}
	if changed("mode") {
		cfg.Mode = opts.Mode
	}
	if changed("accent") {
		cfg.Accent = opts.Accent
	}
	if changed("pattern") {
		cfg.Pattern = opts.Pattern
	}
	if changed("route") {
		cfg.AudioRoute = opts.Route
	}
	if changed("sounds-dir") {
		cfg.Audio.SoundsDir = opts.SoundsDir
	}
	if changed("muted") {
		cfg.Audio.Muted = opts.Muted
	}
	if changed("log-file") {
		cfg.LogFile = opts.LogFile
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
}

// newLogger logs to stderr in headless mode. The TUI owns the terminal,
// so there logs go to the configured file or nowhere.
func newLogger(cfg *config.Config, opts *RootOptions) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("log_level: %w", err)
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case opts.Headless:
		w = os.Stderr
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closeFn, nil
}

// audioOptions maps the audio section of the config onto backend options
func audioOptions(cfg *config.Config, logger *slog.Logger) (audio.Options, error) {
	opts := audio.DefaultOptions()
	if cfg.Audio.SampleRate > 0 {
		opts.SampleRate = beep.SampleRate(cfg.Audio.SampleRate)
	}
	if cfg.Audio.BufferMillis > 0 {
		opts.BufferSize = time.Duration(cfg.Audio.BufferMillis) * time.Millisecond
	}
	opts.SoundsDir = cfg.Audio.SoundsDir
	opts.Muted = cfg.Audio.Muted
	opts.Logger = logger

	for name, p := range cfg.Audio.Routes {
		route, err := api.ParseAudioRoute(name)
		if err != nil {
			return audio.Options{}, fmt.Errorf("audio.routes: %w", err)
		}
		opts.Profiles[route] = audio.RouteProfile{
			VolumeOffset: p.VolumeOffset,
			RespectMute:  p.RespectMute,
		}
	}
	return opts, nil
}

// applySettings pushes the startup settings into a stopped engine
func applySettings(m api.Metronome, s config.Settings) error {
	m.SetTempo(s.Tempo)
	m.SetVolume(s.Volume)
	if err := m.SetSound(s.Sound); err != nil {
		return err
	}
	if err := m.SetAccentPattern(s.Accent); err != nil {
		return err
	}
	if err := m.SetDrumPattern(s.Drum); err != nil {
		return err
	}
	return m.SetPlaybackMode(s.Mode)
}

func runHeadless(ctx context.Context, engine *metronome.Engine, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine.Play()
	state := engine.GetState()
	logger.Info("metronome running",
		"tempo", state.Tempo,
		"mode", state.Mode.String(),
		"sound", state.Sound.String(),
		"route", state.Route.String())

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
