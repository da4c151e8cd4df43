package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/jscyril/golang_metronome/api"
	metroerrors "github.com/jscyril/golang_metronome/pkg/errors"
)

// Ensure Backend implements AudioBackend interface at compile time
var _ api.AudioBackend = (*Backend)(nil)

// RouteProfile shapes how a route sounds
type RouteProfile struct {
	// VolumeOffset is applied with effects.Volume at base 2: -1 halves
	// the amplitude, 0 leaves it alone.
	VolumeOffset float64
	// RespectMute silences the route while Options.Muted is set
	RespectMute bool
}

// Options configures the backends created by NewFactory
type Options struct {
	SampleRate beep.SampleRate
	BufferSize time.Duration
	SoundsDir  string // optional directory of <sound>.wav|.mp3|.flac overrides
	Muted      bool   // state of the system mute switch
	Profiles   map[api.AudioRoute]RouteProfile
	Output     Output // nil plays through the system speaker
	Logger     *slog.Logger
}

// DefaultProfiles returns the media and notification route profiles
func DefaultProfiles() map[api.AudioRoute]RouteProfile {
	return map[api.AudioRoute]RouteProfile{
		api.RouteMedia:        {VolumeOffset: 0, RespectMute: false},
		api.RouteNotification: {VolumeOffset: -1, RespectMute: true},
	}
}

// DefaultOptions returns 44.1kHz output with a 50ms buffer
func DefaultOptions() Options {
	return Options{
		SampleRate: beep.SampleRate(44100),
		BufferSize: 50 * time.Millisecond,
		Profiles:   DefaultProfiles(),
	}
}

// Backend plays metronome sounds on one route
type Backend struct {
	route   api.AudioRoute
	profile RouteProfile
	opts    Options
	out     Output
	log     *slog.Logger

	mu         sync.Mutex
	buffers    map[api.SoundHandle]*beep.Buffer
	bySound    map[api.Sound]api.SoundHandle
	nextHandle api.SoundHandle
	nextStream api.StreamID
	released   bool
}

// NewFactory returns a BackendFactory creating Backends with opts
func NewFactory(opts Options) api.BackendFactory {
	return func(route api.AudioRoute) (api.AudioBackend, error) {
		return NewBackend(route, opts)
	}
}

// NewBackend opens the output for route
func NewBackend(route api.AudioRoute, opts Options) (*Backend, error) {
	defaults := DefaultOptions()
	if opts.SampleRate <= 0 {
		opts.SampleRate = defaults.SampleRate
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaults.BufferSize
	}
	if opts.Profiles == nil {
		opts.Profiles = defaults.Profiles
	}
	if opts.Output == nil {
		opts.Output = speakerOutput{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	profile, ok := opts.Profiles[route]
	if !ok {
		return nil, fmt.Errorf("%w: no profile for %s", metroerrors.ErrUnknownRoute, route)
	}

	if err := opts.Output.Init(opts.SampleRate, opts.SampleRate.N(opts.BufferSize)); err != nil {
		return nil, metroerrors.NewEngineError("init output", "", err)
	}

	opts.Logger.Debug("audio backend ready",
		"route", route.String(),
		"sample_rate", int(opts.SampleRate),
		"buffer", opts.BufferSize)

	return &Backend{
		route:   route,
		profile: profile,
		opts:    opts,
		out:     opts.Output,
		log:     opts.Logger,
		buffers: make(map[api.SoundHandle]*beep.Buffer),
		bySound: make(map[api.Sound]api.SoundHandle),
	}, nil
}

// Route returns the route the backend was created for
func (b *Backend) Route() api.AudioRoute {
	return b.route
}

// Load buffers sound, preferring a file from SoundsDir over the built-in
// synthesis. Loading a sound twice returns the same handle.
func (b *Backend) Load(sound api.Sound) (api.SoundHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return 0, metroerrors.ErrBackendReleased
	}
	if h, ok := b.bySound[sound]; ok {
		return h, nil
	}
	if !sound.Valid() {
		return 0, fmt.Errorf("%w: %s", metroerrors.ErrSoundNotAvailable, sound)
	}

	buf, err := b.loadBuffer(sound)
	if err != nil {
		return 0, err
	}

	b.nextHandle++
	h := b.nextHandle
	b.buffers[h] = buf
	b.bySound[sound] = h
	return h, nil
}

func (b *Backend) loadBuffer(sound api.Sound) (*beep.Buffer, error) {
	if path := FindSoundFile(b.opts.SoundsDir, sound); path != "" {
		buf, err := DecodeSound(path, b.opts.SampleRate)
		if err == nil {
			b.log.Debug("sound loaded from file", "sound", sound.String(), "path", path)
			return buf, nil
		}
		b.log.Warn("sound file unusable, using built-in", "sound", sound.String(), "error", err)
	}
	return Synthesize(sound, b.opts.SampleRate)
}

// Trigger plays a new instance of the sound behind handle
func (b *Backend) Trigger(handle api.SoundHandle, left, right float64) (api.StreamID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return 0, metroerrors.ErrBackendReleased
	}
	buf, ok := b.buffers[handle]
	if !ok {
		return 0, fmt.Errorf("%w: handle %d", metroerrors.ErrSoundNotAvailable, int(handle))
	}

	gain := &channelGain{Streamer: buf.Streamer(0, buf.Len()), Left: left, Right: right}
	b.out.Play(&effects.Volume{
		Streamer: gain,
		Base:     2,
		Volume:   b.profile.VolumeOffset,
		Silent:   b.profile.RespectMute && b.opts.Muted,
	})

	b.nextStream++
	return b.nextStream, nil
}

// Release stops every playing sound and closes the output. Further calls
// do nothing.
func (b *Backend) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return nil
	}
	b.released = true
	b.out.Clear()
	b.out.Close()
	b.buffers = make(map[api.SoundHandle]*beep.Buffer)
	b.bySound = make(map[api.Sound]api.SoundHandle)

	b.log.Debug("audio backend released", "route", b.route.String())
	return nil
}
