package metronome

import (
	"context"
	"math"
	"time"

	"github.com/jscyril/golang_metronome/api"
)

// ClampTempo limits bpm to the supported range
func ClampTempo(bpm int) int {
	return min(max(bpm, api.MinTempo), api.MaxTempo)
}

// VolumeFraction clamps a percentage and normalises it to 0.0 - 1.0
func VolumeFraction(percent int) float64 {
	return float64(min(max(percent, api.MinVolume), api.MaxVolume)) / 100
}

// BeatInterval returns the time between beats at bpm, rounded to the
// nearest millisecond.
func BeatInterval(bpm int) time.Duration {
	if bpm <= 0 {
		bpm = api.MinTempo
	}
	ms := math.Round(60000 / float64(bpm))
	return time.Duration(ms) * time.Millisecond
}

// Clock suspends the beat loop between beats
type Clock interface {
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in
	// the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
