package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/jscyril/golang_metronome/api"
	metroerrors "github.com/jscyril/golang_metronome/pkg/errors"
)

// voice is a built-in timbre: a per-sample function of time since onset
type voice struct {
	length time.Duration
	sample func(t float64, seed *uint64) float64
}

var voices = map[api.Sound]voice{
	api.SoundClassic: {50 * time.Millisecond, click},
	api.SoundSnare:   {200 * time.Millisecond, snare},
	api.SoundKnock:   {120 * time.Millisecond, knock},
	api.SoundTR707:   {180 * time.Millisecond, kick707},
	api.SoundTR808:   {500 * time.Millisecond, kick808},
	api.SoundTR909:   {250 * time.Millisecond, kick909},
}

// Synthesize renders a built-in sound into a buffer at sampleRate
func Synthesize(sound api.Sound, sampleRate beep.SampleRate) (*beep.Buffer, error) {
	v, ok := voices[sound]
	if !ok {
		return nil, fmt.Errorf("%w: no built-in %s", metroerrors.ErrSoundNotAvailable, sound)
	}

	total := sampleRate.N(v.length)
	seed := uint64(sound) + 1
	pos := 0
	gen := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for n < len(samples) && pos < total {
			t := float64(pos) / float64(sampleRate)
			s := v.sample(t, &seed) * fadeOut(pos, total)
			samples[n][0], samples[n][1] = s, s
			n++
			pos++
		}
		return n, true
	})

	buf := beep.NewBuffer(bufferFormat(sampleRate))
	buf.Append(gen)
	return buf, nil
}

// fadeOut ramps the last 5% to zero so buffers end without a click
func fadeOut(pos, total int) float64 {
	tail := total / 20
	if tail == 0 || pos < total-tail {
		return 1
	}
	return float64(total-pos) / float64(tail)
}

func click(t float64, _ *uint64) float64 {
	env := math.Exp(-t * 90)
	tone := math.Sin(2*math.Pi*1500*t)*0.7 + math.Sin(2*math.Pi*3000*t)*0.2
	return softSat(tone * env)
}

func snare(t float64, seed *uint64) float64 {
	env := math.Exp(-t * 26.0)
	body := (math.Sin(2*math.Pi*188*t)*0.24 + math.Sin(2*math.Pi*356*t)*0.10) * env
	noise := (lcg(seed) - lcg(seed)*0.55) * env * (0.55 + 0.25*math.Exp(-t*8.0))
	snap := math.Sin(2*math.Pi*2800*t) * math.Exp(-t*120.0) * 0.10
	return softSat(body + noise + snap)
}

func knock(t float64, _ *uint64) float64 {
	low := math.Sin(2*math.Pi*820*t) * math.Exp(-t*45)
	high := math.Sin(2*math.Pi*1270*t) * math.Exp(-t*70) * 0.5
	return softSat((low + high) * 0.8)
}

// kick builds a pitch-swept sine kick. sweep sets how fast the pitch
// falls from start to end Hz, decay the amplitude envelope.
func kick(t, start, end, sweep, decay, clickGain float64) float64 {
	// Integral of end + (start-end)*e^(-sweep*t)
	phase := 2 * math.Pi * (end*t + (start-end)/sweep*(1-math.Exp(-t*sweep)))
	body := math.Sin(phase) * math.Exp(-t*decay)
	transient := math.Sin(2*math.Pi*2100*t) * math.Exp(-t*250) * clickGain
	return softSat(body*0.85 + transient)
}

func kick707(t float64, _ *uint64) float64 {
	return kick(t, 240, 90, 35, 22, 0.30)
}

func kick808(t float64, _ *uint64) float64 {
	return kick(t, 150, 50, 18, 6, 0.10)
}

func kick909(t float64, seed *uint64) float64 {
	noise := lcg(seed) * math.Exp(-t*180) * 0.15
	return softSat(kick(t, 320, 60, 40, 14, 0.35) + noise)
}

func softSat(x float64) float64 {
	return math.Tanh(x)
}

// lcg is a tiny deterministic noise source in [-1, 1)
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(*seed>>11)/float64(1<<53)*2 - 1
}
