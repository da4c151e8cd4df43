package audio

import (
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Output is the device a Backend mixes into
type Output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Close()
}

// speakerOutput plays through the system speaker. The speaker is process
// global, so only one Backend may hold it at a time.
type speakerOutput struct{}

func (speakerOutput) Init(sampleRate beep.SampleRate, bufferSize int) error {
	return speaker.Init(sampleRate, bufferSize)
}

func (speakerOutput) Play(s beep.Streamer) {
	speaker.Play(s)
}

func (speakerOutput) Clear() {
	speaker.Clear()
}

func (speakerOutput) Close() {
	speaker.Close()
}

// channelGain scales the left and right channels independently
type channelGain struct {
	Streamer    beep.Streamer
	Left, Right float64
}

func (g *channelGain) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.Streamer.Stream(samples)
	for i := range samples[:n] {
		samples[i][0] *= g.Left
		samples[i][1] *= g.Right
	}
	return n, ok
}

func (g *channelGain) Err() error {
	return g.Streamer.Err()
}
