package beep

import (
	"math"
	"sync/atomic"
)

var disabled atomic.Bool

func Disable() { disabled.Store(true) }

func Disabled() bool { return disabled.Load() }

const sampleRate = 44100

// Cue identifies one of the feedback sounds.
type Cue int

const (
	Start Cue = iota
	Split
	Skip
	Undo
	Pause
	Resume
	Finish
	Reset
	Error
)

var cueNames = [...]string{"start", "split", "skip", "undo", "pause", "resume", "finish", "reset", "error"}

func (c Cue) String() string {
	if c < 0 || int(c) >= len(cueNames) {
		return "unknown"
	}
	return cueNames[c]
}

// tone is a decaying sine burst, repeated with silent gaps.
type tone struct {
	freq    float64
	dur     float64 // seconds per burst
	volume  float64
	decay   float64
	repeats int
	gap     float64 // seconds between bursts
}

var tones = map[Cue]tone{
	// high, snappy
	Start: {freq: 1200, dur: 0.2, volume: 0.5, decay: 60, repeats: 1},
	Split: {freq: 1000, dur: 0.2, volume: 0.5, decay: 60, repeats: 1},
	Skip:  {freq: 800, dur: 0.06, volume: 0.4, decay: 60, repeats: 2, gap: 0.03},
	Undo:  {freq: 650, dur: 0.2, volume: 0.45, decay: 50, repeats: 1},
	// lower, longer tail
	Pause:  {freq: 900, dur: 0.2, volume: 0.5, decay: 40, repeats: 1},
	Resume: {freq: 1100, dur: 0.2, volume: 0.5, decay: 40, repeats: 1},
	Finish: {freq: 1400, dur: 0.08, volume: 0.5, decay: 40, repeats: 3, gap: 0.04},
	// low double beep
	Reset: {freq: 500, dur: 0.08, volume: 0.6, decay: 30, repeats: 2, gap: 0.05},
	Error: {freq: 350, dur: 0.08, volume: 0.6, decay: 30, repeats: 2, gap: 0.05},
}

// synth renders t as interleaved int16 frames with the same sample on
// every channel.
func synth(t tone, rate, channels int) []int16 {
	burst := int(float64(rate) * t.dur)
	gap := int(float64(rate) * t.gap)
	repeats := max(t.repeats, 1)
	frames := repeats*burst + (repeats-1)*gap
	out := make([]int16, frames*channels)

	for r := 0; r < repeats; r++ {
		off := r * (burst + gap)
		for i := 0; i < burst; i++ {
			ts := float64(i) / float64(rate)
			envelope := math.Exp(-ts * t.decay)
			s := int16(math.Sin(2*math.Pi*t.freq*ts) * 32767 * t.volume * envelope)
			for c := 0; c < channels; c++ {
				out[(off+i)*channels+c] = s
			}
		}
	}
	return out
}

// Play sounds the cue without blocking. It does nothing once Disable has
// been called or when no audio output is available.
func Play(c Cue) {
	if disabled.Load() {
		return
	}
	t, ok := tones[c]
	if !ok {
		return
	}
	play(c, t)
}
