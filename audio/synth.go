// Package audio adds typewriter sound to a reveal: a soft tick per
// printed character and a two-note chime when the continue cue appears.
// Everything is synthesized; there are no sample assets.
package audio

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a finite streamer of the given wave shape.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, false
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope shapes s with a linear attack and release.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}

		var vol float64 = 1.0

		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			remaining := e.totalSamples - e.position
			vol = float64(remaining) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a streamer. math.Log2(0) is -Inf, so zero volume is
// mapped to the Silent flag instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// newTick builds the per-character tick: a very short high square blip.
func newTick(master float64) beep.Streamer {
	osc := NewOscillator(1900.0, 22*time.Millisecond, WaveSquare, sampleRate)
	shaped := NewEnvelope(osc, 22*time.Millisecond, 2*time.Millisecond, 14*time.Millisecond, sampleRate)
	return newVolume(shaped, 0.18*master)
}

// newChime builds the continue-cue chime: two soft sine notes (B5, E6).
func newChime(master float64) beep.Streamer {
	n1 := NewOscillator(987.77, 90*time.Millisecond, WaveSine, sampleRate)
	n1Shaped := NewEnvelope(n1, 90*time.Millisecond, 8*time.Millisecond, 40*time.Millisecond, sampleRate)

	n2 := NewOscillator(1318.51, 160*time.Millisecond, WaveSine, sampleRate)
	n2Shaped := NewEnvelope(n2, 160*time.Millisecond, 8*time.Millisecond, 110*time.Millisecond, sampleRate)

	return newVolume(beep.Seq(n1Shaped, n2Shaped), 0.35*master)
}

// Synth owns the speaker and a mixer the one-shot sounds are added to.
// A Synth that was never initialized, or whose initialization failed, is
// fully functional as a silent no-op.
type Synth struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	master      float64
}

// NewSynth creates a silent synth. Call Initialize to open the speaker.
func NewSynth() *Synth {
	return &Synth{
		mixer:  &beep.Mixer{},
		master: 1.0,
	}
}

// Initialize opens the speaker and starts the mixer. Idempotent; on error
// the synth stays silent and remains safe to use.
func (s *Synth) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// SetVolume sets the master volume, clamped to [0, 1].
func (s *Synth) SetVolume(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.master = math.Min(math.Max(v, 0), 1)
}

// Click plays the per-character tick.
func (s *Synth) Click() {
	s.play(newTick)
}

// Chime plays the continue-cue chime.
func (s *Synth) Chime() {
	s.play(newChime)
}

func (s *Synth) play(build func(master float64) beep.Streamer) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return
	}
	st := build(s.master)
	s.mu.Unlock()

	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Cleanup silences the mixer. The speaker itself stays open; beep keeps it
// process-wide.
func (s *Synth) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}
