package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/clicky/core"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a finite oscillator
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
			return i, i > 0
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
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream of known length
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s, which must last at least duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if e.position >= e.totalSamples {
		return 0, false
	}
	if left := e.totalSamples - e.position; len(samples) > left {
		samples = samples[:left]
	}

	n, ok = e.streamer.Stream(samples)
	releaseStart := e.totalSamples - e.releaseSamples

	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.releaseSamples > 0 && e.position >= releaseStart {
			vol = math.Min(vol, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s by linear gain vol
// math.Log2(0) is -Inf, so zero volume is made silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// note is one shaped tone
func note(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, 5*time.Millisecond, d/2, rate)
}

// pause is silence of length d
func pause(d time.Duration, rate beep.SampleRate) beep.Streamer {
	return beep.Silence(rate.N(d))
}

// clickSound is a short pure tick
func clickSound(rate beep.SampleRate) beep.Streamer {
	d := 35 * time.Millisecond
	tone, err := generators.SineTone(rate, 1320)
	if err != nil {
		return note(1320, d, WaveSine, rate)
	}
	return NewEnvelope(beep.Take(rate.N(d), tone), d, 2*time.Millisecond, 25*time.Millisecond, rate)
}

// CueStreamer builds the finite streamer for a cue at linear gain vol
// Returns nil for unknown cues
func CueStreamer(s core.SoundType, vol float64, rate beep.SampleRate) beep.Streamer {
	var st beep.Streamer
	switch s {
	case core.SoundClick:
		st = clickSound(rate)
	case core.SoundPurchase:
		// Rising two-note chime
		st = beep.Seq(
			note(987.77, 70*time.Millisecond, WaveSquare, rate),
			note(1318.51, 120*time.Millisecond, WaveSquare, rate),
		)
	case core.SoundUseItem:
		st = beep.Mix(
			newVolume(note(660, 150*time.Millisecond, WaveSine, rate), 0.7),
			newVolume(note(1320, 150*time.Millisecond, WaveSine, rate), 0.3),
		)
	case core.SoundExpire:
		// Falling pair
		st = beep.Seq(
			note(440, 90*time.Millisecond, WaveSine, rate),
			note(330, 140*time.Millisecond, WaveSine, rate),
		)
	case core.SoundHit:
		st = NewEnvelope(NewOscillator(0, 80*time.Millisecond, WaveNoise, rate),
			80*time.Millisecond, 2*time.Millisecond, 60*time.Millisecond, rate)
	case core.SoundVictory:
		st = beep.Seq(
			note(523.25, 90*time.Millisecond, WaveSquare, rate),
			note(659.25, 90*time.Millisecond, WaveSquare, rate),
			note(783.99, 90*time.Millisecond, WaveSquare, rate),
			pause(30*time.Millisecond, rate),
			note(1046.5, 220*time.Millisecond, WaveSquare, rate),
		)
	case core.SoundDefeat:
		st = beep.Seq(
			note(392, 160*time.Millisecond, WaveSaw, rate),
			note(311.13, 160*time.Millisecond, WaveSaw, rate),
			note(233.08, 320*time.Millisecond, WaveSaw, rate),
		)
	case core.SoundError:
		d := 150 * time.Millisecond
		st = NewEnvelope(NewOscillator(100, d, WaveSaw, rate), d, 5*time.Millisecond, 50*time.Millisecond, rate)
	default:
		return nil
	}
	return newVolume(st, vol)
}
