package audio

import "github.com/gopxl/beep"

// SampleRate is the speaker and cue rate
const SampleRate = beep.SampleRate(44100)

// Config controls the cue player
type Config struct {
	Enabled bool
	// MasterVolume is linear gain in 0..1
	MasterVolume float64
	// CueVolumes scales individual cues; missing entries play at 1
	CueVolumes map[string]float64
}

// DefaultConfig returns audio on at half volume
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		MasterVolume: 0.5,
		CueVolumes: map[string]float64{
			"click":  0.4,
			"hit":    0.6,
			"error":  0.8,
			"expire": 0.7,
		},
	}
}

func (c Config) cueVolume(name string) float64 {
	if v, ok := c.CueVolumes[name]; ok {
		return v
	}
	return 1
}
