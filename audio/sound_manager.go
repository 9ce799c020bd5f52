package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/clicky/core"
	"github.com/lixenwraith/clicky/status"
)

// cueBacklog bounds queued cues; extra cues are dropped, never waited on
const cueBacklog = 16

// SoundManager plays game cues through the speaker
// Play never blocks and never reports failure: a missing audio device, a
// full backlog or a disabled player all silently drop the cue
type SoundManager struct {
	mu          sync.Mutex
	cfg         Config
	mixer       *beep.Mixer
	cues        chan core.SoundType
	stop        chan struct{}
	wg          sync.WaitGroup
	initialized bool
	enabled     atomic.Bool

	statPlayed  *atomic.Int64
	statDropped *atomic.Int64
}

// NewSoundManager creates a manager; call Initialize to open the device
func NewSoundManager(cfg Config, reg *status.Registry) *SoundManager {
	if reg == nil {
		reg = status.NewRegistry()
	}
	sm := &SoundManager{
		cfg:         cfg,
		mixer:       &beep.Mixer{},
		cues:        make(chan core.SoundType, cueBacklog),
		stop:        make(chan struct{}),
		statPlayed:  reg.Ints.Get("audio.played"),
		statDropped: reg.Ints.Get("audio.dropped"),
	}
	sm.enabled.Store(cfg.Enabled)
	return sm
}

// Initialize opens the speaker and starts the cue worker
// Safe to call twice; a failure leaves the manager silent
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)

	sm.initialized = true
	sm.wg.Add(1)
	core.Go(sm.worker)
	return nil
}

// Play queues a cue
func (sm *SoundManager) Play(s core.SoundType) {
	if !sm.enabled.Load() {
		return
	}
	select {
	case sm.cues <- s:
	default:
		sm.statDropped.Add(1)
	}
}

// SetEnabled mutes or unmutes
func (sm *SoundManager) SetEnabled(on bool) {
	sm.enabled.Store(on)
}

// Enabled reports whether cues are played
func (sm *SoundManager) Enabled() bool {
	return sm.enabled.Load()
}

// worker turns queued cues into streamers on the mixer
func (sm *SoundManager) worker() {
	defer sm.wg.Done()
	for {
		select {
		case <-sm.stop:
			return
		case s := <-sm.cues:
			name := s.String()
			st := CueStreamer(s, sm.cfg.MasterVolume*sm.cfg.cueVolume(name), SampleRate)
			if st == nil {
				sm.statDropped.Add(1)
				continue
			}
			speaker.Lock()
			sm.mixer.Add(st)
			speaker.Unlock()
			sm.statPlayed.Add(1)
		}
	}
}

// Cleanup stops the worker and clears the mixer
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	close(sm.stop)
	sm.wg.Wait()

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()

	// beep's speaker cannot be reopened reliably within one process
	sm.initialized = false
}
