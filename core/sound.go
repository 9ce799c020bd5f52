package core

// SoundType identifies a feedback cue
type SoundType int

const (
	SoundClick    SoundType = iota // Manual collect
	SoundPurchase                  // Upgrade or shop purchase
	SoundUseItem                   // Item consumed
	SoundExpire                    // Timed effect ran out
	SoundHit                       // Combat exchange
	SoundVictory                   // Enemy defeated
	SoundDefeat                    // Player defeated
	SoundError                     // Rejected action
	SoundTypeCount
)

var soundNames = [...]string{"click", "purchase", "use_item", "expire", "hit", "victory", "defeat", "error"}

func (s SoundType) String() string {
	if s >= 0 && int(s) < len(soundNames) {
		return soundNames[s]
	}
	return "unknown"
}

// ParseSoundType maps a cue name back to its type
func ParseSoundType(name string) (SoundType, bool) {
	for i, n := range soundNames {
		if n == name {
			return SoundType(i), true
		}
	}
	return 0, false
}

// SoundPlayer receives fire-and-forget cues; implementations must never block or fail loudly
type SoundPlayer interface {
	Play(SoundType)
}

// NopSound discards every cue
type NopSound struct{}

func (NopSound) Play(SoundType) {}
