package game

import (
	"fmt"
	"time"
)

// Rules are the tunable constants of a game, fixed for its lifetime
type Rules struct {
	ClickValue int64

	UpgradeCost       int64
	UpgradeRateGain   int64
	UpgradeCostGrowth float64

	MegaUpgradeCost     int64
	MegaUpgradeRateGain int64
	// MegaCostGrowth of 1 keeps the mega price static
	MegaCostGrowth float64

	Combat CombatRules
}

// CombatRules parameterize the single enemy encounter
type CombatRules struct {
	EnemyName    string
	DropKey      string
	PlayerMaxHP  int64
	EnemyMaxHP   int64
	PlayerDamage int64
	EnemyDamage  int64
	Round        time.Duration
}

// DefaultRules returns the stock balance
func DefaultRules() Rules {
	return Rules{
		ClickValue:          1,
		UpgradeCost:         10,
		UpgradeRateGain:     1,
		UpgradeCostGrowth:   1.5,
		MegaUpgradeCost:     200,
		MegaUpgradeRateGain: 10,
		MegaCostGrowth:      1,
		Combat: CombatRules{
			EnemyName:    "Blue Slime",
			DropKey:      "Blue Slime Chunk",
			PlayerMaxHP:  100,
			EnemyMaxHP:   10,
			PlayerDamage: 1,
			EnemyDamage:  1,
			Round:        time.Second,
		},
	}
}

// Validate rejects rules the engine cannot run with
func (r Rules) Validate() error {
	switch {
	case r.ClickValue <= 0:
		return fmt.Errorf("rules: click value must be positive")
	case r.UpgradeCost <= 0 || r.UpgradeRateGain <= 0:
		return fmt.Errorf("rules: upgrade cost and gain must be positive")
	case r.MegaUpgradeCost <= 0 || r.MegaUpgradeRateGain <= 0:
		return fmt.Errorf("rules: mega upgrade cost and gain must be positive")
	case r.UpgradeCostGrowth < 1 || r.MegaCostGrowth < 1:
		return fmt.Errorf("rules: cost growth must be at least 1")
	case r.Combat.PlayerMaxHP <= 0 || r.Combat.EnemyMaxHP <= 0:
		return fmt.Errorf("rules: max HP must be positive")
	case r.Combat.PlayerDamage < 0 || r.Combat.EnemyDamage < 0:
		return fmt.Errorf("rules: damage cannot be negative")
	case r.Combat.Round <= 0:
		return fmt.Errorf("rules: combat round must be positive")
	}
	return nil
}

// EconomyState holds currency and accrual
type EconomyState struct {
	Balance int64
	// Rate is BaseRate plus every active timed effect
	Rate int64
	// BaseRate is what upgrades and permanent items contribute
	BaseRate int64

	UpgradeCost         int64
	UpgradeRateGain     int64
	MegaUpgradeCost     int64
	MegaUpgradeRateGain int64

	UpgradesBought     int
	MegaUpgradesBought int
}

// CombatState is the encounter in progress, if any
type CombatState struct {
	PlayerHP   int64
	EnemyHP    int64
	InCombat   bool
	StartedAt  time.Time
	LastTickAt time.Time

	Victories int
	Defeats   int
}

// Message is transient feedback for presentation
type Message struct {
	Text      string
	ExpiresAt time.Time
}

// State is the aggregate root and the unit of persistence
type State struct {
	Economy       EconomyState
	Effects       EffectLedger
	Inventory     Inventory
	Combat        CombatState
	LastAccrualAt time.Time

	Message Message
}

// NewState builds a fresh game at now
func NewState(r Rules, c *Catalog, now time.Time) *State {
	return &State{
		Economy: EconomyState{
			UpgradeCost:         r.UpgradeCost,
			UpgradeRateGain:     r.UpgradeRateGain,
			MegaUpgradeCost:     r.MegaUpgradeCost,
			MegaUpgradeRateGain: r.MegaUpgradeRateGain,
		},
		Inventory: NewInventory(c),
		Combat: CombatState{
			PlayerHP: r.Combat.PlayerMaxHP,
			EnemyHP:  r.Combat.EnemyMaxHP,
		},
		LastAccrualAt: now,
	}
}

// RecomputeRate derives Rate from BaseRate and the ledger
func (s *State) RecomputeRate() {
	s.Economy.Rate = s.Economy.BaseRate + s.Effects.Sum()
}

// CheckInvariants reports the first broken state invariant
func (s *State) CheckInvariants() error {
	if s.Economy.Balance < 0 {
		return fmt.Errorf("balance %d is negative", s.Economy.Balance)
	}
	if want := s.Economy.BaseRate + s.Effects.Sum(); s.Economy.Rate != want {
		return fmt.Errorf("rate %d, want base %d + effects %d", s.Economy.Rate, s.Economy.BaseRate, s.Effects.Sum())
	}
	for cat, items := range s.Inventory {
		for key, n := range items {
			if n < 0 {
				return fmt.Errorf("inventory %s/%s quantity %d is negative", cat, key, n)
			}
		}
	}
	return nil
}

// SetMessage shows text until now+d
func (s *State) SetMessage(text string, now time.Time, d time.Duration) {
	s.Message = Message{Text: text, ExpiresAt: now.Add(d)}
}

// ActiveMessage returns the message and its remaining display time
func (s *State) ActiveMessage(now time.Time) (string, time.Duration) {
	if s.Message.Text == "" || !now.Before(s.Message.ExpiresAt) {
		return "", 0
	}
	return s.Message.Text, s.Message.ExpiresAt.Sub(now)
}

// ExpireMessage clears the message once its time has passed
func (s *State) ExpireMessage(now time.Time) {
	if s.Message.Text != "" && !now.Before(s.Message.ExpiresAt) {
		s.Message = Message{}
	}
}

// Clone deep-copies the state
func (s *State) Clone() *State {
	out := *s
	out.Effects = s.Effects.Clone()
	out.Inventory = s.Inventory.Clone()
	return &out
}
