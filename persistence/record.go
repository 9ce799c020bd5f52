package persistence

import (
	"encoding/json"
	"time"

	"github.com/lixenwraith/clicky/game"
)

// RecordVersion is written into every record
// Version 1 files (no version field, no base_cps) are still readable
const RecordVersion = 2

// EpochMillis is a Unix timestamp in milliseconds
// Decoding accepts fractional values written by older saves
type EpochMillis int64

// UnmarshalJSON accepts integer or fractional milliseconds
func (m *EpochMillis) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*m = EpochMillis(int64(f))
	return nil
}

// Time converts to a UTC time; zero maps to the zero time
func (m EpochMillis) Time() time.Time {
	if m <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(m)).UTC()
}

func toMillis(t time.Time) EpochMillis {
	if t.IsZero() {
		return 0
	}
	return EpochMillis(t.UnixMilli())
}

// EffectSpec is the persisted effect parameters
type EffectSpec struct {
	CPSIncrease int64   `json:"cps_increase" jsonschema:"description=Accrual rate added while active"`
	Duration    float64 `json:"duration" jsonschema:"minimum=0,description=Full effect duration in seconds"`
}

// EffectRecord is one active timed effect
type EffectRecord struct {
	Effect    EffectSpec  `json:"effect"`
	ExpiresAt EpochMillis `json:"expires_at" jsonschema:"description=Absolute expiry as Unix milliseconds"`
	Source    string      `json:"source,omitempty" jsonschema:"description=Item key that created the effect"`
}

// Record is the durable document for one game
// Every field is optional on read; missing or malformed fields take defaults
type Record struct {
	Version int `json:"version" jsonschema:"description=Record format version"`

	Coins              int64 `json:"coins" jsonschema:"minimum=0"`
	CPS                int64 `json:"cps" jsonschema:"description=Informational; recomputed on load"`
	BaseCPS            int64 `json:"base_cps" jsonschema:"minimum=0,description=Rate from upgrades and permanent effects"`
	UpgradeCost        int64 `json:"upgrade_cost" jsonschema:"minimum=1"`
	UpgradeAmount      int64 `json:"upgrade_amount" jsonschema:"minimum=1"`
	MegaUpgradeCost    int64 `json:"mega_upgrade_cost" jsonschema:"minimum=1"`
	MegaUpgradeAmount  int64 `json:"mega_upgrade_amount" jsonschema:"minimum=1"`
	UpgradesBought     int   `json:"upgrades_bought,omitempty"`
	MegaUpgradesBought int   `json:"mega_upgrades_bought,omitempty"`

	LastUpdateTime EpochMillis `json:"last_update_time" jsonschema:"description=Last accrual instant as Unix milliseconds"`

	Inventory     map[string]map[string]int `json:"inventory" jsonschema:"description=Category to item to quantity"`
	ActiveEffects []EffectRecord            `json:"active_effects"`

	PlayerHP         int64       `json:"player_hp"`
	EnemyHP          int64       `json:"enemy_hp"`
	InCombat         bool        `json:"in_combat"`
	CombatStartTime  EpochMillis `json:"combat_start_time"`
	LastCombatUpdate EpochMillis `json:"last_combat_update"`
	Victories        int         `json:"victories,omitempty"`
	Defeats          int         `json:"defeats,omitempty"`
}

// Encode captures s as a record; the transient message is not persisted
func Encode(s *game.State) Record {
	rec := Record{
		Version:            RecordVersion,
		Coins:              s.Economy.Balance,
		CPS:                s.Economy.Rate,
		BaseCPS:            s.Economy.BaseRate,
		UpgradeCost:        s.Economy.UpgradeCost,
		UpgradeAmount:      s.Economy.UpgradeRateGain,
		MegaUpgradeCost:    s.Economy.MegaUpgradeCost,
		MegaUpgradeAmount:  s.Economy.MegaUpgradeRateGain,
		UpgradesBought:     s.Economy.UpgradesBought,
		MegaUpgradesBought: s.Economy.MegaUpgradesBought,
		LastUpdateTime:     toMillis(s.LastAccrualAt),
		Inventory:          make(map[string]map[string]int, len(s.Inventory)),
		ActiveEffects:      []EffectRecord{},
		PlayerHP:           s.Combat.PlayerHP,
		EnemyHP:            s.Combat.EnemyHP,
		InCombat:           s.Combat.InCombat,
		CombatStartTime:    toMillis(s.Combat.StartedAt),
		LastCombatUpdate:   toMillis(s.Combat.LastTickAt),
		Victories:          s.Combat.Victories,
		Defeats:            s.Combat.Defeats,
	}
	for cat, items := range s.Inventory {
		m := make(map[string]int, len(items))
		for k, v := range items {
			m[k] = v
		}
		rec.Inventory[string(cat)] = m
	}
	for _, e := range s.Effects.List() {
		rec.ActiveEffects = append(rec.ActiveEffects, EffectRecord{
			Effect: EffectSpec{
				CPSIncrease: e.RateDelta,
				Duration:    e.Duration.Seconds(),
			},
			ExpiresAt: toMillis(e.ExpiresAt),
			Source:    e.Source,
		})
	}
	return rec
}
