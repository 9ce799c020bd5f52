// Package config loads game tuning and runtime settings
//
// Precedence, lowest first: Default, TOML file, CLICKY_* environment, command-line flags
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/clicky/game"
)

// Save backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Environment variables
const (
	EnvSavePath        = "CLICKY_SAVE_PATH"
	EnvSaveBackend     = "CLICKY_SAVE_BACKEND"
	EnvAudioEnabled    = "CLICKY_AUDIO_ENABLED"
	EnvMasterVolume    = "CLICKY_MASTER_VOLUME"
	EnvAutosaveSeconds = "CLICKY_AUTOSAVE_SECONDS"
)

// Config is the complete file layout
type Config struct {
	Economy EconomyConfig `toml:"economy"`
	Combat  CombatConfig  `toml:"combat"`
	Shop    []ItemConfig  `toml:"shop"`
	Save    SaveConfig    `toml:"save"`
	Audio   AudioConfig   `toml:"audio"`
	Engine  EngineConfig  `toml:"engine"`
}

// EconomyConfig tunes currency and upgrades
type EconomyConfig struct {
	ClickValue        int64   `toml:"click_value"`
	UpgradeCost       int64   `toml:"upgrade_cost"`
	UpgradeAmount     int64   `toml:"upgrade_amount"`
	UpgradeCostGrowth float64 `toml:"upgrade_cost_growth"`
	MegaUpgradeCost   int64   `toml:"mega_upgrade_cost"`
	MegaUpgradeAmount int64   `toml:"mega_upgrade_amount"`
	MegaCostGrowth    float64 `toml:"mega_cost_growth"`
}

// CombatConfig describes the single enemy
type CombatConfig struct {
	EnemyName    string `toml:"enemy_name"`
	DropItem     string `toml:"drop_item"`
	PlayerMaxHP  int64  `toml:"player_max_hp"`
	EnemyMaxHP   int64  `toml:"enemy_max_hp"`
	PlayerDamage int64  `toml:"player_damage"`
	EnemyDamage  int64  `toml:"enemy_damage"`
	RoundMS      int    `toml:"round_ms"`
}

// ItemConfig is one [[shop]] entry
type ItemConfig struct {
	Key      string `toml:"key"`
	Name     string `toml:"name"`
	Cost     int64  `toml:"cost"`
	Category string `toml:"category"`
	// Kind is booster, heal, revive or drop
	Kind            string `toml:"kind"`
	CPSIncrease     int64  `toml:"cps_increase"`
	DurationSeconds int    `toml:"duration_seconds"`
	Amount          int64  `toml:"amount"`
}

// SaveConfig selects the persistence backend
type SaveConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	// Slot names the row in the sqlite backend
	Slot string `toml:"slot"`
}

// AudioConfig controls sound cues
type AudioConfig struct {
	Enabled bool `toml:"enabled"`
	// MasterVolume is 0-100
	MasterVolume int `toml:"master_volume"`
}

// EngineConfig controls the loop
type EngineConfig struct {
	TickMS          int  `toml:"tick_ms"`
	MessageMS       int  `toml:"message_ms"`
	AutosaveSeconds int  `toml:"autosave_seconds"`
	OfflineAccrual  bool `toml:"offline_accrual"`
}

// Default returns the stock game
func Default() Config {
	r := game.DefaultRules()
	cfg := Config{
		Economy: EconomyConfig{
			ClickValue:        r.ClickValue,
			UpgradeCost:       r.UpgradeCost,
			UpgradeAmount:     r.UpgradeRateGain,
			UpgradeCostGrowth: r.UpgradeCostGrowth,
			MegaUpgradeCost:   r.MegaUpgradeCost,
			MegaUpgradeAmount: r.MegaUpgradeRateGain,
			MegaCostGrowth:    r.MegaCostGrowth,
		},
		Combat: CombatConfig{
			EnemyName:    r.Combat.EnemyName,
			DropItem:     r.Combat.DropKey,
			PlayerMaxHP:  r.Combat.PlayerMaxHP,
			EnemyMaxHP:   r.Combat.EnemyMaxHP,
			PlayerDamage: r.Combat.PlayerDamage,
			EnemyDamage:  r.Combat.EnemyDamage,
			RoundMS:      int(r.Combat.Round / time.Millisecond),
		},
		Save: SaveConfig{
			Backend: BackendFile,
			Path:    "savegame.json",
			Slot:    "default",
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 50,
		},
		Engine: EngineConfig{
			TickMS:          16,
			MessageMS:       2000,
			AutosaveSeconds: 60,
			OfflineAccrual:  true,
		},
	}
	for _, it := range game.DefaultItems() {
		cfg.Shop = append(cfg.Shop, fromItem(it))
	}
	return cfg
}

func fromItem(it game.Item) ItemConfig {
	return ItemConfig{
		Key:             it.Key,
		Name:            it.Name,
		Cost:            it.Cost,
		Category:        string(it.Category),
		Kind:            it.Kind.String(),
		CPSIncrease:     it.Effect.RateDelta,
		DurationSeconds: int(it.Effect.Duration / time.Second),
		Amount:          it.Amount,
	}
}

// Load overlays the TOML file at path onto Default
// An empty path returns Default; unknown keys are an error
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	// A [[shop]] table replaces the stock items instead of appending to them
	var probe struct {
		Shop []ItemConfig `toml:"shop"`
	}
	if _, err := toml.DecodeFile(path, &probe); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if len(probe.Shop) > 0 {
		cfg.Shop = nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ApplyEnv overrides fields from CLICKY_* variables; unparseable values are ignored
// lookup is os.LookupEnv outside tests
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvSavePath); ok && v != "" {
		c.Save.Path = v
	}
	if v, ok := lookup(EnvSaveBackend); ok && v != "" {
		c.Save.Backend = strings.ToLower(v)
	}
	if v, ok := lookup(EnvAudioEnabled); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Audio.Enabled = b
		}
	}
	if v, ok := lookup(EnvMasterVolume); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Audio.MasterVolume = min(max(n, 0), 100)
		}
	}
	if v, ok := lookup(EnvAutosaveSeconds); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Engine.AutosaveSeconds = n
		}
	}
}

// Validate checks everything the engine depends on
func (c Config) Validate() error {
	var errs []error
	if err := c.Rules().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Catalog(); err != nil {
		errs = append(errs, err)
	}
	switch c.Save.Backend {
	case BackendFile, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("save: unknown backend %q", c.Save.Backend))
	}
	if c.Save.Path == "" {
		errs = append(errs, errors.New("save: path is empty"))
	}
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 100 {
		errs = append(errs, fmt.Errorf("audio: master volume %d outside 0-100", c.Audio.MasterVolume))
	}
	if c.Engine.TickMS <= 0 {
		errs = append(errs, fmt.Errorf("engine: tick_ms must be positive"))
	}
	if c.Engine.MessageMS <= 0 {
		errs = append(errs, fmt.Errorf("engine: message_ms must be positive"))
	}
	if c.Engine.AutosaveSeconds < 0 {
		errs = append(errs, fmt.Errorf("engine: autosave_seconds cannot be negative"))
	}
	return errors.Join(errs...)
}

// Rules converts the economy and combat sections
func (c Config) Rules() game.Rules {
	e, cb := c.Economy, c.Combat
	return game.Rules{
		ClickValue:          e.ClickValue,
		UpgradeCost:         e.UpgradeCost,
		UpgradeRateGain:     e.UpgradeAmount,
		UpgradeCostGrowth:   e.UpgradeCostGrowth,
		MegaUpgradeCost:     e.MegaUpgradeCost,
		MegaUpgradeRateGain: e.MegaUpgradeAmount,
		MegaCostGrowth:      e.MegaCostGrowth,
		Combat: game.CombatRules{
			EnemyName:    cb.EnemyName,
			DropKey:      cb.DropItem,
			PlayerMaxHP:  cb.PlayerMaxHP,
			EnemyMaxHP:   cb.EnemyMaxHP,
			PlayerDamage: cb.PlayerDamage,
			EnemyDamage:  cb.EnemyDamage,
			Round:        time.Duration(cb.RoundMS) * time.Millisecond,
		},
	}
}

// Catalog builds the item table; the enemy drop is added when the shop omits it
func (c Config) Catalog() (*game.Catalog, error) {
	items := make([]game.Item, 0, len(c.Shop)+1)
	hasDrop := false
	for i, ic := range c.Shop {
		kind, err := game.ParseItemKind(ic.Kind)
		if err != nil {
			return nil, fmt.Errorf("shop[%d] %q: %w", i, ic.Key, err)
		}
		if ic.DurationSeconds < 0 {
			return nil, fmt.Errorf("shop[%d] %q: duration_seconds cannot be negative", i, ic.Key)
		}
		if ic.Key == c.Combat.DropItem {
			hasDrop = true
		}
		items = append(items, game.Item{
			Key:      ic.Key,
			Name:     ic.Name,
			Cost:     ic.Cost,
			Category: game.Category(ic.Category),
			Kind:     kind,
			Effect: game.Effect{
				RateDelta: ic.CPSIncrease,
				Duration:  time.Duration(ic.DurationSeconds) * time.Second,
			},
			Amount: ic.Amount,
		})
	}
	if !hasDrop && c.Combat.DropItem != "" {
		items = append(items, game.Item{
			Key:      c.Combat.DropItem,
			Name:     c.Combat.DropItem,
			Category: game.CategoryEnemyDrops,
			Kind:     game.KindDrop,
		})
	}
	return game.NewCatalog(items...)
}

// TickInterval is the scheduler period
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Engine.TickMS) * time.Millisecond
}

// MessageDuration is how long feedback stays on screen
func (c Config) MessageDuration() time.Duration {
	return time.Duration(c.Engine.MessageMS) * time.Millisecond
}

// AutosaveInterval is the autosave period; negative disables autosave
func (c Config) AutosaveInterval() time.Duration {
	if c.Engine.AutosaveSeconds == 0 {
		return -1
	}
	return time.Duration(c.Engine.AutosaveSeconds) * time.Second
}

// MasterVolume is the audio gain in 0..1
func (c Config) MasterVolume() float64 {
	return float64(c.Audio.MasterVolume) / 100
}

// Write encodes c as TOML
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
