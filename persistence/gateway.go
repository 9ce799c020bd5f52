package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/lixenwraith/clicky/game"
)

// Options configure how records are restored
type Options struct {
	Rules   game.Rules
	Catalog *game.Catalog
	// OfflineAccrual keeps the persisted accrual clock so the first tick
	// credits the time the game was closed; false restarts it at load time
	OfflineAccrual bool
}

// Gateway is the only component touching stable storage
type Gateway struct {
	store Store
	opts  Options
}

// NewGateway wraps store
func NewGateway(store Store, opts Options) *Gateway {
	if opts.Catalog == nil {
		opts.Catalog = game.DefaultCatalog()
	}
	if opts.Rules == (game.Rules{}) {
		opts.Rules = game.DefaultRules()
	}
	return &Gateway{store: store, opts: opts}
}

// Location describes where records go
func (g *Gateway) Location() string {
	return g.store.Location()
}

// Close releases the store
func (g *Gateway) Close() error {
	return g.store.Close()
}

// Save writes the full state
// Every failure is wrapped in ErrPersistenceUnavailable
func (g *Gateway) Save(ctx context.Context, s *game.State) error {
	data, err := json.MarshalIndent(Encode(s), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistenceUnavailable, err)
	}
	if err := g.store.Write(ctx, data); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	log.Printf("[persist] saved %d bytes to %s", len(data), g.store.Location())
	return nil
}

// Load reads the record and rebuilds the state at now
// The returned state is always usable: a fresh game accompanies
// ErrNotFound, ErrPersistenceUnavailable and ErrCorruptRecord
func (g *Gateway) Load(ctx context.Context, now time.Time) (*game.State, error) {
	data, err := g.store.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		return g.fresh(now), ErrNotFound
	}
	if err != nil {
		log.Printf("[persist] read %s failed: %v", g.store.Location(), err)
		return g.fresh(now), fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	s, err := g.Decode(data, now)
	if err != nil {
		log.Printf("[persist] %s: %v", g.store.Location(), err)
		return s, err
	}
	log.Printf("[persist] loaded %s", g.store.Location())
	return s, nil
}

func (g *Gateway) fresh(now time.Time) *game.State {
	return game.NewState(g.opts.Rules, g.opts.Catalog, now)
}

// Decode rebuilds a state from a raw record
// Malformed fields fall back to defaults one by one; only an unparseable
// document is an error, in which case the default state is returned
func (g *Gateway) Decode(data []byte, now time.Time) (*game.State, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return g.fresh(now), fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	d := decoder{fields: fields}
	s := g.fresh(now)
	econ := &s.Economy

	var n int64
	if d.int64Field("coins", &n) && n >= 0 {
		econ.Balance = n
	}
	if d.int64Field("upgrade_cost", &n) && n > 0 {
		econ.UpgradeCost = n
	}
	if d.int64Field("upgrade_amount", &n) && n > 0 {
		econ.UpgradeRateGain = n
	}
	if d.int64Field("mega_upgrade_cost", &n) && n > 0 {
		econ.MegaUpgradeCost = n
	}
	if d.int64Field("mega_upgrade_amount", &n) && n > 0 {
		econ.MegaUpgradeRateGain = n
	}
	var count int
	if d.intField("upgrades_bought", &count) && count >= 0 {
		econ.UpgradesBought = count
	}
	if d.intField("mega_upgrades_bought", &count) && count >= 0 {
		econ.MegaUpgradesBought = count
	}

	var ms EpochMillis
	if d.field("last_update_time", &ms) && ms > 0 {
		s.LastAccrualAt = clampPast(ms.Time(), now)
	}

	effects := d.effects()
	var persistedSum int64
	for _, e := range effects {
		persistedSum += e.RateDelta
		s.Effects.Insert(e)
	}

	// Records without base_cps predate the split; derive it from the stored
	// aggregate minus every stored effect, expired or not
	if d.int64Field("base_cps", &n) && n >= 0 {
		econ.BaseRate = n
	} else if d.int64Field("cps", &n) {
		econ.BaseRate = max(0, n-persistedSum)
	}

	if pruned := s.Effects.Prune(now); pruned > 0 {
		log.Printf("[persist] pruned %d expired effects", pruned)
	}
	s.RecomputeRate()

	d.inventory(s.Inventory, g.opts.Catalog)
	g.decodeCombat(&d, s, now)

	if !g.opts.OfflineAccrual {
		s.LastAccrualAt = now
		if s.Combat.InCombat {
			s.Combat.LastTickAt = now
		}
	}

	if len(d.degraded) > 0 {
		log.Printf("[persist] degraded fields to defaults: %v", d.degraded)
	}
	return s, nil
}

func (g *Gateway) decodeCombat(d *decoder, s *game.State, now time.Time) {
	cr := g.opts.Rules.Combat
	c := &s.Combat

	var n int64
	if d.int64Field("player_hp", &n) {
		c.PlayerHP = min(max(n, 0), cr.PlayerMaxHP)
	}
	if d.int64Field("enemy_hp", &n) {
		c.EnemyHP = min(max(n, 0), cr.EnemyMaxHP)
	}
	var count int
	if d.intField("victories", &count) && count >= 0 {
		c.Victories = count
	}
	if d.intField("defeats", &count) && count >= 0 {
		c.Defeats = count
	}

	var ms EpochMillis
	if d.field("combat_start_time", &ms) && ms > 0 {
		c.StartedAt = clampPast(ms.Time(), now)
	}
	if d.field("last_combat_update", &ms) && ms > 0 {
		c.LastTickAt = clampPast(ms.Time(), now)
	}

	var inCombat bool
	if d.field("in_combat", &inCombat) && inCombat {
		// A fight with a dead side cannot resume
		if c.PlayerHP > 0 && c.EnemyHP > 0 {
			c.InCombat = true
			if c.LastTickAt.IsZero() {
				c.LastTickAt = now
			}
		} else {
			d.degraded = append(d.degraded, "in_combat")
		}
	}
}

// clampPast keeps timestamps from a skewed clock out of the future
func clampPast(t, now time.Time) time.Time {
	if t.After(now) {
		return now
	}
	return t
}

// decoder reads optional fields, recording which ones were malformed
type decoder struct {
	fields   map[string]json.RawMessage
	degraded []string
}

func (d *decoder) field(name string, dst any) bool {
	raw, ok := d.fields[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		d.degraded = append(d.degraded, name)
		return false
	}
	return true
}

// int64Field accepts fractional numbers by truncation
func (d *decoder) int64Field(name string, dst *int64) bool {
	var f float64
	if !d.field(name, &f) {
		return false
	}
	*dst = int64(f)
	return true
}

func (d *decoder) intField(name string, dst *int) bool {
	var n int64
	if !d.int64Field(name, &n) {
		return false
	}
	*dst = int(n)
	return true
}

// effects decodes entries one at a time so one bad entry does not lose the rest
func (d *decoder) effects() []game.TimedEffect {
	var raws []json.RawMessage
	if !d.field("active_effects", &raws) {
		return nil
	}
	var out []game.TimedEffect
	for i, raw := range raws {
		var rec EffectRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.ExpiresAt <= 0 {
			d.degraded = append(d.degraded, fmt.Sprintf("active_effects[%d]", i))
			continue
		}
		out = append(out, game.TimedEffect{
			Source:    rec.Source,
			RateDelta: rec.Effect.CPSIncrease,
			Duration:  time.Duration(rec.Effect.Duration * float64(time.Second)),
			ExpiresAt: rec.ExpiresAt.Time(),
		})
	}
	return out
}

// inventory accepts the nested category map and the legacy flat item map
func (d *decoder) inventory(inv game.Inventory, cat *game.Catalog) {
	var top map[string]json.RawMessage
	if !d.field("inventory", &top) {
		return
	}

	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		raw := top[k]

		var items map[string]float64
		if err := json.Unmarshal(raw, &items); err == nil {
			for key, q := range items {
				inv.Set(game.Category(k), key, int(q))
			}
			continue
		}

		var q float64
		if err := json.Unmarshal(raw, &q); err == nil {
			category, ok := cat.CategoryOf(k)
			if !ok {
				category = game.CategoryConsumables
			}
			inv.Set(category, k, int(q))
			continue
		}
		d.degraded = append(d.degraded, "inventory."+k)
	}
}
