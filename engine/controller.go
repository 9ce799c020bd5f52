package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/clicky/core"
	"github.com/lixenwraith/clicky/event"
	"github.com/lixenwraith/clicky/game"
	"github.com/lixenwraith/clicky/status"
)

const (
	DefaultMessageDuration  = 2 * time.Second
	DefaultAutosaveInterval = 60 * time.Second
	DefaultSaveTimeout      = 2 * time.Second
)

var errNoSaver = errors.New("no save backend configured")

// Saver writes the whole game state to durable storage
type Saver interface {
	Save(ctx context.Context, s *game.State) error
}

// Result is the presentation feedback of one intent
type Result struct {
	Message string
	Err     error
}

// ControllerConfig wires a Controller
// Zero durations take the package defaults; a negative AutosaveInterval disables autosave
type ControllerConfig struct {
	Rules   game.Rules
	Catalog *game.Catalog
	// State to resume; nil starts a fresh game at Start
	State *game.State
	Start time.Time

	Saver  Saver
	Sound  core.SoundPlayer
	Status *status.Registry

	MessageDuration  time.Duration
	AutosaveInterval time.Duration
	SaveTimeout      time.Duration
}

// Controller is the sole mutator of the game state
// Thread-Safety: Submit may be called from any goroutine; every other method
// must run on the tick goroutine
type Controller struct {
	state    *game.State
	rules    game.Rules
	catalog  *game.Catalog
	bank     *game.Bank
	shop     *game.Shop
	resolver *game.Resolver

	queue  *event.Queue
	screen Screen

	saver Saver
	sound core.SoundPlayer

	messageDuration  time.Duration
	autosaveInterval time.Duration
	saveTimeout      time.Duration
	lastAutosave     time.Time

	// Cached metric pointers
	statTicks    *atomic.Int64
	statApplied  *atomic.Int64
	statRejected *atomic.Int64
	statSavesOK  *atomic.Int64
	statSavesErr *atomic.Int64
	statAutosave *atomic.Int64
	statScreen   *status.AtomicString
	statInCombat *atomic.Bool
}

// NewController validates rules and builds a controller
func NewController(cfg ControllerConfig) (*Controller, error) {
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}
	if cfg.Catalog == nil {
		cfg.Catalog = game.DefaultCatalog()
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Now()
	}
	if cfg.State == nil {
		cfg.State = game.NewState(cfg.Rules, cfg.Catalog, cfg.Start)
	}
	if cfg.Sound == nil {
		cfg.Sound = core.NopSound{}
	}
	if cfg.Status == nil {
		cfg.Status = status.NewRegistry()
	}
	if cfg.MessageDuration <= 0 {
		cfg.MessageDuration = DefaultMessageDuration
	}
	if cfg.AutosaveInterval == 0 {
		cfg.AutosaveInterval = DefaultAutosaveInterval
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = DefaultSaveTimeout
	}

	reg := cfg.Status
	c := &Controller{
		state:            cfg.State,
		rules:            cfg.Rules,
		catalog:          cfg.Catalog,
		bank:             game.NewBank(cfg.Rules),
		shop:             game.NewShop(cfg.Catalog, cfg.Rules.Combat),
		resolver:         game.NewResolver(cfg.Rules.Combat, cfg.Catalog),
		queue:            event.NewQueue(),
		saver:            cfg.Saver,
		sound:            cfg.Sound,
		messageDuration:  cfg.MessageDuration,
		autosaveInterval: cfg.AutosaveInterval,
		saveTimeout:      cfg.SaveTimeout,
		lastAutosave:     cfg.Start,

		statTicks:    reg.Ints.Get("controller.ticks"),
		statApplied:  reg.Ints.Get("intents.applied"),
		statRejected: reg.Ints.Get("intents.rejected"),
		statSavesOK:  reg.Ints.Get("saves.ok"),
		statSavesErr: reg.Ints.Get("saves.failed"),
		statAutosave: reg.Ints.Get("autosaves"),
		statScreen:   reg.Strings.Get("engine.screen"),
		statInCombat: reg.Bools.Get("combat.active"),
	}
	if c.state.Combat.InCombat {
		c.setScreen(ScreenCombat)
	} else {
		c.setScreen(ScreenMain)
	}
	return c, nil
}

// State returns the live state; only the tick goroutine may touch it
func (c *Controller) State() *game.State {
	return c.state
}

// Rules returns the rules the controller was built with
func (c *Controller) Rules() game.Rules {
	return c.rules
}

// Catalog returns the item table
func (c *Controller) Catalog() *game.Catalog {
	return c.catalog
}

// Screen returns the current screen
func (c *Controller) Screen() Screen {
	return c.screen
}

// Submit queues an intent for the next tick
func (c *Controller) Submit(in event.Intent) {
	c.queue.Push(in)
}

// Pending returns the approximate number of queued intents
func (c *Controller) Pending() int {
	return c.queue.Len()
}

// Flush applies every queued intent in order, used once ticking has stopped
// so keys pressed just before quitting reach the final save
func (c *Controller) Flush(now time.Time) int {
	pending := c.queue.Drain()
	for _, in := range pending {
		c.Apply(in, now)
	}
	c.statInCombat.Store(c.state.Combat.InCombat)
	return len(pending)
}

// Tick advances the game to now
// Order: accrual, effect expiry, combat round, one queued intent, autosave, message expiry
// A tick with no elapsed time and no intent changes nothing
func (c *Controller) Tick(now time.Time) {
	c.statTicks.Add(1)
	s := c.state

	c.bank.Accrue(s, now)

	for range s.Effects.Expire(&s.Economy, now) {
		c.notify("Effect Expired!", now)
		c.sound.Play(core.SoundExpire)
	}

	if s.Combat.InCombat {
		c.combatRound(now)
	}

	if in, ok := c.queue.Pop(); ok {
		c.Apply(in, now)
	}
	c.statInCombat.Store(s.Combat.InCombat)

	if c.autosaveInterval > 0 && now.Sub(c.lastAutosave) >= c.autosaveInterval {
		c.lastAutosave = now
		c.statAutosave.Add(1)
		if err := c.SaveNow(); err != nil {
			c.notify("Save Failed!", now)
		}
	}

	s.ExpireMessage(now)
}

func (c *Controller) combatRound(now time.Time) {
	s := c.state
	round := c.resolver.Tick(s, now)
	enemy := c.rules.Combat.EnemyName

	switch round.Outcome {
	case game.OutcomeExchange:
		c.notify(fmt.Sprintf("You dealt %d damage. Enemy dealt %d damage.", round.DamageDealt, round.DamageTaken), now)
		c.sound.Play(core.SoundHit)
	case game.OutcomeVictory:
		c.notify(fmt.Sprintf("%s defeated! Obtained %s.", enemy, round.Drop.Name), now)
		c.sound.Play(core.SoundVictory)
		log.Printf("[engine] victory over %s, drop %s", enemy, round.Drop.Key)
	case game.OutcomeRevived:
		c.notify(fmt.Sprintf("Revived! Healed %d HP.", s.Combat.PlayerHP), now)
		c.sound.Play(core.SoundUseItem)
	case game.OutcomeDefeat:
		c.notify(fmt.Sprintf("You died! Lost %d coins.", round.Lost), now)
		c.sound.Play(core.SoundDefeat)
		log.Printf("[engine] defeated by %s, lost %d", enemy, round.Lost)
	}
}

// Apply dispatches one intent to its method
func (c *Controller) Apply(in event.Intent, now time.Time) Result {
	var res Result
	switch in.Type {
	case event.IntentCollect:
		res = c.Collect(now)
	case event.IntentPurchaseUpgrade:
		res = c.PurchaseUpgrade(now)
	case event.IntentPurchaseMegaUpgrade:
		res = c.PurchaseMegaUpgrade(now)
	case event.IntentSave:
		res = c.Save(now)
	case event.IntentOpenShop:
		res = c.OpenShop(now)
	case event.IntentOpenInventory:
		res = c.OpenInventory(now)
	case event.IntentBuyShopItem:
		res = c.BuyShopItem(in.Key, now)
	case event.IntentUseInventoryItem:
		res = c.UseInventoryItem(in.Key, now)
	case event.IntentStartCombat:
		res = c.StartCombat(now)
	case event.IntentUsePotion:
		res = c.UsePotion(now)
	case event.IntentBack:
		res = c.Back(now)
	default:
		res = Result{Err: fmt.Errorf("unknown intent %s", in)}
	}

	if res.Err != nil {
		c.statRejected.Add(1)
	} else {
		c.statApplied.Add(1)
	}
	return res
}

// Collect adds one click of currency
func (c *Controller) Collect(now time.Time) Result {
	c.bank.Collect(c.state)
	c.sound.Play(core.SoundClick)
	return Result{}
}

// PurchaseUpgrade buys the regular upgrade
func (c *Controller) PurchaseUpgrade(now time.Time) Result {
	if err := c.bank.PurchaseUpgrade(c.state); err != nil {
		return c.reject(err, now)
	}
	return c.accept("Upgrade Purchased!", core.SoundPurchase, now)
}

// PurchaseMegaUpgrade buys the mega upgrade
func (c *Controller) PurchaseMegaUpgrade(now time.Time) Result {
	if err := c.bank.PurchaseMegaUpgrade(c.state); err != nil {
		return c.reject(err, now)
	}
	return c.accept("Mega Upgrade Purchased!", core.SoundPurchase, now)
}

// Save writes the game synchronously
func (c *Controller) Save(now time.Time) Result {
	if err := c.SaveNow(); err != nil {
		c.notify("Save Failed!", now)
		c.sound.Play(core.SoundError)
		return Result{Message: "Save Failed!", Err: err}
	}
	c.notify("Game Saved!", now)
	return Result{Message: "Game Saved!"}
}

// SaveNow writes the game without touching the message, used by autosave and quit
func (c *Controller) SaveNow() error {
	if c.saver == nil {
		c.statSavesErr.Add(1)
		return errNoSaver
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.saveTimeout)
	defer cancel()

	if err := c.saver.Save(ctx, c.state); err != nil {
		c.statSavesErr.Add(1)
		log.Printf("[engine] save failed: %v", err)
		return err
	}
	c.statSavesOK.Add(1)
	return nil
}

// OpenShop shows the shop
func (c *Controller) OpenShop(now time.Time) Result {
	c.setScreen(ScreenShop)
	return Result{}
}

// OpenInventory shows the inventory
func (c *Controller) OpenInventory(now time.Time) Result {
	c.setScreen(ScreenInventory)
	return Result{}
}

// BuyShopItem buys one of key
func (c *Controller) BuyShopItem(key string, now time.Time) Result {
	it, err := c.shop.Buy(c.state, key)
	if err != nil {
		return c.reject(err, now)
	}
	return c.accept(fmt.Sprintf("Purchased %s!", it.Name), core.SoundPurchase, now)
}

// UseInventoryItem consumes one owned item
func (c *Controller) UseInventoryItem(key string, now time.Time) Result {
	res, err := c.shop.Use(c.state, key, now)
	if err != nil {
		return c.rejectItem(res.Item, err, now)
	}

	var msg string
	switch res.Item.Kind {
	case game.KindBooster:
		if res.Permanent {
			msg = fmt.Sprintf("Permanent Effect: +%d CPS", res.Item.Effect.RateDelta)
		} else {
			msg = fmt.Sprintf("Effect Applied: +%d CPS for %ds", res.Effect.RateDelta, int64(res.Item.Effect.Duration/time.Second))
		}
	case game.KindHeal:
		msg = fmt.Sprintf("%s used! Healed %d HP.", res.Item.Name, res.Item.Amount)
	}
	return c.accept(msg, core.SoundUseItem, now)
}

// UsePotion drinks the first heal item; the same operation as using it from the inventory
func (c *Controller) UsePotion(now time.Time) Result {
	it, ok := c.catalog.FirstOfKind(game.KindHeal)
	if !ok {
		return c.reject(fmt.Errorf("heal item: %w", game.ErrUnknownItem), now)
	}
	return c.UseInventoryItem(it.Key, now)
}

// StartCombat begins a fight and shows the combat screen
// Already fighting only switches the screen
func (c *Controller) StartCombat(now time.Time) Result {
	c.setScreen(ScreenCombat)
	if err := c.resolver.Start(c.state, now); err != nil {
		return c.reject(err, now)
	}
	return c.accept(fmt.Sprintf("A wild %s appears!", c.rules.Combat.EnemyName), core.SoundHit, now)
}

// Back returns to the main screen; leaving the combat screen mid-fight flees
func (c *Controller) Back(now time.Time) Result {
	prev := c.screen
	c.setScreen(ScreenMain)
	if prev == ScreenCombat && c.state.Combat.InCombat {
		if err := c.resolver.Flee(c.state); err != nil {
			return c.reject(err, now)
		}
		msg := fmt.Sprintf("You fled from %s.", c.rules.Combat.EnemyName)
		c.notify(msg, now)
		return Result{Message: msg}
	}
	return Result{}
}

// Notify shows text as the transient message
func (c *Controller) Notify(text string, now time.Time) {
	c.notify(text, now)
}

func (c *Controller) notify(text string, now time.Time) {
	c.state.SetMessage(text, now, c.messageDuration)
}

func (c *Controller) setScreen(s Screen) {
	c.screen = s
	c.statScreen.Store(s.String())
}

func (c *Controller) accept(msg string, sound core.SoundType, now time.Time) Result {
	if msg != "" {
		c.notify(msg, now)
	}
	c.sound.Play(sound)
	return Result{Message: msg}
}

func (c *Controller) reject(err error, now time.Time) Result {
	return c.rejectItem(game.Item{}, err, now)
}

// rejectItem maps a domain error to its player-facing message
func (c *Controller) rejectItem(it game.Item, err error, now time.Time) Result {
	var msg string
	switch {
	case errors.Is(err, game.ErrInsufficientFunds):
		msg = "Not enough coins!"
	case errors.Is(err, game.ErrItemNotOwned):
		msg = fmt.Sprintf("No %ss available!", it.Name)
	case errors.Is(err, game.ErrNotUsable) && it.Kind == game.KindRevive:
		msg = fmt.Sprintf("%ss are auto-used upon death.", it.Name)
	case errors.Is(err, game.ErrNotUsable):
		msg = fmt.Sprintf("%s cannot be used.", it.Name)
	case errors.Is(err, game.ErrUnknownItem):
		msg = "Unknown item!"
	case errors.Is(err, game.ErrInvalidTransition) && c.state.Combat.InCombat:
		msg = "Already in combat!"
	case errors.Is(err, game.ErrInvalidTransition):
		msg = "Not in combat!"
	default:
		msg = err.Error()
	}
	c.notify(msg, now)
	c.sound.Play(core.SoundError)
	return Result{Message: msg, Err: err}
}
