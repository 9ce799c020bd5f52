package game

import (
	"fmt"
	"math"
	"time"
)

// Bank applies economy rules to a State
type Bank struct {
	rules Rules
}

// NewBank creates a bank for rules
func NewBank(r Rules) *Bank {
	return &Bank{rules: r}
}

// Collect adds one click worth of currency and returns it
func (b *Bank) Collect(s *State) int64 {
	s.Economy.Balance += b.rules.ClickValue
	return b.rules.ClickValue
}

// PurchaseUpgrade buys the regular upgrade and escalates its price
func (b *Bank) PurchaseUpgrade(s *State) error {
	e := &s.Economy
	if e.Balance < e.UpgradeCost {
		return fmt.Errorf("upgrade costs %d, have %d: %w", e.UpgradeCost, e.Balance, ErrInsufficientFunds)
	}
	e.Balance -= e.UpgradeCost
	e.Rate += e.UpgradeRateGain
	e.BaseRate += e.UpgradeRateGain
	e.UpgradeCost = grow(e.UpgradeCost, b.rules.UpgradeCostGrowth)
	e.UpgradesBought++
	return nil
}

// PurchaseMegaUpgrade buys the mega upgrade; price is static unless MegaCostGrowth > 1
func (b *Bank) PurchaseMegaUpgrade(s *State) error {
	e := &s.Economy
	if e.Balance < e.MegaUpgradeCost {
		return fmt.Errorf("mega upgrade costs %d, have %d: %w", e.MegaUpgradeCost, e.Balance, ErrInsufficientFunds)
	}
	e.Balance -= e.MegaUpgradeCost
	e.Rate += e.MegaUpgradeRateGain
	e.BaseRate += e.MegaUpgradeRateGain
	e.MegaUpgradeCost = grow(e.MegaUpgradeCost, b.rules.MegaCostGrowth)
	e.MegaUpgradesBought++
	return nil
}

// Accrue credits Rate for every whole second since LastAccrualAt
// LastAccrualAt advances by exactly the credited seconds so fractions carry over
func (b *Bank) Accrue(s *State, now time.Time) int64 {
	elapsed := now.Sub(s.LastAccrualAt)
	if elapsed < time.Second {
		return 0
	}
	whole := int64(elapsed / time.Second)
	return b.AccrueSeconds(s, whole)
}

// AccrueSeconds credits n whole seconds
func (b *Bank) AccrueSeconds(s *State, n int64) int64 {
	if n <= 0 {
		return 0
	}
	gained := s.Economy.Rate * n
	if gained < 0 {
		gained = 0
	}
	s.Economy.Balance += gained
	s.LastAccrualAt = s.LastAccrualAt.Add(time.Duration(n) * time.Second)
	return gained
}

func grow(cost int64, factor float64) int64 {
	if factor <= 1 {
		return cost
	}
	return int64(math.Floor(float64(cost) * factor))
}
