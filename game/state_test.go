package game

import (
	"testing"
	"time"
)

func TestState_Message(t *testing.T) {
	s, _, _ := newTestState()
	s.SetMessage("Game Saved!", t0, 2*time.Second)

	text, left := s.ActiveMessage(t0.Add(500 * time.Millisecond))
	if text != "Game Saved!" || left != 1500*time.Millisecond {
		t.Errorf("got %q %v, want message with 1.5s left", text, left)
	}

	s.ExpireMessage(t0.Add(time.Second))
	if s.Message.Text == "" {
		t.Error("message cleared before expiry")
	}

	s.ExpireMessage(t0.Add(2 * time.Second))
	if text, _ := s.ActiveMessage(t0.Add(2 * time.Second)); text != "" {
		t.Errorf("expected empty message after expiry, got %q", text)
	}
}

func TestState_CheckInvariants(t *testing.T) {
	s, _, _ := newTestState()
	if err := s.CheckInvariants(); err != nil {
		t.Fatalf("fresh state: %v", err)
	}

	s.Effects.Insert(TimedEffect{RateDelta: 5, ExpiresAt: t0.Add(time.Minute)})
	if err := s.CheckInvariants(); err == nil {
		t.Error("expected rate drift to be reported")
	}
	s.RecomputeRate()
	if err := s.CheckInvariants(); err != nil {
		t.Errorf("after recompute: %v", err)
	}

	s.Economy.Balance = -1
	if err := s.CheckInvariants(); err == nil {
		t.Error("expected negative balance to be reported")
	}
}

func TestState_CloneIsDeep(t *testing.T) {
	s, _, _ := newTestState()
	s.Inventory.Add(CategoryBattleItems, "Potion", 1)
	s.Effects.Insert(TimedEffect{Source: "x", RateDelta: 1, ExpiresAt: t0.Add(time.Second)})

	c := s.Clone()
	c.Inventory.Add(CategoryBattleItems, "Potion", 5)
	c.Effects.Insert(TimedEffect{Source: "y"})

	if got := s.Inventory.Quantity(CategoryBattleItems, "Potion"); got != 1 {
		t.Errorf("original inventory mutated: %d", got)
	}
	if s.Effects.Len() != 1 {
		t.Errorf("original ledger mutated: %d entries", s.Effects.Len())
	}
}

func TestRules_Validate(t *testing.T) {
	r := DefaultRules()
	if err := r.Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}

	bad := r
	bad.Combat.Round = 0
	if bad.Validate() == nil {
		t.Error("zero round accepted")
	}

	bad = r
	bad.UpgradeCostGrowth = 0.5
	if bad.Validate() == nil {
		t.Error("shrinking cost accepted")
	}
}
