package jacks

import "fmt"

type Config struct {
	// BonusEnabled selects the post-draw path on a win: offer the
	// double-or-nothing gamble, or credit the payout immediately.
	BonusEnabled bool

	// StartingCredits / DefaultBet (0 => 200 / 5)
	StartingCredits int
	DefaultBet      int

	// Paytable override (nil => DefaultPaytable)
	Paytable *Paytable

	// Store persists credits/bet and round history (nil => no persistence)
	Store Store

	// RNG seed (0 => time-based)
	Seed int64
}

func (c Config) validate() error {
	if c.StartingCredits < 0 {
		return fmt.Errorf("StartingCredits must be >= 0")
	}
	if c.DefaultBet < 0 || c.DefaultBet > MaxBetLevel {
		return fmt.Errorf("DefaultBet must be in [0,%d]", MaxBetLevel)
	}
	return nil
}
