package jacks

import (
	"context"
	"time"
)

// Meter is the externally persisted slice of machine state: credits and the
// selected bet level. Everything else is per-round and rebuilt from scratch.
type Meter struct {
	Credits int
	Bet     int
}

// RoundRecord summarizes one completed round for the history ledger.
// The store assigns the record ID.
type RoundRecord struct {
	PlayedAt     time.Time
	Bet          int
	Hand         byte
	HandName     string
	BasePayout   int
	BonusGuesses int
	FinalPayout  int
	CreditsAfter int
}

// Store is the injected load/save collaborator. SaveMeter and AppendRound are
// fire-and-forget: implementations log failures and never propagate them into
// game logic.
type Store interface {
	LoadMeter(ctx context.Context) (Meter, error)
	SaveMeter(credits, bet int)
	AppendRound(rec RoundRecord)
}
