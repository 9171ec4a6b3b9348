package bank

import (
	"context"
	"strings"
	"time"

	"jacks-lite/jacks"
)

const defaultHistoryLimit = 200

// Service persists the machine meter (credits + bet) and the round history.
// It satisfies jacks.Store; the write paths are fire-and-forget so a broken
// database can never fail a state transition.
type Service interface {
	Close() error
	LoadMeter(ctx context.Context) (jacks.Meter, error)
	SaveMeter(credits, bet int)
	AppendRound(rec jacks.RoundRecord)
	ListRecent(ctx context.Context, limit int) ([]HistoryItem, error)
}

// HistoryItem is one stored round, newest first in ListRecent.
type HistoryItem struct {
	ID           string    `json:"round_id"`
	PlayedAt     time.Time `json:"played_at"`
	Bet          int       `json:"bet"`
	Hand         byte      `json:"hand"`
	HandName     string    `json:"hand_name"`
	BasePayout   int       `json:"base_payout"`
	BonusGuesses int       `json:"bonus_guesses"`
	FinalPayout  int       `json:"final_payout"`
	CreditsAfter int       `json:"credits_after"`
}

// NewServiceFromEnv selects the backing store: "memory" keeps everything
// in-process and volatile, anything else opens the local sqlite database.
func NewServiceFromEnv(mode string) (Service, string, error) {
	m := strings.ToLower(strings.TrimSpace(mode))
	if m == "memory" {
		return &noopService{}, "memory-noop", nil
	}
	service, err := NewSQLiteServiceFromEnv()
	if err != nil {
		return nil, "", err
	}
	return service, "sqlite", nil
}

type noopService struct{}

func (n *noopService) Close() error { return nil }

func (n *noopService) LoadMeter(_ context.Context) (jacks.Meter, error) {
	return jacks.Meter{Credits: -1, Bet: 0}, nil
}

func (n *noopService) SaveMeter(_, _ int) {}

func (n *noopService) AppendRound(_ jacks.RoundRecord) {}

func (n *noopService) ListRecent(_ context.Context, _ int) ([]HistoryItem, error) {
	return []HistoryItem{}, nil
}
