package jacks

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"jacks-lite/card"
)

type stubStore struct {
	mu      sync.Mutex
	meter   Meter
	loadErr error
	saves   []Meter
	rounds  []RoundRecord
}

func (s *stubStore) LoadMeter(_ context.Context) (Meter, error) {
	return s.meter, s.loadErr
}

func (s *stubStore) SaveMeter(credits, bet int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, Meter{Credits: credits, Bet: bet})
}

func (s *stubStore) AppendRound(rec RoundRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds = append(s.rounds, rec)
}

func newTestGame(t *testing.T, cfg Config) *Game {
	t.Helper()
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

// forceHand puts the machine into the post-deal stage with a known hand and
// everything held, so Draw resolves exactly that hand.
func forceHand(g *Game, cards [HandSize]card.Card) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hand = cards
	g.holds = [HandSize]bool{true, true, true, true, true}
	g.stage = StageDrawn
	g.roundBet = g.bet
	g.dealt = true
}

func TestNewGame_DefaultMeter(t *testing.T) {
	g := newTestGame(t, Config{})
	snap := g.Snapshot()
	if snap.Credits != DefaultStartingCredits || snap.Bet != DefaultBetLevel {
		t.Fatalf("got credits=%d bet=%d, want %d/%d", snap.Credits, snap.Bet, DefaultStartingCredits, DefaultBetLevel)
	}
	if snap.Stage != StageBetting {
		t.Fatalf("initial stage = %s, want betting", StageDictionary[snap.Stage])
	}
	if snap.DeckSize != 52 {
		t.Fatalf("initial deck size = %d, want 52", snap.DeckSize)
	}
}

func TestNewGame_LoadsMeterFromStore(t *testing.T) {
	store := &stubStore{meter: Meter{Credits: 137, Bet: 3}}
	g := newTestGame(t, Config{Store: store})
	snap := g.Snapshot()
	if snap.Credits != 137 || snap.Bet != 3 {
		t.Fatalf("got credits=%d bet=%d, want 137/3", snap.Credits, snap.Bet)
	}
}

func TestNewGame_CorruptMeterFallsBackToDefaults(t *testing.T) {
	store := &stubStore{meter: Meter{Credits: -9, Bet: 11}}
	g := newTestGame(t, Config{Store: store})
	snap := g.Snapshot()
	if snap.Credits != DefaultStartingCredits || snap.Bet != DefaultBetLevel {
		t.Fatalf("got credits=%d bet=%d, want defaults", snap.Credits, snap.Bet)
	}

	store = &stubStore{loadErr: errors.New("disk gone")}
	g = newTestGame(t, Config{Store: store})
	snap = g.Snapshot()
	if snap.Credits != DefaultStartingCredits || snap.Bet != DefaultBetLevel {
		t.Fatalf("load error must fall back to defaults, got %d/%d", snap.Credits, snap.Bet)
	}
}

func TestBetOne_CyclesThroughLevels(t *testing.T) {
	g := newTestGame(t, Config{})
	want := []int{1, 2, 3, 4, 5, 1} // default bet is 5, first press wraps
	for _, w := range want {
		if err := g.BetOne(); err != nil {
			t.Fatalf("BetOne: %v", err)
		}
		if got := g.Snapshot().Bet; got != w {
			t.Fatalf("bet = %d, want %d", got, w)
		}
	}
}

func TestBetOne_ClampedToCredits(t *testing.T) {
	g := newTestGame(t, Config{StartingCredits: 3})
	if got := g.Snapshot().Bet; got != 3 {
		t.Fatalf("bet clamped at start: got %d, want 3", got)
	}
	want := []int{1, 2, 3, 1}
	for _, w := range want {
		if err := g.BetOne(); err != nil {
			t.Fatalf("BetOne: %v", err)
		}
		if got := g.Snapshot().Bet; got != w {
			t.Fatalf("bet = %d, want %d", got, w)
		}
	}
}

func TestMaxBet_JumpsToLimit(t *testing.T) {
	g := newTestGame(t, Config{})
	_ = g.BetOne() // bet 1
	if err := g.MaxBet(); err != nil {
		t.Fatalf("MaxBet: %v", err)
	}
	if got := g.Snapshot().Bet; got != MaxBetLevel {
		t.Fatalf("bet = %d, want %d", got, MaxBetLevel)
	}

	g = newTestGame(t, Config{StartingCredits: 2})
	if err := g.MaxBet(); err != nil {
		t.Fatalf("MaxBet: %v", err)
	}
	if got := g.Snapshot().Bet; got != 2 {
		t.Fatalf("bet = %d, want 2", got)
	}
}

func TestActions_RejectedWhenOutOfCredits(t *testing.T) {
	g := newTestGame(t, Config{})
	g.mu.Lock()
	g.credits = 0
	g.mu.Unlock()

	if err := g.BetOne(); !errors.Is(err, ErrOutOfCredits) {
		t.Fatalf("BetOne err = %v, want ErrOutOfCredits", err)
	}
	if err := g.MaxBet(); !errors.Is(err, ErrOutOfCredits) {
		t.Fatalf("MaxBet err = %v, want ErrOutOfCredits", err)
	}
	if err := g.Deal(); !errors.Is(err, ErrOutOfCredits) {
		t.Fatalf("Deal err = %v, want ErrOutOfCredits", err)
	}
}

func TestDeal_RejectedWhenBetExceedsCredits(t *testing.T) {
	g := newTestGame(t, Config{})
	g.mu.Lock()
	g.credits = 3
	g.bet = 5
	g.mu.Unlock()

	if err := g.Deal(); !errors.Is(err, ErrInsufficientCredits) {
		t.Fatalf("Deal err = %v, want ErrInsufficientCredits", err)
	}
	snap := g.Snapshot()
	if snap.Credits != 3 || snap.Stage != StageBetting {
		t.Fatalf("rejected deal must not change state: credits=%d stage=%s", snap.Credits, StageDictionary[snap.Stage])
	}
}

func TestDeal_Conservation(t *testing.T) {
	g := newTestGame(t, Config{})
	before := g.Snapshot()

	// dirty holds from a previous round must be cleared by the deal
	g.mu.Lock()
	g.holds[2] = true
	g.mu.Unlock()

	if err := g.Deal(); err != nil {
		t.Fatalf("Deal: %v", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.credits != before.Credits-before.Bet {
		t.Fatalf("credits = %d, want %d", g.credits, before.Credits-before.Bet)
	}
	if g.stage != StageDrawn {
		t.Fatalf("stage = %s, want drawn", StageDictionary[g.stage])
	}
	if g.deck.Count() != 47 {
		t.Fatalf("deck = %d cards, want 47", g.deck.Count())
	}
	seen := make(map[card.Card]bool, HandSize)
	for _, c := range g.hand {
		if c == card.CardInvalid {
			t.Fatalf("undealt slot in hand")
		}
		if seen[c] {
			t.Fatalf("duplicate card %s in hand", c)
		}
		seen[c] = true
		if card.Contains(g.deck, c) {
			t.Fatalf("card %s present in both hand and deck", c)
		}
	}
	for _, h := range g.holds {
		if h {
			t.Fatalf("holds must be all-false at the start of a round")
		}
	}
}

func TestDeal_ReshufflesWhenDeckRunsLow(t *testing.T) {
	g := newTestGame(t, Config{})
	g.mu.Lock()
	g.deck = g.deck[:9]
	g.mu.Unlock()

	if err := g.Deal(); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deck.Count() != 47 {
		t.Fatalf("deck = %d cards after low-deck deal, want 47", g.deck.Count())
	}
}

func TestToggleHold_OnlyInDrawnStage(t *testing.T) {
	g := newTestGame(t, Config{})
	err := g.ToggleHold(0)
	var wrongStage *WrongStageError
	if !errors.As(err, &wrongStage) {
		t.Fatalf("ToggleHold in betting: err = %v, want WrongStageError", err)
	}

	if err := g.Deal(); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if err := g.ToggleHold(2); err != nil {
		t.Fatalf("ToggleHold: %v", err)
	}
	if !g.Snapshot().Hand[2].Held {
		t.Fatalf("slot 2 not held after toggle")
	}
	if err := g.ToggleHold(2); err != nil {
		t.Fatalf("ToggleHold: %v", err)
	}
	if g.Snapshot().Hand[2].Held {
		t.Fatalf("slot 2 still held after second toggle")
	}

	if err := g.ToggleHold(5); !errors.As(err, new(HoldIndexError)) {
		t.Fatalf("index 5: err = %v, want HoldIndexError", err)
	}
	if err := g.ToggleHold(-1); !errors.As(err, new(HoldIndexError)) {
		t.Fatalf("index -1: err = %v, want HoldIndexError", err)
	}
}

func TestDraw_HeldSlotsSurviveAndNoDuplicates(t *testing.T) {
	g := newTestGame(t, Config{})
	if err := g.Deal(); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	_ = g.ToggleHold(0)
	_ = g.ToggleHold(3)

	g.mu.Lock()
	before := g.hand
	g.mu.Unlock()

	if _, err := g.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.hand[0] != before[0] || g.hand[3] != before[3] {
		t.Fatalf("held slots changed: %v -> %v", before, g.hand)
	}
	if g.deck.Count() != 44 {
		t.Fatalf("deck = %d cards after drawing 3, want 44", g.deck.Count())
	}
	seen := make(map[card.Card]bool, HandSize)
	for _, c := range g.hand {
		if seen[c] {
			t.Fatalf("duplicate card %s in hand after draw", c)
		}
		seen[c] = true
		if card.Contains(g.deck, c) {
			t.Fatalf("card %s in both hand and deck after draw", c)
		}
	}
}

func TestDraw_NoWinReturnsToBetting(t *testing.T) {
	store := &stubStore{meter: Meter{Credits: 100, Bet: 5}}
	g := newTestGame(t, Config{Store: store})
	forceHand(g, [HandSize]card.Card{card.CardSpadeJ, card.CardHeart9, card.CardDiamond2, card.CardClub5, card.CardHeartK})

	res, err := g.Draw()
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if res.Hand != HandNoWin || res.Payout != 0 {
		t.Fatalf("got %s payout %d, want no win / 0", res.Name, res.Payout)
	}
	snap := g.Snapshot()
	if snap.Stage != StageBetting {
		t.Fatalf("stage = %s, want betting", StageDictionary[snap.Stage])
	}
	if snap.Credits != 100 {
		t.Fatalf("credits = %d, want unchanged 100", snap.Credits)
	}

	if len(store.rounds) != 1 {
		t.Fatalf("expected 1 round record, got %d", len(store.rounds))
	}
	rec := store.rounds[0]
	if rec.Hand != HandNoWin || rec.FinalPayout != 0 || rec.Bet != 5 {
		t.Fatalf("bad round record: %+v", rec)
	}
}

func TestDraw_WinCreditsImmediatelyWithBonusDisabled(t *testing.T) {
	store := &stubStore{meter: Meter{Credits: 100, Bet: 5}}
	g := newTestGame(t, Config{Store: store})
	forceHand(g, [HandSize]card.Card{card.CardSpadeT, card.CardSpadeJ, card.CardSpadeQ, card.CardSpadeK, card.CardSpadeA})

	res, err := g.Draw()
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if res.Hand != HandRoyalFlush || res.Payout != 4000 {
		t.Fatalf("got %s payout %d, want royal flush / 4000", res.Name, res.Payout)
	}
	snap := g.Snapshot()
	if snap.Credits != 4100 {
		t.Fatalf("credits = %d, want 4100", snap.Credits)
	}
	if snap.Stage != StageBetting || snap.PendingWin != 0 {
		t.Fatalf("win with bonus disabled must settle immediately: stage=%s pending=%d",
			StageDictionary[snap.Stage], snap.PendingWin)
	}
	if len(store.rounds) != 1 || store.rounds[0].FinalPayout != 4000 {
		t.Fatalf("bad round record: %+v", store.rounds)
	}
}

func TestDraw_WinOpensBonusOfferWhenEnabled(t *testing.T) {
	g := newTestGame(t, Config{BonusEnabled: true})
	forceHand(g, [HandSize]card.Card{card.CardSpade3, card.CardHeart3, card.CardDiamond3, card.CardClub9, card.CardHeart9})

	res, err := g.Draw()
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if res.Hand != HandFullHouse {
		t.Fatalf("got %s, want full house", res.Name)
	}
	snap := g.Snapshot()
	if snap.Stage != StageBonusOffer {
		t.Fatalf("stage = %s, want bonusoffer", StageDictionary[snap.Stage])
	}
	if snap.PendingWin != res.Payout {
		t.Fatalf("pendingWin = %d, want %d", snap.PendingWin, res.Payout)
	}
	if snap.Credits != DefaultStartingCredits {
		t.Fatalf("credits touched before the offer resolves: %d", snap.Credits)
	}
}

func TestWrongStageActions_LeaveStateUnchanged(t *testing.T) {
	g := newTestGame(t, Config{BonusEnabled: true})
	before := g.Snapshot()

	var wrongStage *WrongStageError
	if _, err := g.Draw(); !errors.As(err, &wrongStage) {
		t.Fatalf("Draw in betting: err = %v", err)
	}
	if _, err := g.GuessColor(ColorRed); !errors.As(err, &wrongStage) {
		t.Fatalf("GuessColor in betting: err = %v", err)
	}
	if err := g.AcceptBonus(); !errors.As(err, &wrongStage) {
		t.Fatalf("AcceptBonus in betting: err = %v", err)
	}
	if err := g.DeclineBonus(); !errors.As(err, &wrongStage) {
		t.Fatalf("DeclineBonus in betting: err = %v", err)
	}
	if err := g.CollectBonus(); !errors.As(err, &wrongStage) {
		t.Fatalf("CollectBonus in betting: err = %v", err)
	}

	after := g.Snapshot()
	if after.Credits != before.Credits || after.Bet != before.Bet || after.Stage != before.Stage {
		t.Fatalf("rejected actions mutated state: %+v -> %+v", before, after)
	}

	if err := g.Deal(); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if err := g.Deal(); !errors.As(err, &wrongStage) {
		t.Fatalf("second Deal: err = %v, want WrongStageError", err)
	}
}

func TestNewRun_ResetsEverything(t *testing.T) {
	store := &stubStore{meter: Meter{Credits: 7, Bet: 2}}
	g := newTestGame(t, Config{Store: store})
	if err := g.Deal(); err != nil {
		t.Fatalf("Deal: %v", err)
	}

	g.NewRun()
	snap := g.Snapshot()
	if snap.Credits != DefaultStartingCredits || snap.Bet != DefaultBetLevel {
		t.Fatalf("meter after reset: %d/%d", snap.Credits, snap.Bet)
	}
	if snap.Stage != StageBetting || snap.Dealt || snap.PendingWin != 0 {
		t.Fatalf("state after reset: stage=%s dealt=%v pending=%d",
			StageDictionary[snap.Stage], snap.Dealt, snap.PendingWin)
	}
	if snap.DeckSize != 52 {
		t.Fatalf("deck after reset = %d, want 52", snap.DeckSize)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	last := store.saves[len(store.saves)-1]
	if last.Credits != DefaultStartingCredits || last.Bet != DefaultBetLevel {
		t.Fatalf("reset not persisted: %+v", last)
	}
}

// TestRoundInvariants_RandomPlay drives the machine with random actions and
// checks the standing invariants after every transition.
func TestRoundInvariants_RandomPlay(t *testing.T) {
	g := newTestGame(t, Config{BonusEnabled: true, Seed: 99})
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 5000; i++ {
		switch rng.Intn(10) {
		case 0:
			_ = g.BetOne()
		case 1:
			_ = g.MaxBet()
		case 2, 3:
			_ = g.Deal()
		case 4:
			_ = g.ToggleHold(rng.Intn(HandSize))
		case 5, 6:
			_, _ = g.Draw()
		case 7:
			if rng.Intn(2) == 0 {
				_ = g.AcceptBonus()
			} else {
				_ = g.DeclineBonus()
			}
		case 8:
			if rng.Intn(2) == 0 {
				_, _ = g.GuessColor(ColorRed)
			} else {
				_, _ = g.GuessColor(ColorBlack)
			}
		case 9:
			_ = g.CollectBonus()
		}

		snap := g.Snapshot()
		if snap.Credits < 0 {
			t.Fatalf("step %d: credits went negative: %d", i, snap.Credits)
		}
		if snap.Stage == StageBetting && snap.Credits > 0 {
			if snap.Bet < 1 || snap.Bet > MaxBetLevel || snap.Bet > snap.Credits {
				t.Fatalf("step %d: bet invariant broken: bet=%d credits=%d", i, snap.Bet, snap.Credits)
			}
		}
		if snap.Credits == 0 && snap.Stage == StageBetting {
			g.NewRun()
		}
	}
}
