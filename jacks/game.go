package jacks

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"jacks-lite/card"
)

// Game is a single-player Jacks-or-Better machine. Every public action is one
// atomic transition under the mutex; invalid actions return a non-fatal error
// and leave state untouched. There is no busy sub-state in the core: the
// machine transitions synchronously and the presentation layer sequences its
// own animation from the event stream.
type Game struct {
	cfg      Config
	rng      *rand.Rand
	paytable *Paytable

	mu sync.Mutex

	credits int
	bet     int
	stage   Stage

	deck  card.CardList
	hand  [HandSize]card.Card
	holds [HandSize]bool
	dealt bool

	// round in flight
	roundBet   int
	pendingWin int
	canCollect bool
	guessCount int

	// last resolved result
	lastHand   byte
	lastPayout int
	bonusCard  card.Card

	message string
	events  chan Event
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.StartingCredits == 0 {
		cfg.StartingCredits = DefaultStartingCredits
	}
	if cfg.DefaultBet == 0 {
		cfg.DefaultBet = DefaultBetLevel
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
		paytable: cfg.Paytable,
		stage:    StageBetting,
		events:   make(chan Event, eventBufferSize),
	}
	if g.paytable == nil {
		g.paytable = &DefaultPaytable
	}

	g.credits, g.bet = g.loadMeter()
	g.freshDeckLocked()
	if g.credits > 0 && g.bet > g.credits {
		g.bet = g.betLimitLocked()
	}
	if g.bet < 1 {
		g.bet = 1
	}
	g.message = "place your bet"
	return g, nil
}

// loadMeter reads persisted credits/bet, falling back to the configured
// defaults on missing or invalid data. Load failures are not fatal.
func (g *Game) loadMeter() (credits, bet int) {
	credits, bet = g.cfg.StartingCredits, g.cfg.DefaultBet
	if g.cfg.Store == nil {
		return credits, bet
	}
	m, err := g.cfg.Store.LoadMeter(context.Background())
	if err != nil {
		return credits, bet
	}
	if m.Credits >= 0 {
		credits = m.Credits
	}
	if m.Bet >= 1 && m.Bet <= MaxBetLevel {
		bet = m.Bet
	}
	return credits, bet
}

// BetOne cycles the bet level 1→2→3→4→5→1, clamped to the available credits.
func (g *Game) BetOne() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stage != StageBetting {
		return errWrongStage("betOne", g.stage)
	}
	if g.credits == 0 {
		return ErrOutOfCredits
	}
	limit := g.betLimitLocked()
	g.bet++
	if g.bet > limit {
		g.bet = 1
	}
	g.message = fmt.Sprintf("bet %d", g.bet)
	g.saveMeterLocked()
	g.publishLocked(Event{Type: EventMeterChange})
	return nil
}

// MaxBet jumps to the highest bet level the credits allow.
func (g *Game) MaxBet() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stage != StageBetting {
		return errWrongStage("maxBet", g.stage)
	}
	if g.credits == 0 {
		return ErrOutOfCredits
	}
	g.bet = g.betLimitLocked()
	g.message = fmt.Sprintf("bet %d", g.bet)
	g.saveMeterLocked()
	g.publishLocked(Event{Type: EventMeterChange})
	return nil
}

// Deal deducts the bet and deals 5 cards from the top of the deck,
// reshuffling a fresh 52 first when fewer than 10 cards remain.
func (g *Game) Deal() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stage != StageBetting {
		return errWrongStage("deal", g.stage)
	}
	if g.credits == 0 {
		return ErrOutOfCredits
	}
	if g.bet < 1 || g.bet > g.credits {
		return ErrInsufficientCredits
	}

	g.credits -= g.bet
	g.roundBet = g.bet

	if g.deck.Count() < minDeckBeforeDeal {
		g.freshDeckLocked()
	}
	cards, ok := g.deck.PopCards(HandSize)
	if !ok {
		// unreachable after the refill above
		return fmt.Errorf("deck underflow on deal")
	}
	copy(g.hand[:], cards)
	g.holds = [HandSize]bool{}
	g.dealt = true
	g.lastHand = 0
	g.lastPayout = 0
	g.pendingWin = 0
	g.guessCount = 0

	g.stage = StageDrawn
	g.message = "hold cards, then draw"
	g.saveMeterLocked()
	g.publishLocked(Event{Type: EventDeal})
	return nil
}

// ToggleHold flips the hold flag for one hand slot; only legal while awaiting
// the draw.
func (g *Game) ToggleHold(idx int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stage != StageDrawn {
		return errWrongStage("toggleHold", g.stage)
	}
	if idx < 0 || idx >= HandSize {
		return HoldIndexError(idx)
	}
	g.holds[idx] = !g.holds[idx]
	g.publishLocked(Event{Type: EventHoldToggle})
	return nil
}

// DrawResult 换牌后的结算结果
type DrawResult struct {
	Hand   byte
	Name   string
	Payout int
}

// Draw replaces every non-held slot from the top of the deck, evaluates the
// final hand and resolves the payout. A win either opens the bonus offer or,
// with the bonus disabled, is credited immediately.
func (g *Game) Draw() (*DrawResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stage != StageDrawn {
		return nil, errWrongStage("draw", g.stage)
	}

	for i := 0; i < HandSize; i++ {
		if g.holds[i] {
			continue
		}
		if g.deck.Count() == 0 {
			g.refillDeckForDrawLocked()
		}
		g.hand[i] = g.deck.PopCard()
	}

	g.lastHand = EvaluateHand(g.hand[0], g.hand[1], g.hand[2], g.hand[3], g.hand[4])
	g.lastPayout = g.paytable.Payout(g.lastHand, g.roundBet)

	res := &DrawResult{
		Hand:   g.lastHand,
		Name:   HandTypeDictionary[g.lastHand],
		Payout: g.lastPayout,
	}

	if g.lastPayout == 0 {
		g.message = "no win"
		g.enterBettingLocked()
		g.recordRoundLocked(0)
		g.saveMeterLocked()
		g.publishLocked(Event{Type: EventDraw, Hand: g.lastHand})
		return res, nil
	}

	g.pendingWin = g.lastPayout
	g.guessCount = 0
	if g.cfg.BonusEnabled {
		g.stage = StageBonusOffer
		g.message = fmt.Sprintf("%s pays %d — double or collect?", res.Name, g.lastPayout)
		g.publishLocked(Event{Type: EventDraw, Hand: g.lastHand, Payout: g.lastPayout})
		g.publishLocked(Event{Type: EventBonusOffer})
		return res, nil
	}

	// bonus disabled: credit the win right away
	g.credits += g.pendingWin
	final := g.pendingWin
	g.pendingWin = 0
	g.message = fmt.Sprintf("%s pays %d", res.Name, final)
	g.enterBettingLocked()
	g.recordRoundLocked(final)
	g.saveMeterLocked()
	g.publishLocked(Event{Type: EventDraw, Hand: g.lastHand, Payout: final})
	return res, nil
}

// AcceptBonus enters the double-or-nothing sub-game with the pending win at
// stake.
func (g *Game) AcceptBonus() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stage != StageBonusOffer {
		return errWrongStage("acceptBonus", g.stage)
	}
	g.stage = StageBonus
	g.canCollect = false
	g.bonusCard = card.CardInvalid
	g.message = fmt.Sprintf("red or black for %d?", g.pendingWin*2)
	g.publishLocked(Event{Type: EventBonusStart})
	return nil
}

// DeclineBonus banks the pending win without gambling.
func (g *Game) DeclineBonus() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stage != StageBonusOffer {
		return errWrongStage("declineBonus", g.stage)
	}
	final := g.pendingWin
	g.credits += final
	g.pendingWin = 0
	g.message = fmt.Sprintf("collected %d", final)
	g.enterBettingLocked()
	g.recordRoundLocked(final)
	g.saveMeterLocked()
	g.publishLocked(Event{Type: EventCollect, Payout: final})
	return nil
}

// GuessResult 一次猜色的结果
type GuessResult struct {
	Card       card.Card
	Correct    bool
	PendingWin int
}

// GuessColor draws one card and compares its color against the guess.
// Correct doubles the pending win; wrong forfeits it entirely — the loss is
// final, no consolation payout.
func (g *Game) GuessColor(color Color) (*GuessResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stage != StageBonus {
		return nil, errWrongStage("guessColor", g.stage)
	}
	if g.deck.Count() == 0 {
		g.freshDeckLocked()
	}
	c := g.deck.PopCard()
	g.bonusCard = c

	correct := c.IsRed() == (color == ColorRed)
	if correct {
		g.pendingWin *= 2
		g.canCollect = true
		g.guessCount++
		g.message = fmt.Sprintf("%s — win doubled to %d", c, g.pendingWin)
		res := &GuessResult{Card: c, Correct: true, PendingWin: g.pendingWin}
		g.publishLocked(Event{Type: EventBonusGuess, Card: c})
		return res, nil
	}

	g.pendingWin = 0
	g.canCollect = false
	g.message = fmt.Sprintf("%s — win lost", c)
	g.enterBettingLocked()
	g.recordRoundLocked(0)
	g.saveMeterLocked()
	res := &GuessResult{Card: c, Correct: false, PendingWin: 0}
	g.publishLocked(Event{Type: EventBonusGuess, Card: c})
	return res, nil
}

// CollectBonus banks the doubled pending win; only valid after at least one
// correct guess.
func (g *Game) CollectBonus() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stage != StageBonus {
		return errWrongStage("collectBonus", g.stage)
	}
	if !g.canCollect {
		return ErrNoCollect
	}
	final := g.pendingWin
	g.credits += final
	g.pendingWin = 0
	g.canCollect = false
	g.message = fmt.Sprintf("collected %d", final)
	g.enterBettingLocked()
	g.recordRoundLocked(final)
	g.saveMeterLocked()
	g.publishLocked(Event{Type: EventCollect, Payout: final})
	return nil
}

// NewRun is the explicit user-initiated reset: starting credits, default bet,
// fresh shuffled deck. Not an error path — it is the only way out of "truly
// out of credits".
func (g *Game) NewRun() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.credits = g.cfg.StartingCredits
	g.bet = g.cfg.DefaultBet
	g.stage = StageBetting
	g.hand = [HandSize]card.Card{}
	g.holds = [HandSize]bool{}
	g.dealt = false
	g.roundBet = 0
	g.pendingWin = 0
	g.canCollect = false
	g.guessCount = 0
	g.lastHand = 0
	g.lastPayout = 0
	g.bonusCard = card.CardInvalid
	g.freshDeckLocked()
	g.message = "place your bet"
	g.saveMeterLocked()
	g.publishLocked(Event{Type: EventNewRun})
}

func (g *Game) freshDeckLocked() {
	g.deck.Init(card.Shuffled(card.FullDeck(), g.rng))
}

// refillDeckForDrawLocked rebuilds the deck mid-draw without the cards
// currently in hand, so deck ∪ hand never repeats. The pre-deal refill makes
// this all but unreachable; kept for the invariant.
func (g *Game) refillDeckForDrawLocked() {
	full := card.FullDeck()
	rest := make([]card.Card, 0, len(full)-HandSize)
	for _, c := range full {
		if !card.Contains(g.hand[:], c) {
			rest = append(rest, c)
		}
	}
	g.deck.Init(card.Shuffled(rest, g.rng))
}

func (g *Game) betLimitLocked() int {
	if g.credits < MaxBetLevel {
		return g.credits
	}
	return MaxBetLevel
}

// enterBettingLocked closes the round loop. Keeps the resting-state
// invariant: bet <= credits whenever credits > 0.
func (g *Game) enterBettingLocked() {
	g.stage = StageBetting
	if g.credits > 0 && g.bet > g.credits {
		g.bet = g.betLimitLocked()
	}
	if g.bet < 1 {
		g.bet = 1
	}
	if g.credits == 0 {
		g.message = "out of credits — start a new game"
	}
}

func (g *Game) saveMeterLocked() {
	if g.cfg.Store == nil {
		return
	}
	g.cfg.Store.SaveMeter(g.credits, g.bet)
}

func (g *Game) recordRoundLocked(finalPayout int) {
	if g.cfg.Store == nil || g.roundBet == 0 {
		return
	}
	g.cfg.Store.AppendRound(RoundRecord{
		PlayedAt:     time.Now().UTC(),
		Bet:          g.roundBet,
		Hand:         g.lastHand,
		HandName:     HandTypeDictionary[g.lastHand],
		BasePayout:   g.lastPayout,
		BonusGuesses: g.guessCount,
		FinalPayout:  finalPayout,
		CreditsAfter: g.credits,
	})
	g.roundBet = 0
}
