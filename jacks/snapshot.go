package jacks

import "jacks-lite/card"

type SlotSnapshot struct {
	Card   card.Card
	Code   string // asset identifier; RearCode while face-down
	FaceUp bool
	Held   bool
}

// Snapshot is the full observable state surface for a presentation layer.
type Snapshot struct {
	Credits int
	Bet     int
	Stage   Stage

	Hand  [HandSize]SlotSnapshot
	Dealt bool

	PendingWin int
	CanCollect bool

	LastHand     byte
	LastHandName string
	LastPayout   int
	BonusCard    card.Card

	DeckSize int
	Message  string
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		Credits:      g.credits,
		Bet:          g.bet,
		Stage:        g.stage,
		Dealt:        g.dealt,
		PendingWin:   g.pendingWin,
		CanCollect:   g.canCollect,
		LastHand:     g.lastHand,
		LastHandName: HandTypeDictionary[g.lastHand],
		LastPayout:   g.lastPayout,
		BonusCard:    g.bonusCard,
		DeckSize:     g.deck.Count(),
		Message:      g.message,
	}
	for i := 0; i < HandSize; i++ {
		slot := SlotSnapshot{Held: g.holds[i]}
		if g.dealt {
			slot.Card = g.hand[i]
			slot.Code = g.hand[i].Code()
			slot.FaceUp = true
		} else {
			slot.Card = card.CardRear
			slot.Code = card.RearCode
		}
		s.Hand[i] = slot
	}
	return s
}
