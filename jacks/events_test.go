package jacks

import (
	"testing"

	"jacks-lite/card"
)

func drainEvents(g *Game) []Event {
	var out []Event
	for {
		select {
		case ev := <-g.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestEvents_PublishedPerTransition(t *testing.T) {
	g := newTestGame(t, Config{})
	drainEvents(g)

	if err := g.BetOne(); err != nil {
		t.Fatalf("BetOne: %v", err)
	}
	if err := g.Deal(); err != nil {
		t.Fatalf("Deal: %v", err)
	}
	if err := g.ToggleHold(0); err != nil {
		t.Fatalf("ToggleHold: %v", err)
	}

	events := drainEvents(g)
	want := []EventType{EventMeterChange, EventDeal, EventHoldToggle}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(events), len(want), events)
	}
	for i, w := range want {
		if events[i].Type != w {
			t.Fatalf("event %d: type %s, want %s",
				i, EventTypeDictionary[events[i].Type], EventTypeDictionary[w])
		}
	}

	deal := events[1]
	if deal.Stage != StageDrawn {
		t.Fatalf("deal event stage = %s", StageDictionary[deal.Stage])
	}
	if deal.Credits != DefaultStartingCredits-1 || deal.Bet != 1 {
		t.Fatalf("deal event meter = %d/%d", deal.Credits, deal.Bet)
	}
}

func TestEvents_DrawCarriesResult(t *testing.T) {
	g := newTestGame(t, Config{BonusEnabled: true})
	forceHand(g, [HandSize]card.Card{card.CardSpade3, card.CardHeart3, card.CardDiamond3, card.CardClub9, card.CardHeart9})
	drainEvents(g)

	if _, err := g.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	events := drainEvents(g)
	if len(events) != 2 {
		t.Fatalf("got %d events, want draw + bonus offer: %v", len(events), events)
	}
	if events[0].Type != EventDraw || events[0].Hand != HandFullHouse || events[0].Payout == 0 {
		t.Fatalf("bad draw event: %+v", events[0])
	}
	if events[1].Type != EventBonusOffer || events[1].PendingWin != events[0].Payout {
		t.Fatalf("bad offer event: %+v", events[1])
	}
}

// TestEvents_PublishNeverBlocks overflows the buffer with no consumer attached;
// transitions must keep completing.
func TestEvents_PublishNeverBlocks(t *testing.T) {
	g := newTestGame(t, Config{})
	for i := 0; i < eventBufferSize*3; i++ {
		if err := g.BetOne(); err != nil {
			t.Fatalf("BetOne %d: %v", i, err)
		}
	}
	if got := len(drainEvents(g)); got != eventBufferSize {
		t.Fatalf("buffered %d events, want capped at %d", got, eventBufferSize)
	}
}
