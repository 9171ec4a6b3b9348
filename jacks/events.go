package jacks

import "jacks-lite/card"

// EventType 事件类型
type EventType byte

const (
	EventMeterChange EventType = 1 // 注码/余额调整
	EventDeal        EventType = 2
	EventHoldToggle  EventType = 3
	EventDraw        EventType = 4
	EventBonusOffer  EventType = 5
	EventBonusStart  EventType = 6
	EventBonusGuess  EventType = 7
	EventCollect     EventType = 8
	EventNewRun      EventType = 9
)

var EventTypeDictionary = map[EventType]string{
	EventMeterChange: "meterChange",
	EventDeal:        "deal",
	EventHoldToggle:  "holdToggle",
	EventDraw:        "draw",
	EventBonusOffer:  "bonusOffer",
	EventBonusStart:  "bonusStart",
	EventBonusGuess:  "bonusGuess",
	EventCollect:     "collect",
	EventNewRun:      "newRun",
}

// Event describes one completed state transition. The presentation layer
// derives any animation purely from the event stream; the machine never
// waits for a consumer.
type Event struct {
	Type       EventType
	Stage      Stage
	Credits    int
	Bet        int
	PendingWin int
	Hand       byte // result category, set on EventDraw
	Payout     int  // base payout, set on EventDraw
	Card       card.Card
	Message    string
}

const eventBufferSize = 32

// Events returns the transition stream. Publishing is non-blocking: if the
// buffer is full the oldest unconsumed event is simply lost, never queued
// against the state machine.
func (g *Game) Events() <-chan Event {
	return g.events
}

func (g *Game) publishLocked(ev Event) {
	ev.Stage = g.stage
	ev.Credits = g.credits
	ev.Bet = g.bet
	ev.PendingWin = g.pendingWin
	ev.Message = g.message
	select {
	case g.events <- ev:
	default:
	}
}
