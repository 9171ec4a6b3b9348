package main

import (
	"fmt"

	"github.com/pterm/pterm"

	"jacks-lite/card"
	"jacks-lite/jacks"
)

// renderSnapshot draws the whole machine state: hand row, meter line and the
// status message. Pure function of the snapshot.
func renderSnapshot(snap jacks.Snapshot) {
	var panels []pterm.Panel
	for _, slot := range snap.Hand {
		panels = append(panels, pterm.Panel{Data: renderSlot(slot)})
	}
	_ = pterm.DefaultPanel.WithPanels([][]pterm.Panel{panels}).Render()

	meter := fmt.Sprintf("Credits: %d   Bet: %d", snap.Credits, snap.Bet)
	if snap.PendingWin > 0 {
		meter += fmt.Sprintf("   At stake: %d", snap.PendingWin)
	}
	if snap.Stage == jacks.StageBonus && snap.BonusCard != card.CardInvalid {
		meter += fmt.Sprintf("   Last card: %s", snap.BonusCard)
	}
	pterm.DefaultBasicText.Println(meter)
	pterm.Info.Println(snap.Message)
}

func renderSlot(slot jacks.SlotSnapshot) string {
	box := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2).WithTopPadding(1).WithBottomPadding(1)
	if slot.Held {
		box = box.WithTitle(pterm.LightYellow("HELD")).WithTitleTopCenter()
	}

	face := slot.Code
	if !slot.FaceUp {
		face = "??"
	} else if slot.Card.IsRed() {
		face = pterm.Red(face)
	}
	return box.Sprintf("%s", face)
}
