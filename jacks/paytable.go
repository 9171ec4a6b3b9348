package jacks

// Paytable maps hand category x bet level (1-5) to a payout in credits.
// Row index is the Hand* constant; column index is bet-1.
type Paytable [HandRoyalFlush + 1][MaxBetLevel]int

// DefaultPaytable is the full-pay 9/6 Jacks-or-Better schedule. Every row
// scales linearly with the bet level except the max-bet royal flush jackpot
// (4000 instead of 1250).
var DefaultPaytable = Paytable{
	HandJacksOrBetter: {1, 2, 3, 4, 5},
	HandTwoPair:       {2, 4, 6, 8, 10},
	HandThreeOfKind:   {3, 6, 9, 12, 15},
	HandStraight:      {4, 8, 12, 16, 20},
	HandFlush:         {6, 12, 18, 24, 30},
	HandFullHouse:     {9, 18, 27, 36, 45},
	HandFourOfKind:    {25, 50, 75, 100, 125},
	HandStraightFlush: {50, 100, 150, 200, 250},
	HandRoyalFlush:    {250, 500, 750, 1000, 4000},
}

// Payout looks up the payout for a hand at a bet level. Unknown categories
// and out-of-range bets pay zero; the lookup never fails.
func (t *Paytable) Payout(hand byte, bet int) int {
	if int(hand) >= len(t) || bet < 1 || bet > MaxBetLevel {
		return 0
	}
	return t[hand][bet-1]
}
