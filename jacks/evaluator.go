package jacks

import (
	"sort"

	"jacks-lite/card"
)

// EvaluateHand classifies a 5-card hand into exactly one Hand* category.
// Pure and deterministic; categories are mutually exclusive by construction.
func EvaluateHand(a, b, c, d, e card.Card) byte {
	cards := [HandSize]card.Card{a, b, c, d, e}

	suit0 := cards[0].Suit()
	flush := true
	vals := make([]int, 0, HandSize)
	counts := make(map[int]int, HandSize)
	for _, cc := range cards {
		v := cc.HandRealVal() // A=14, J=11, Q=12, K=13
		vals = append(vals, v)
		counts[v]++
		if cc.Suit() != suit0 {
			flush = false
		}
	}
	sort.Ints(vals)

	straight, wheel := straightShape(vals)

	// 按出现次数分组: pairRanks 记录成对的点数
	var trips, quads int
	pairRanks := make([]int, 0, 2)
	for v, n := range counts {
		switch n {
		case 2:
			pairRanks = append(pairRanks, v)
		case 3:
			trips++
		case 4:
			quads++
		}
	}

	switch {
	case flush && straight && !wheel && vals[4] == 14:
		return HandRoyalFlush
	case flush && straight:
		return HandStraightFlush
	case quads == 1:
		return HandFourOfKind
	case trips == 1 && len(pairRanks) == 1:
		return HandFullHouse
	case flush:
		return HandFlush
	case straight:
		return HandStraight
	case trips == 1:
		return HandThreeOfKind
	case len(pairRanks) == 2:
		return HandTwoPair
	case len(pairRanks) == 1 && pairRanks[0] >= 11:
		return HandJacksOrBetter
	default:
		return HandNoWin
	}
}

// straightShape reports whether the sorted values form 5 consecutive ranks.
// wheel 为 A-2-3-4-5（A 作低位）
func straightShape(sorted []int) (straight, wheel bool) {
	if sorted[0] == 2 && sorted[1] == 3 && sorted[2] == 4 && sorted[3] == 5 && sorted[4] == 14 {
		return true, true
	}
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1]+1 {
			return false, false
		}
	}
	return true, false
}
