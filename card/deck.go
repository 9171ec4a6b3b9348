package card

import "math/rand"

// FullDeck returns all 52 rank/suit combinations in deterministic order:
// spades A..K, hearts, clubs, diamonds.
func FullDeck() []Card {
	out := make([]Card, 0, 52)
	for suit := byte(0); suit < 4; suit++ {
		for rank := byte(1); rank <= 13; rank++ {
			out = append(out, Card(suit<<4|rank))
		}
	}
	return out
}

// Shuffled returns a uniformly random permutation of cards without mutating
// the input. Empty and single-card inputs come back as plain copies.
func Shuffled(cards []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(cards))
	copy(out, cards)
	if len(out) < 2 {
		return out
	}
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
