package card

type Suit byte

const (
	Spade   Suit = iota // ♠️
	Heart               // ♥️
	Club                // ♣️
	Diamond             // ♦️
)

func (s Suit) String() string {
	switch s {
	case Diamond:
		return "♦️"
	case Club:
		return "♣️"
	case Heart:
		return "♥️"
	case Spade:
		return "♠️"
	}
	return "?"
}

// Letter 花色字母 S/H/D/C，资源编号用
func (s Suit) Letter() string {
	switch s {
	case Diamond:
		return "D"
	case Club:
		return "C"
	case Heart:
		return "H"
	case Spade:
		return "S"
	}
	return "?"
}
