package board

import "fmt"

// Move represents a not-necessarily-legal move: source square, destination
// square and the desired promotion kind, if any. Context such as castling or
// en passant is derived from the position when the move is made. 24 bits.
type Move struct {
	From, To  Square
	Promotion Kind
}

// ParseMove parses a move in coordinate algebraic notation, such as "e2e4" or
// "a7a8q". The promotion letter must be lower case.
func ParseMove(str string) (Move, error) {
	if len(str) < 4 || len(str) > 5 {
		return Move{}, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err := ParseSquareStr(str[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move: '%v': %v", str, err)
	}
	to, err := ParseSquareStr(str[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move: '%v': %v", str, err)
	}

	promo := NoKind
	if len(str) == 5 {
		switch str[4] {
		case 'q':
			promo = Queen
		case 'r':
			promo = Rook
		case 'b':
			promo = Bishop
		case 'n':
			promo = Knight
		default:
			return Move{}, fmt.Errorf("invalid promotion: '%v'", str)
		}
	}
	return Move{From: from, To: to, Promotion: promo}, nil
}

func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// String returns the move in coordinate algebraic notation.
func (m Move) String() string {
	if m.Promotion.IsValid() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}
