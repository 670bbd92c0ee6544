package board

import "strings"

// Castling tracks which castling pieces have moved or been captured away from
// their starting squares. The flags are "not available" bits: once set, a flag
// never clears during a game (only a new game or a position load clears them).
// Whether castling is currently legal is re-derived from these flags plus the
// position at move generation and validation time. 6 bits.
type Castling uint8

const (
	WhiteKingMoved Castling = 1 << iota
	BlackKingMoved
	WhiteKingsRookMoved
	BlackKingsRookMoved
	WhiteQueensRookMoved
	BlackQueensRookMoved
)

// kingFlag returns the king-moved flag for the side.
func kingFlag(s Side) Castling {
	if s == White {
		return WhiteKingMoved
	}
	return BlackKingMoved
}

// rookFlag returns the rook-moved flag for the side and flank.
func rookFlag(s Side, queenside bool) Castling {
	if s == White {
		if queenside {
			return WhiteQueensRookMoved
		}
		return WhiteKingsRookMoved
	}
	if queenside {
		return BlackQueensRookMoved
	}
	return BlackKingsRookMoved
}

// IsSet returns true iff any of the given flags is set.
func (c Castling) IsSet(flags Castling) bool {
	return c&flags != 0
}

// MayCastle returns true iff neither the king nor the given rook has moved.
func (c Castling) MayCastle(s Side, queenside bool) bool {
	return !c.IsSet(kingFlag(s) | rookFlag(s, queenside))
}

func (c Castling) String() string {
	rights := []struct {
		s         Side
		queenside bool
		letter    string
	}{
		{White, false, "K"},
		{White, true, "Q"},
		{Black, false, "k"},
		{Black, true, "q"},
	}

	var sb strings.Builder
	for _, r := range rights {
		if c.MayCastle(r.s, r.queenside) {
			sb.WriteString(r.letter)
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}
