// Package eval contains static position evaluation.
package eval

import (
	"github.com/herohde/greco/pkg/board"
)

// Score is a signed position or move score in centipawns, from the
// perspective of the side to move unless stated otherwise.
type Score int32

// Evaluator is a static position evaluator.
type Evaluator interface {
	// Evaluate returns the position score from the side-to-move's perspective.
	Evaluate(b *board.Board) Score
}

// Material values in centipawns. The king does not contribute to the material
// balance.
const (
	PawnValue   Score = 100
	KnightValue Score = 300
	BishopValue Score = 300
	RookValue   Score = 500
	QueenValue  Score = 900
)

// endgameThreshold is the material total (king excluded) at or below which a
// side is considered to be in the endgame.
const endgameThreshold Score = 1200

// castlingPenalty is subtracted per flank whose castling right was lost
// without the side having castled.
const castlingPenalty Score = 20

// Value returns the material value of a piece kind.
func Value(k board.Kind) Score {
	switch k {
	case board.Queen:
		return QueenValue
	case board.Rook:
		return RookValue
	case board.Bishop:
		return BishopValue
	case board.Knight:
		return KnightValue
	case board.Pawn:
		return PawnValue
	default:
		return 0
	}
}

// Standard is the classical material plus piece-square-table evaluator:
// centralization for knights and bishops, rank-weighted advancement for
// pawns, back-rank shelter for the king until the endgame and centralization
// after, and a penalty for castling rights lost unused.
type Standard struct{}

func (Standard) Evaluate(b *board.Board) Score {
	turn := b.Turn()
	return sideScore(b, turn) - sideScore(b, turn.Opponent())
}

func sideScore(b *board.Board, s board.Side) Score {
	material := materialScore(b, s)
	endgame := material <= endgameThreshold

	total := material
	pieces := b.Pieces(s)
	for i := range pieces {
		p := &pieces[i]
		if p.Captured {
			continue
		}
		total += locationBonus(p, endgame)
	}

	if !b.HasCastled(s) {
		for _, queenside := range []bool{false, true} {
			if !b.Castling().MayCastle(s, queenside) {
				total -= castlingPenalty
			}
		}
	}
	return total
}

func materialScore(b *board.Board, s board.Side) Score {
	var total Score
	pieces := b.Pieces(s)
	for i := range pieces {
		if !pieces[i].Captured {
			total += Value(pieces[i].Kind)
		}
	}
	return total
}

func locationBonus(p *board.Piece, endgame bool) Score {
	switch p.Kind {
	case board.Knight:
		return pst(knightTable, p)
	case board.Bishop:
		return pst(bishopTable, p)
	case board.Pawn:
		return pst(pawnTable, p)
	case board.King:
		if endgame {
			return pst(kingEndgameTable, p)
		}
		return pst(kingTable, p)
	default:
		return 0
	}
}

// pst looks up the piece-square bonus. Tables are written from white's
// perspective with the eighth rank first; black mirrors the rank.
func pst(table *[64]Score, p *board.Piece) Score {
	row := 7 - p.Square.Rank()
	if p.Side == board.Black {
		row = p.Square.Rank()
	}
	return table[row*8+p.Square.File()]
}
