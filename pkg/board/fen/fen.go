// Package fen contains utilities for reading and writing positions in FEN
// notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/herohde/greco/pkg/board"
)

// Initial is the standard initial position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode returns a new board from a FEN description. The descriptor must have
// six fields: placement, side to move, castling availability, en passant
// target, halfmove clock and fullmove number. Decoding enforces both the
// syntactic rules (rank shape, piece letters, castling order, en passant
// rank, numeric ranges) and the board's post-load invariants.
//
// Example:
//
//	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(fen string) (*board.Board, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid number of sections in FEN: '%v'", fen)
	}

	placements, err := parsePlacements(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%v in FEN: '%v'", err, fen)
	}

	var turn board.Side
	switch parts[1] {
	case "w":
		turn = board.White
	case "b":
		turn = board.Black
	default:
		return nil, fmt.Errorf("invalid active side in FEN: '%v'", fen)
	}

	castling, err := parseCastling(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%v in FEN: '%v'", err, fen)
	}

	ep := board.NoSquare
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil || (sq.Rank() != 2 && sq.Rank() != 5) {
			return nil, fmt.Errorf("invalid en passant target in FEN: '%v'", fen)
		}
		ep = sq
	}

	halfmoves, err := strconv.Atoi(parts[4])
	if err != nil || halfmoves < 0 {
		return nil, fmt.Errorf("invalid halfmove clock in FEN: '%v'", fen)
	}

	fullmoves, err := strconv.Atoi(parts[5])
	if err != nil || fullmoves < 1 {
		return nil, fmt.Errorf("invalid fullmove number in FEN: '%v'", fen)
	}

	b, err := board.NewFromSetup(board.Setup{
		Placements: placements,
		Turn:       turn,
		Castling:   castling,
		EnPassant:  ep,
		HalfMoves:  halfmoves,
		FullMoves:  fullmoves,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid position '%v': %v", fen, err)
	}
	return b, nil
}

// Encode encodes the board position in canonical FEN notation. Encoding the
// result of Decode is byte-identical for any canonical descriptor.
func Encode(b *board.Board) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		blanks := 0
		for file := 0; file < 8; file++ {
			p, ok := b.At(board.NewSquare(file, rank))
			if !ok {
				blanks++
				continue
			}

			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteString(printPiece(p.Side, p.Kind))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if rank > 0 {
			sb.WriteString("/")
		}
	}

	ep := "-"
	if sq, ok := b.EnPassantTarget(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v",
		sb.String(), b.Turn(), b.Castling(), ep, b.HalfMoves(), b.FullMoves())
}

func parsePlacements(str string) ([]board.Placement, error) {
	ranks := strings.Split(str, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid number of ranks")
	}

	var ret []board.Placement
	for i, rank := range ranks {
		file := 0
		for _, r := range rank {
			switch {
			case r >= '1' && r <= '8':
				file += int(r - '0')

			case unicode.IsLetter(r):
				kind, ok := board.ParseKind(r)
				if !ok {
					return nil, fmt.Errorf("invalid piece '%c'", r)
				}
				side := board.Black
				if unicode.IsUpper(r) {
					side = board.White
				}
				if file > 7 {
					return nil, fmt.Errorf("overlong rank '%v'", rank)
				}
				ret = append(ret, board.Placement{
					Square: board.NewSquare(file, 7-i),
					Side:   side,
					Kind:   kind,
				})
				file++

			default:
				return nil, fmt.Errorf("invalid character '%c'", r)
			}
		}
		if file != 8 {
			return nil, fmt.Errorf("invalid rank '%v'", rank)
		}
	}
	return ret, nil
}

// parseCastling parses the castling availability field: "-" or a subset of
// "KQkq" in that order, duplicates and reordering forbidden. The returned
// flags are the board's not-available form: a rook flag is set iff the
// corresponding right is absent. FEN cannot state that a king has moved, so
// the king flags are never set; this does not matter, as the rook flags alone
// reproduce the rights.
func parseCastling(str string) (board.Castling, error) {
	all := board.WhiteKingsRookMoved | board.WhiteQueensRookMoved |
		board.BlackKingsRookMoved | board.BlackQueensRookMoved

	if str == "-" {
		return all, nil
	}
	if str == "" {
		return 0, fmt.Errorf("invalid castling availability")
	}

	order := []struct {
		letter rune
		flag   board.Castling
	}{
		{'K', board.WhiteKingsRookMoved},
		{'Q', board.WhiteQueensRookMoved},
		{'k', board.BlackKingsRookMoved},
		{'q', board.BlackQueensRookMoved},
	}

	ret := all
	next := 0
	for _, r := range str {
		found := false
		for ; next < len(order); next++ {
			if order[next].letter == r {
				ret &^= order[next].flag
				next++
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("invalid castling availability '%v'", str)
		}
	}
	return ret, nil
}

func printPiece(s board.Side, k board.Kind) string {
	str := k.String()
	if s == board.White {
		return strings.ToUpper(str)
	}
	return str
}
