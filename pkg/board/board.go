package board

import (
	"fmt"
	"strings"
)

// sideCapacity is the number of piece slots per side. A position descriptor
// can place at most 64 pieces in total, so 64 slots per side is never
// exceeded.
const sideCapacity = 64

type pieceRange struct {
	begin, end int
}

// Board holds a full game state: the 128-slot 0x88 grid, the piece list
// partitioned into one range per side (with each king in the first slot of
// its side's range), side to move, castling and en passant state, and the
// undo history. It is an explicit context value; no global state. Not
// thread-safe.
type Board struct {
	grid   [128]*Piece
	pieces [NumSides * sideCapacity]Piece
	ranges [NumSides]pieceRange

	turn       Side
	castling   Castling
	enpassant  Square // square of the pawn that just jumped, or NoSquare
	hasCastled [NumSides]bool

	halfmoves, fullmoves int

	history []undo
	result  Result
}

// Placement defines a piece placement for board setup.
type Placement struct {
	Square Square
	Side   Side
	Kind   Kind
}

func (p Placement) String() string {
	return printPiece(p.Side, p.Kind) + "@" + p.Square.String()
}

// Setup describes a position to load: placements, side to move, the castling
// not-available flags, the en passant target square (the square behind the
// pawn that just made a two-step advance, as in FEN) and the move counters.
type Setup struct {
	Placements []Placement
	Turn       Side
	Castling   Castling
	EnPassant  Square // target square or NoSquare
	HalfMoves  int
	FullMoves  int
}

var initialPlacements = func() []Placement {
	backrank := []Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

	var ret []Placement
	for f, k := range backrank {
		ret = append(ret,
			Placement{NewSquare(f, 0), White, k},
			Placement{NewSquare(f, 1), White, Pawn},
			Placement{NewSquare(f, 7), Black, k},
			Placement{NewSquare(f, 6), Black, Pawn},
		)
	}
	return ret
}()

// New returns a board at the standard initial position.
func New() *Board {
	b, err := NewFromSetup(Setup{
		Placements: initialPlacements,
		Turn:       White,
		EnPassant:  NoSquare,
		FullMoves:  1,
	})
	if err != nil {
		panic(fmt.Sprintf("initial position rejected: %v", err))
	}
	return b
}

// NewFromSetup returns a board for the given position. It enforces the
// post-load invariants: exactly one king per side, castling availability
// consistent with king and rook placement, an actual pawn behind any en
// passant target, and the position not being a checkmate or stalemate for
// both sides at once.
func NewFromSetup(s Setup) (*Board, error) {
	b := &Board{
		turn:      s.Turn,
		castling:  s.Castling,
		enpassant: NoSquare,
		halfmoves: s.HalfMoves,
		fullmoves: s.FullMoves,
	}
	b.ranges[White] = pieceRange{0, 0}
	b.ranges[Black] = pieceRange{sideCapacity, sideCapacity}

	for _, p := range s.Placements {
		if !p.Square.IsValid() || !p.Kind.IsValid() {
			return nil, fmt.Errorf("invalid placement: %v", p)
		}
		if b.grid[p.Square] != nil {
			return nil, fmt.Errorf("duplicate placement: %v", p)
		}

		r := &b.ranges[p.Side]
		piece := &b.pieces[r.end]
		r.end++

		*piece = Piece{Kind: p.Kind, Side: p.Side, Square: p.Square}
		b.grid[p.Square] = piece
	}

	// Each side has exactly one king, stored in the first slot of its range
	// for cheap lookup.
	for side := White; side < NumSides; side++ {
		r := b.ranges[side]
		kings := 0
		for i := r.begin; i < r.end; i++ {
			if b.pieces[i].Kind == King {
				kings++
				b.swapPieces(i, r.begin)
			}
		}
		if kings != 1 {
			return nil, fmt.Errorf("invalid number of kings for %v: %v", side, kings)
		}
	}

	if err := b.validateCastling(); err != nil {
		return nil, err
	}
	if err := b.loadEnPassant(s.EnPassant); err != nil {
		return nil, err
	}

	whiteMoves, blackMoves := b.CanMakeAnyMove(White), b.CanMakeAnyMove(Black)
	if !whiteMoves && !blackMoves {
		if b.IsChecked(White) && b.IsChecked(Black) {
			return nil, fmt.Errorf("both sides are checkmated")
		}
		if !b.IsChecked(White) && !b.IsChecked(Black) {
			return nil, fmt.Errorf("both sides are stalemated")
		}
	}

	return b, nil
}

func (b *Board) swapPieces(i, j int) {
	if i == j {
		return
	}
	b.pieces[i], b.pieces[j] = b.pieces[j], b.pieces[i]
	b.grid[b.pieces[i].Square] = &b.pieces[i]
	b.grid[b.pieces[j].Square] = &b.pieces[j]
}

// validateCastling rejects castling availability that does not match the
// placement of the king and rooks.
func (b *Board) validateCastling() error {
	type right struct {
		side      Side
		queenside bool
		king      Square
		rook      Square
	}
	rights := []right{
		{White, false, E1, H1},
		{White, true, E1, A1},
		{Black, false, E8, H8},
		{Black, true, E8, A8},
	}

	for _, r := range rights {
		if !b.castling.MayCastle(r.side, r.queenside) {
			continue
		}
		if k := b.grid[r.king]; k == nil || k.Kind != King || k.Side != r.side {
			return fmt.Errorf("castling available for %v but king is not on %v", r.side, r.king)
		}
		if rk := b.grid[r.rook]; rk == nil || rk.Kind != Rook || rk.Side != r.side {
			return fmt.Errorf("castling available for %v but rook is not on %v", r.side, r.rook)
		}
	}
	return nil
}

// loadEnPassant converts the FEN-style target square (behind the pawn) into
// the internal form (the square of the pawn itself).
func (b *Board) loadEnPassant(target Square) error {
	if target == NoSquare {
		return nil
	}

	var pawn Square
	var side Side
	switch target.Rank() {
	case 2: // white pawn just advanced two squares
		pawn, side = target.Add(0x10), White
	case 5: // black pawn just advanced two squares
		pawn, side = target.Add(-0x10), Black
	default:
		return fmt.Errorf("en passant target not on rank 3 or 6: %v", target)
	}
	if side == b.turn {
		return fmt.Errorf("en passant target %v for the side to move", target)
	}

	p := b.grid[pawn]
	if p == nil || p.Kind != Pawn || p.Side != side {
		return fmt.Errorf("no pawn behind en passant target %v", target)
	}
	b.enpassant = pawn
	return nil
}

// Turn returns the side to move.
func (b *Board) Turn() Side {
	return b.turn
}

// Castling returns the castling not-available flags.
func (b *Board) Castling() Castling {
	return b.castling
}

// HasCastled returns true iff the side has castled.
func (b *Board) HasCastled(s Side) bool {
	return b.hasCastled[s]
}

// EnPassant returns the square of the pawn that just made a two-step advance,
// if any.
func (b *Board) EnPassant() (Square, bool) {
	return b.enpassant, b.enpassant != NoSquare
}

// EnPassantTarget returns the en passant target square in the external form:
// the square behind the pawn that just made a two-step advance.
func (b *Board) EnPassantTarget() (Square, bool) {
	if b.enpassant == NoSquare {
		return NoSquare, false
	}
	return enPassantDestination(b.enpassant), true
}

func (b *Board) HalfMoves() int {
	return b.halfmoves
}

func (b *Board) FullMoves() int {
	return b.fullmoves
}

// Ply returns the number of moves made on the board since it was loaded.
func (b *Board) Ply() int {
	return len(b.history)
}

// At returns the piece at the given square, if any.
func (b *Board) At(sq Square) (Piece, bool) {
	if !sq.IsValid() || b.grid[sq] == nil {
		return Piece{}, false
	}
	return *b.grid[sq], true
}

// Pieces returns the piece records of the given side. The king occupies the
// first slot. The slice aliases board state and must not be mutated.
func (b *Board) Pieces(s Side) []Piece {
	r := b.ranges[s]
	return b.pieces[r.begin:r.end]
}

func (b *Board) king(s Side) *Piece {
	return &b.pieces[b.ranges[s].begin]
}

// KingSquare returns the square of the given side's king.
func (b *Board) KingSquare(s Side) Square {
	return b.king(s).Square
}

// Result returns the adjudicated game result, if any.
func (b *Board) Result() Result {
	return b.result
}

// Adjudicate records the game result. Used for rule-derived results after a
// move and for externally decided resignations.
func (b *Board) Adjudicate(r Result) {
	b.result = r
}

// Render returns the board as ASCII: eight rows, the side-to-move's
// opponent's back rank on top, files separated by single spaces, white pieces
// upper-case, black lower-case, empty squares as '.'.
func (b *Board) Render() string {
	var rows []string
	for r := 0; r < 8; r++ {
		rank := 7 - r
		if b.turn == Black {
			rank = r
		}

		cells := make([]string, 8)
		for f := 0; f < 8; f++ {
			cells[f] = "."
			if p := b.grid[NewSquare(f, rank)]; p != nil {
				cells[f] = printPiece(p.Side, p.Kind)
			}
		}
		rows = append(rows, strings.Join(cells, " "))
	}
	return strings.Join(rows, "\n")
}

func (b *Board) String() string {
	ep := "-"
	if sq, ok := b.EnPassantTarget(); ok {
		ep = sq.String()
	}
	return fmt.Sprintf("board{turn=%v, castling=%v, ep=%v, ply=%v, result=%v}",
		b.turn, b.castling, ep, b.Ply(), b.result)
}
