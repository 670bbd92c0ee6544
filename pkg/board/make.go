package board

// undo records everything needed to reverse a move exactly: the move, the
// captured piece (for en passant the pawn on the adjacent file, not the one
// on the destination), and the castling flags, en passant state and halfmove
// clock as they were before the move.
type undo struct {
	move      Move
	captured  *Piece
	castling  Castling
	enpassant Square
	halfmoves int
}

const initialHistoryCapacity = 200

// castlingMove describes the rook leg of a castling move, derived from the
// king's two-square geometry.
type castlingMove struct {
	ok        bool
	queenside bool
	rookFrom  Square
	rookTo    Square
	between   Square // extra empty square on the queenside (b-file), else NoSquare
}

func castlingFor(kind Kind, from, to Square) castlingMove {
	if kind != King {
		return castlingMove{}
	}
	switch {
	case from == E1 && to == G1:
		return castlingMove{ok: true, rookFrom: H1, rookTo: F1, between: NoSquare}
	case from == E1 && to == C1:
		return castlingMove{ok: true, queenside: true, rookFrom: A1, rookTo: D1, between: B1}
	case from == E8 && to == G8:
		return castlingMove{ok: true, rookFrom: H8, rookTo: F8, between: NoSquare}
	case from == E8 && to == C8:
		return castlingMove{ok: true, queenside: true, rookFrom: A8, rookTo: D8, between: B8}
	default:
		return castlingMove{}
	}
}

// MakeMove attempts to make the given move for the side to move and reports
// whether it was legal. Non-strict validation trusts generated geometry and
// checks king safety only; strict validation is for user-entered moves: the
// move must match a generated pseudo-legal move, which also means a pawn
// move to the back rank must carry a promotion kind. An illegal move leaves
// the board unchanged.
func (b *Board) MakeMove(m Move, strict bool) bool {
	if strict && !b.isPseudoLegal(m) {
		return false
	}
	if !m.From.IsValid() || !m.To.IsValid() {
		return false
	}
	piece := b.grid[m.From]
	if piece == nil || piece.Side != b.turn {
		return false
	}
	if o := b.grid[m.To]; o != nil && o.Side == b.turn {
		return false
	}

	backrank := m.To.Rank() == 0 || m.To.Rank() == 7
	if m.Promotion != NoKind && (piece.Kind != Pawn || !backrank) {
		return false
	}

	cast := castlingFor(piece.Kind, m.From, m.To)
	if cast.ok {
		rook := b.grid[cast.rookFrom]
		if rook == nil || rook.Captured || rook.Kind != Rook || rook.Side != b.turn {
			return false
		}
		if b.grid[cast.rookTo] != nil || b.grid[m.To] != nil {
			return false
		}
		if cast.between != NoSquare && b.grid[cast.between] != nil {
			return false
		}
	}

	// The captured piece, if any, sits on the destination square except for
	// en passant, where it is the pawn that just made the two-step advance.
	capturedSquare := m.To
	if piece.Kind == Pawn && b.enpassant != NoSquare {
		if (m.From == b.enpassant.Add(-0x01) || m.From == b.enpassant.Add(0x01)) &&
			m.To == enPassantDestination(b.enpassant) {
			capturedSquare = b.enpassant
		}
	}

	captured := b.grid[capturedSquare]
	if captured != nil {
		captured.Captured = true
	}

	if b.history == nil {
		b.history = make([]undo, 0, initialHistoryCapacity)
	}
	b.history = append(b.history, undo{
		move:      m,
		captured:  captured,
		castling:  b.castling,
		enpassant: b.enpassant,
		halfmoves: b.halfmoves,
	})

	b.grid[m.From] = nil
	b.grid[capturedSquare] = nil
	b.grid[m.To] = piece
	piece.Square = m.To

	if cast.ok {
		rook := b.grid[cast.rookFrom]
		rook.Square = cast.rookTo
		b.grid[cast.rookTo] = rook
		b.grid[cast.rookFrom] = nil
		b.hasCastled[piece.Side] = true
	}
	if m.Promotion != NoKind {
		piece.Kind = m.Promotion
	}

	if piece.Kind == Pawn || m.Promotion != NoKind || captured != nil {
		b.halfmoves = 0
	} else {
		b.halfmoves++
	}
	if b.turn == Black {
		b.fullmoves++
	}
	b.turn = b.turn.Opponent()

	if !b.wasMoveLegal(m, cast) {
		b.UnmakeMove()
		return false
	}

	b.updateCastlingFlags(piece, m, captured, capturedSquare)

	b.enpassant = NoSquare
	if piece.Kind == Pawn && (m.To == m.From.Add(0x20) || m.To == m.From.Add(-0x20)) {
		b.enpassant = m.To
	}

	return true
}

// updateCastlingFlags marks castling pieces that moved away from, or enemy
// rooks that were captured on, their starting squares. The capture rule
// guards against castling with a rook that was promoted and moved back to a
// starting corner after the original was captured there.
func (b *Board) updateCastlingFlags(piece *Piece, m Move, captured *Piece, capturedSquare Square) {
	switch piece.Kind {
	case King:
		b.castling |= kingFlag(piece.Side)
	case Rook:
		switch m.From {
		case H1:
			b.castling |= WhiteKingsRookMoved
		case A1:
			b.castling |= WhiteQueensRookMoved
		case H8:
			b.castling |= BlackKingsRookMoved
		case A8:
			b.castling |= BlackQueensRookMoved
		}
	}

	if captured != nil && captured.Kind == Rook {
		switch capturedSquare {
		case H1:
			b.castling |= WhiteKingsRookMoved
		case A1:
			b.castling |= WhiteQueensRookMoved
		case H8:
			b.castling |= BlackKingsRookMoved
		case A8:
			b.castling |= BlackQueensRookMoved
		}
	}
}

// isPseudoLegal reports whether the move is among the generated pseudo-legal
// moves for the side to move. The probe uses a local move stack so an
// in-flight search's move stack is never disturbed.
func (b *Board) isPseudoLegal(m Move) bool {
	local := NewMoveStack(1)
	captures, noncaptures := b.GenerateMoves(local, 0)
	for _, r := range []Range{captures, noncaptures} {
		for i := r.Begin; i < r.End; i++ {
			if local.At(i).Equals(m) {
				return true
			}
		}
	}
	return false
}

// UnmakeMove reverses the most recent move exactly. Castling flags and the en
// passant state are restored from the undo record, not re-derived. Reports
// false if there is no move to unmake.
func (b *Board) UnmakeMove() bool {
	if len(b.history) == 0 {
		return false
	}
	u := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]

	// A move was made from here, so the position was not terminal.
	b.result = NoResult

	m := u.move
	piece := b.grid[m.To]
	piece.Square = m.From
	if m.Promotion != NoKind {
		piece.Kind = Pawn
	}

	capturedSquare := m.To
	if piece.Kind == Pawn && u.enpassant != NoSquare {
		if (m.From == u.enpassant.Add(-0x01) || m.From == u.enpassant.Add(0x01)) &&
			m.To == enPassantDestination(u.enpassant) {
			capturedSquare = u.enpassant
		}
	}

	b.grid[m.From] = piece
	b.grid[m.To] = nil
	if u.captured != nil {
		u.captured.Captured = false
	}
	b.grid[capturedSquare] = u.captured

	if cast := castlingFor(piece.Kind, m.From, m.To); cast.ok {
		rook := b.grid[cast.rookTo]
		rook.Square = cast.rookFrom
		b.grid[cast.rookFrom] = rook
		b.grid[cast.rookTo] = nil
		b.hasCastled[piece.Side] = false
	}

	b.castling = u.castling
	b.enpassant = u.enpassant
	b.halfmoves = u.halfmoves
	b.turn = b.turn.Opponent()
	if b.turn == Black {
		b.fullmoves--
	}
	return true
}
