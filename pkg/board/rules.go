package board

// IsAttacked returns true iff the square is attacked by the side's opponent.
// Geometry, path blocking and pawn direction are honored; en passant is not
// an attack on a square.
func (b *Board) IsAttacked(s Side, sq Square) bool {
	opp := s.Opponent()
	pieces := b.Pieces(opp)
	for i := range pieces {
		p := &pieces[i]
		if p.Captured {
			continue
		}
		if b.attacks(p, sq) {
			return true
		}
	}
	return false
}

func (b *Board) attacks(p *Piece, sq Square) bool {
	if p.Kind == Pawn {
		forward := pawnAdvance(p.Side)
		return sq == p.Square.Add(forward-0x01) || sq == p.Square.Add(forward+0x01)
	}

	deltas, sliding := pieceDeltas(p.Kind)
	for _, d := range deltas {
		for t := p.Square.Add(d); t.IsValid(); t = t.Add(d) {
			if t == sq {
				return true
			}
			if b.grid[t] != nil || !sliding {
				break
			}
		}
	}
	return false
}

// IsChecked returns true iff the side's king is attacked.
func (b *Board) IsChecked(s Side) bool {
	return b.IsAttacked(s, b.KingSquare(s))
}

// wasMoveLegal validates the move that was just applied (the side to move has
// already switched). The mover's king must not be in check. For castling, the
// castling flags must have been clear, and neither the king's starting square
// nor the square it passed through may be attacked. The flags have not been
// updated yet at this point, so b.castling holds the pre-move value.
func (b *Board) wasMoveLegal(m Move, cast castlingMove) bool {
	mover := b.turn.Opponent()
	if b.IsChecked(mover) {
		return false
	}
	if cast.ok {
		if b.castling.IsSet(kingFlag(mover) | rookFlag(mover, cast.queenside)) {
			return false
		}
		// The destination is covered by the king-in-check test above; the
		// transit square is where the rook ends up.
		if b.IsAttacked(mover, m.From) || b.IsAttacked(mover, cast.rookTo) {
			return false
		}
	}
	return true
}

// CanMakeAnyMove returns true iff the side has at least one legal move. The
// probe uses a local move stack so that a search's move stack is never
// disturbed, and tries generated moves with make and unmake until one sticks.
func (b *Board) CanMakeAnyMove(side Side) bool {
	if b.turn != side {
		b.turn = side
		defer func() { b.turn = side.Opponent() }()
	}

	local := NewMoveStack(1)
	captures, noncaptures := b.GenerateMoves(local, 0)
	for _, r := range []Range{captures, noncaptures} {
		for i := r.Begin; i < r.End; i++ {
			if b.MakeMove(local.At(i), false) {
				b.UnmakeMove()
				return true
			}
		}
	}
	return false
}

// HasInsufficientMaterial returns true iff neither side has any pawn, rook or
// queen, and the remaining minor pieces cannot force mate: no minors at all;
// a single knight or bishop in total; or no knights, bishops on both sides,
// and all bishops on the same color class of squares.
func (b *Board) HasInsufficientMaterial() bool {
	var knights, bishops [NumSides]int
	var light, dark [NumSides]int

	for side := White; side < NumSides; side++ {
		pieces := b.Pieces(side)
		for i := range pieces {
			p := &pieces[i]
			if p.Captured {
				continue
			}
			switch p.Kind {
			case Pawn, Rook, Queen:
				return false
			case Knight:
				knights[side]++
			case Bishop:
				bishops[side]++
				if p.Square.IsLight() {
					light[side]++
				} else {
					dark[side]++
				}
			}
		}
	}

	wMinors := knights[White] + bishops[White]
	bMinors := knights[Black] + bishops[Black]

	// King versus king.
	if wMinors == 0 && bMinors == 0 {
		return true
	}
	// King versus king and a single knight or bishop.
	if wMinors+bMinors == 1 {
		return true
	}
	// Bishops only, each side on a single color class, and both sides on the
	// same class.
	if knights[White] == 0 && knights[Black] == 0 && bishops[White] > 0 && bishops[Black] > 0 {
		wLight, bLight := light[White] > 0, light[Black] > 0
		wOneClass := light[White] == 0 || dark[White] == 0
		bOneClass := light[Black] == 0 || dark[Black] == 0
		if wOneClass && bOneClass && wLight == bLight {
			return true
		}
	}
	return false
}

// GameResult derives the result of the current position: a draw by
// insufficient material, or checkmate/stalemate when the side to move has no
// legal move. Externally adjudicated results (resignations) are tracked
// separately via Adjudicate and take priority over this derivation.
func (b *Board) GameResult() Result {
	if b.HasInsufficientMaterial() {
		return DrawByInsufficientMaterial
	}
	if !b.CanMakeAnyMove(b.turn) {
		if b.IsChecked(b.turn) {
			if b.turn == White {
				return CheckmateByBlack
			}
			return CheckmateByWhite
		}
		return DrawByStalemate
	}
	return NoResult
}
