package eval_test

import (
	"testing"

	"github.com/herohde/greco/pkg/board"
	"github.com/herohde/greco/pkg/board/fen"
	"github.com/herohde/greco/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluate(t *testing.T, position string) eval.Score {
	t.Helper()
	b, err := fen.Decode(position)
	require.NoError(t, err)
	return eval.Standard{}.Evaluate(b)
}

func TestEvaluateSymmetry(t *testing.T) {
	// A mirrored position scores the same for either side to move.
	assert.Equal(t, eval.Score(0), evaluate(t, fen.Initial))
	assert.Equal(t, eval.Score(0), evaluate(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1"))

	white := evaluate(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	black := evaluate(t, "4k3/4p3/8/8/8/8/8/4K3 b - - 0 1")
	assert.Equal(t, white, black)
	assert.Positive(t, white)
}

func TestEvaluateMaterial(t *testing.T) {
	// Adding a piece to a bare-kings position: score differences reflect the
	// material values.
	base := evaluate(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")

	tests := []struct {
		fen   string
		value eval.Score
	}{
		{"4k3/8/8/8/3Q4/8/8/4K3 w - - 0 1", eval.QueenValue},
		{"4k3/8/8/8/3R4/8/8/4K3 w - - 0 1", eval.RookValue},
	}
	for _, tt := range tests {
		score := evaluate(t, tt.fen)
		diff := score - base

		// The queen and rook carry no location bonus, and white stays in the
		// endgame (material at most 1200), so the king keeps its table bonus
		// and the difference is the material value. The assertion allows a
		// window around it.
		assert.GreaterOrEqual(t, diff, tt.value-50)
		assert.LessOrEqual(t, diff, tt.value+50)
	}
}

func TestEvaluatePieceSquare(t *testing.T) {
	// A centralized knight outscores a cornered one.
	center := evaluate(t, "4k3/8/8/8/3N4/8/8/4K3 w - - 0 1")
	corner := evaluate(t, "4k3/8/8/8/8/8/8/N3K3 w - - 0 1")
	assert.Greater(t, center, corner)

	// An advanced pawn outscores an unmoved one.
	advanced := evaluate(t, "4k3/8/1P6/8/8/8/8/4K3 w - - 0 1")
	home := evaluate(t, "4k3/8/8/8/8/8/1P6/4K3 w - - 0 1")
	assert.Greater(t, advanced, home)
}

func TestEvaluateCastlingPenalty(t *testing.T) {
	// Equal material; white has lost both castling rights unused.
	intact := evaluate(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	lost := evaluate(t, "r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w kq - 0 1")

	assert.Equal(t, eval.Score(0), intact)
	assert.Equal(t, eval.Score(-40), lost)
}

func TestEvaluateCastledSidePaysNoPenalty(t *testing.T) {
	b, err := fen.Decode("r3k2r/pppppppp/8/8/8/8/PPPPPPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	// After castling, white has no rights left but used them: no penalty
	// beyond the symmetric position scores.
	require.True(t, b.MakeMove(board.Move{From: board.E1, To: board.G1}, true))
	require.True(t, b.HasCastled(board.White))

	score := eval.Standard{}.Evaluate(b) // black to move
	castledPST := eval.Score(30 - 0)     // king g1 vs e1 table bonus
	rookPST := eval.Score(0)             // rooks carry no table

	// Black's total is unchanged; white gained only the king placement.
	assert.Equal(t, -(castledPST + rookPST), score)
}
