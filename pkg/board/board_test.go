package board_test

import (
	"strings"
	"testing"

	"github.com/herohde/greco/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	b := board.New()

	assert.Equal(t, board.White, b.Turn())
	assert.Equal(t, board.Castling(0), b.Castling())
	assert.Equal(t, 0, b.Ply())
	assert.Equal(t, board.NoResult, b.Result())

	_, ok := b.EnPassant()
	assert.False(t, ok)

	p, ok := b.At(board.E1)
	require.True(t, ok)
	assert.Equal(t, board.King, p.Kind)
	assert.Equal(t, board.White, p.Side)

	// The king occupies the first slot of each side's range.
	assert.Equal(t, board.King, b.Pieces(board.White)[0].Kind)
	assert.Equal(t, board.King, b.Pieces(board.Black)[0].Kind)
	assert.Equal(t, board.E1, b.KingSquare(board.White))
	assert.Equal(t, board.E8, b.KingSquare(board.Black))
}

func TestNewFromSetupRejects(t *testing.T) {
	tests := []struct {
		name  string
		setup board.Setup
	}{
		{
			"no kings",
			board.Setup{
				Placements: []board.Placement{
					{board.E4, board.White, board.Pawn},
				},
				EnPassant: board.NoSquare,
				FullMoves: 1,
			},
		},
		{
			"two white kings",
			board.Setup{
				Placements: []board.Placement{
					{board.E1, board.White, board.King},
					{board.A1, board.White, board.King},
					{board.E8, board.Black, board.King},
				},
				EnPassant: board.NoSquare,
				FullMoves: 1,
			},
		},
		{
			"duplicate placement",
			board.Setup{
				Placements: []board.Placement{
					{board.E1, board.White, board.King},
					{board.E1, board.Black, board.King},
				},
				EnPassant: board.NoSquare,
				FullMoves: 1,
			},
		},
		{
			"castling right without rook",
			board.Setup{
				Placements: []board.Placement{
					{board.E1, board.White, board.King},
					{board.E8, board.Black, board.King},
				},
				Castling: board.WhiteQueensRookMoved |
					board.BlackKingsRookMoved | board.BlackQueensRookMoved,
				EnPassant: board.NoSquare,
				FullMoves: 1,
			},
		},
		{
			"en passant target without pawn",
			board.Setup{
				Placements: []board.Placement{
					{board.E1, board.White, board.King},
					{board.E8, board.Black, board.King},
				},
				Castling: board.WhiteKingsRookMoved | board.WhiteQueensRookMoved |
					board.BlackKingsRookMoved | board.BlackQueensRookMoved,
				EnPassant: board.E3,
				FullMoves: 1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := board.NewFromSetup(tt.setup)
			assert.Error(t, err)
		})
	}
}

func TestRender(t *testing.T) {
	b := board.New()

	// White to move: the opponent's back rank on top.
	rows := strings.Split(b.Render(), "\n")
	require.Len(t, rows, 8)
	assert.Equal(t, "r n b q k b n r", rows[0])
	assert.Equal(t, "p p p p p p p p", rows[1])
	assert.Equal(t, ". . . . . . . .", rows[2])
	assert.Equal(t, "P P P P P P P P", rows[6])
	assert.Equal(t, "R N B Q K B N R", rows[7])

	// After a move, the board faces the other player.
	require.True(t, b.MakeMove(board.Move{From: board.E2, To: board.E4}, true))
	rows = strings.Split(b.Render(), "\n")
	assert.Equal(t, "R N B Q K B N R", rows[0])
	assert.Equal(t, "r n b q k b n r", rows[7])
}

func TestIsLight(t *testing.T) {
	assert.False(t, board.A1.IsLight())
	assert.True(t, board.H1.IsLight())
	assert.True(t, board.A8.IsLight())
	assert.False(t, board.H8.IsLight())
	assert.True(t, board.E4.IsLight())
	assert.False(t, board.D4.IsLight())
}

func TestParseMove(t *testing.T) {
	m, err := board.ParseMove("e2e4")
	require.NoError(t, err)
	assert.Equal(t, board.Move{From: board.E2, To: board.E4}, m)
	assert.Equal(t, "e2e4", m.String())

	m, err = board.ParseMove("a7a8q")
	require.NoError(t, err)
	assert.Equal(t, board.Move{From: board.A7, To: board.A8, Promotion: board.Queen}, m)
	assert.Equal(t, "a7a8q", m.String())

	for _, bad := range []string{"", "e2", "e2e", "e2e4qq", "e2e9", "i2i4", "e2e4k", "e2e4Q"} {
		_, err := board.ParseMove(bad)
		assert.Errorf(t, err, "expected error: %v", bad)
	}
}
