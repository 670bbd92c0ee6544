package engine_test

import (
	"context"
	"testing"

	"github.com/herohde/greco/pkg/board"
	"github.com/herohde/greco/pkg/board/fen"
	"github.com/herohde/greco/pkg/engine"
	"github.com/herohde/greco/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(ctx context.Context) *engine.Engine {
	e := engine.New(ctx, "Greco", "test", eval.Standard{}, engine.WithDepth(2))
	e.SetInterrupt(func() {})
	return e
}

func TestEngineMoves(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx)

	m, err := board.ParseMove("e2e4")
	require.NoError(t, err)
	require.NoError(t, e.Move(ctx, m))
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1", e.Position())

	require.NoError(t, e.TakeBack(ctx))
	assert.Equal(t, fen.Initial, e.Position())

	assert.Error(t, e.TakeBack(ctx))
}

func TestEngineIllegalMove(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx)

	m, err := board.ParseMove("e2e5")
	require.NoError(t, err)
	assert.Error(t, e.Move(ctx, m))
	assert.Equal(t, fen.Initial, e.Position())
}

func TestEngineSetBoard(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx)

	require.NoError(t, e.SetBoard(ctx, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"))
	assert.Equal(t, board.DrawByStalemate, e.Result())

	// An invalid position resets to the initial position.
	assert.Error(t, e.SetBoard(ctx, "8/8/8/8/8/8/8/8 w - - 0 1"))
	assert.Equal(t, fen.Initial, e.Position())
	assert.Equal(t, board.NoResult, e.Result())
}

func TestEngineGameOver(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx)

	// Fool's mate, played out.
	for _, str := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m, err := board.ParseMove(str)
		require.NoError(t, err)
		require.NoError(t, e.Move(ctx, m))
	}
	assert.Equal(t, board.CheckmateByBlack, e.Result())

	// Moves are rejected once the game is over.
	m, err := board.ParseMove("a2a3")
	require.NoError(t, err)
	assert.Error(t, e.Move(ctx, m))

	// A takeback reopens the game.
	require.NoError(t, e.TakeBack(ctx))
	assert.Equal(t, board.NoResult, e.Result())
}

func TestEngineFindMove(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx)

	m, ok := e.FindMove(ctx)
	require.True(t, ok)
	require.NoError(t, e.Move(ctx, m))
}

func TestEngineResign(t *testing.T) {
	ctx := context.Background()
	e := newEngine(ctx)

	e.Resign(ctx)
	assert.Equal(t, board.ResignationByWhite, e.Result())

	e.NewGame(ctx)
	assert.Equal(t, board.NoResult, e.Result())
	assert.Equal(t, fen.Initial, e.Position())
}
