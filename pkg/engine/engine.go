// Package engine ties the board, search and evaluation together behind the
// operations a protocol driver needs.
package engine

import (
	"context"
	"fmt"

	"github.com/herohde/greco/pkg/board"
	"github.com/herohde/greco/pkg/board/fen"
	"github.com/herohde/greco/pkg/eval"
	"github.com/herohde/greco/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
)

var version = build.NewVersion(0, 9, 1)

// Engine encapsulates game-playing logic, search and evaluation. It is an
// explicit context value and deliberately single-threaded: the protocol
// driver and the search share one thread, interleaved through the search's
// interrupt callback, so no locking is needed or present.
type Engine struct {
	name, author string

	b *board.Board
	s *search.Search
}

// Option is an engine creation option.
type Option func(*Engine)

// WithDepth sets the initial search depth limit. Zero means unbounded.
func WithDepth(depth int) Option {
	return func(e *Engine) {
		e.s.SetDepth(depth)
	}
}

// WithTime sets the initial search time budget in seconds. Zero means the
// default.
func WithTime(seconds int) Option {
	return func(e *Engine) {
		e.s.SetTime(seconds)
	}
}

func New(ctx context.Context, name, author string, ev eval.Evaluator, opts ...Option) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		b:      board.New(),
		s:      search.New(ev),
	}
	for _, fn := range opts {
		fn(e)
	}

	logw.Infof(ctx, "Initialized engine: %v", e.Name())
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

// Board returns the engine's board. The caller shares the engine's thread
// and must not hold the reference across engine operations that replace the
// board (NewGame, SetBoard).
func (e *Engine) Board() *board.Board {
	return e.b
}

// Position returns the current position in FEN notation.
func (e *Engine) Position() string {
	return fen.Encode(e.b)
}

// Render returns the current position as an ASCII board.
func (e *Engine) Render() string {
	return e.b.Render()
}

// SetInterrupt sets the search interrupt callback. Must be set before the
// first FindMove.
func (e *Engine) SetInterrupt(fn func()) {
	e.s.SetInterrupt(fn)
}

// NewGame resets the board to the initial position and the search depth and
// time to their defaults.
func (e *Engine) NewGame(ctx context.Context) {
	e.b = board.New()
	e.s.SetDepth(0)
	e.s.SetTime(0)

	logw.Infof(ctx, "New game: %v", e.b)
}

// SetBoard replaces the current position with the given FEN descriptor. If
// the descriptor fails to parse or violates a position invariant, the board
// is reset to the initial position and an error returned: a clean slate is
// safer than a partially corrupted one.
func (e *Engine) SetBoard(ctx context.Context, position string) error {
	b, err := fen.Decode(position)
	if err != nil {
		e.b = board.New()
		return err
	}

	e.b = b
	if r := b.GameResult(); r != board.NoResult {
		b.Adjudicate(r)
	}

	logw.Infof(ctx, "Set board %v: %v", position, e.b)
	return nil
}

// Move makes the given move with strict validation, usually a user move, and
// adjudicates any resulting game end.
func (e *Engine) Move(ctx context.Context, m board.Move) error {
	if e.b.Result() != board.NoResult {
		return fmt.Errorf("game is over: %v", e.b.Result())
	}
	if !e.b.MakeMove(m, true) {
		return fmt.Errorf("illegal move: %v", m)
	}
	if r := e.b.GameResult(); r != board.NoResult {
		e.b.Adjudicate(r)
	}

	logw.Infof(ctx, "Move %v: %v", m, e.b)
	return nil
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	if !e.b.UnmakeMove() {
		return fmt.Errorf("no move to take back")
	}

	logw.Infof(ctx, "Takeback: %v", e.b)
	return nil
}

// FindMove searches the current position for the best move. It blocks until
// the search completes or is aborted; input arriving meanwhile is handled by
// the interrupt callback. Returns false if no legal move exists or the
// position is already a draw by insufficient material.
func (e *Engine) FindMove(ctx context.Context) (board.Move, bool) {
	return e.s.FindMove(ctx, e.b)
}

// AbortSearch requests that an in-flight search unwind promptly.
func (e *Engine) AbortSearch() {
	e.s.Abort()
}

// SetDepth sets the maximum search depth. Zero means unbounded.
func (e *Engine) SetDepth(ctx context.Context, depth int) {
	e.s.SetDepth(depth)
	logw.Infof(ctx, "Search depth: %v", e.s.Depth())
}

// SetTime sets the search time budget in seconds. Zero means the default.
func (e *Engine) SetTime(ctx context.Context, seconds int) {
	e.s.SetTime(seconds)
	logw.Infof(ctx, "Search time: %v", e.s.Budget())
}

// IsResignationSensible returns true iff the last search concluded that
// losing is unavoidable.
func (e *Engine) IsResignationSensible() bool {
	return e.s.IsResignationSensible()
}

// Resign adjudicates the game as a resignation by the side to move.
func (e *Engine) Resign(ctx context.Context) {
	r := board.ResignationByWhite
	if e.b.Turn() == board.Black {
		r = board.ResignationByBlack
	}
	e.b.Adjudicate(r)

	logw.Infof(ctx, "Resigned: %v", e.b)
}

// Result returns the game result, if any.
func (e *Engine) Result() board.Result {
	return e.b.Result()
}
