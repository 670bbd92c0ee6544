// Package search contains the move search: fixed-depth negamax with
// alpha-beta pruning, cooperatively interruptible through a callback.
package search

import (
	"context"
	"time"

	"github.com/herohde/greco/pkg/board"
	"github.com/herohde/greco/pkg/eval"
	"github.com/seekerror/logw"
)

const (
	// Infinity exceeds any static evaluation by enough that every mate
	// score, -(Infinity - height), stays below every non-mate score.
	Infinity eval.Score = 100000

	// MaxDepth bounds the search depth in plies.
	MaxDepth = 80

	// DefaultTime is the default search time budget.
	DefaultTime = 15 * time.Second

	// interruptInterval is the number of nodes between time-budget checks
	// and interrupt callback invocations.
	interruptInterval = 10000
)

// resignationThreshold is the score at or below which a loss is theoretically
// unavoidable within the maximum search depth.
const resignationThreshold = -(Infinity - MaxDepth)

// Search holds the search configuration and per-search state. It drives
// negamax with alpha-beta pruning over the window (-Infinity, +Infinity):
//
//	search(height, α, β):
//	  every N nodes: check the time budget; call the interrupt callback
//	  if abort requested: return α
//	  if height >= depth limit: return evaluate()
//	  if insufficient material: return 0
//	  for each pseudo-legal move, captures first:
//	    if not make-move(m): continue
//	    v = -search(height+1, -β, -α)
//	    unmake-move()
//	    if v > α: α = v (track the best root move)
//	    if β <= α: break
//	  if no legal move: checkmated ? -(Infinity-height) : 0
//	  return α
//
// The mate score prefers faster mates; the cutoff is fail-hard. Captures are
// tried before non-captures via the move stack's two-ended fill. Not
// thread-safe: the search and its caller share one thread, interleaved
// through the interrupt callback.
type Search struct {
	Eval eval.Evaluator

	interrupt func()
	depth     int
	budget    time.Duration

	stack *board.MoveStack

	abort       bool
	start       time.Time
	ticks       int
	nodes       uint64
	bestIdx     int
	resignation bool
}

// New returns a search with the default depth and time budget. The interrupt
// callback must be set before the first FindMove.
func New(ev eval.Evaluator) *Search {
	return &Search{
		Eval:   ev,
		depth:  MaxDepth,
		budget: DefaultTime,
		stack:  board.NewMoveStack(1),
	}
}

// SetInterrupt sets the callback invoked every interrupt interval. The
// callback may process input, change the depth or time settings, and request
// an abort.
func (s *Search) SetInterrupt(fn func()) {
	s.interrupt = fn
}

// SetDepth sets the maximum search depth in plies. Zero or out-of-range
// values select the unbounded maximum.
func (s *Search) SetDepth(depth int) {
	if depth <= 0 || depth > MaxDepth {
		depth = MaxDepth
	}
	s.depth = depth
}

func (s *Search) Depth() int {
	return s.depth
}

// SetTime sets the search time budget in seconds. Zero or negative values
// select the default.
func (s *Search) SetTime(seconds int) {
	if seconds <= 0 {
		s.budget = DefaultTime
		return
	}
	s.budget = time.Duration(seconds) * time.Second
}

func (s *Search) Budget() time.Duration {
	return s.budget
}

// Abort requests that the in-flight search unwind and return the best move
// found so far. Callable from the interrupt callback.
func (s *Search) Abort() {
	s.abort = true
}

// Nodes returns the node count of the last search.
func (s *Search) Nodes() uint64 {
	return s.nodes
}

// IsResignationSensible returns true iff the last search concluded that
// losing is theoretically unavoidable.
func (s *Search) IsResignationSensible() bool {
	return s.resignation
}

// FindMove searches the position and returns the selected move. Returns
// false if no legal move exists, and also if the position is already a draw
// by insufficient material, as no root move is searched then. If the search
// is aborted before any
// root move is fully scored, the first root move visited is adopted: any
// move is better than none if we must move.
func (s *Search) FindMove(ctx context.Context, b *board.Board) (board.Move, bool) {
	if s.interrupt == nil {
		logw.Exitf(ctx, "Search interrupt callback not set")
	}

	s.abort = false
	s.bestIdx = -1
	s.nodes = 0

	// The move stack is sized to the depth limit here and nowhere else: a
	// depth raised mid-search must not reallocate slices an in-flight
	// generation still points into.
	s.stack.EnsurePlies(s.depth)

	score := s.negamax(b, 0, -Infinity, Infinity)
	s.resignation = score <= resignationThreshold

	logw.Debugf(ctx, "Searched %v: score=%v, nodes=%v, abort=%v", b, score, s.nodes, s.abort)

	if s.bestIdx < 0 {
		return board.Move{}, false
	}
	return s.stack.At(s.bestIdx), true
}

func (s *Search) negamax(b *board.Board, height int, alpha, beta eval.Score) eval.Score {
	if height == 0 {
		s.ticks = 0
		s.start = time.Now()
	} else {
		s.ticks++
	}
	s.nodes++

	if s.ticks == interruptInterval {
		s.ticks = 0
		if time.Since(s.start) >= s.budget {
			s.abort = true
		}
		s.interrupt()
	}
	if s.abort {
		return alpha
	}

	// Re-read the depth limit every node: it may be lowered while the search
	// is running. A raised limit is capped by the move stack until the next
	// search.
	depth := s.depth
	if plies := s.stack.Plies(); depth > plies {
		depth = plies
	}
	if height >= depth {
		return s.Eval.Evaluate(b)
	}
	if b.HasInsufficientMaterial() {
		return 0
	}

	captures, noncaptures := b.GenerateMoves(s.stack, height)
	hasLegal := false
	for _, r := range []board.Range{captures, noncaptures} {
		for idx := r.Begin; idx < r.End; idx++ {
			if !b.MakeMove(s.stack.At(idx), false) {
				continue // skip: leaves own king in check
			}
			hasLegal = true

			v := -s.negamax(b, height+1, -beta, -alpha)
			b.UnmakeMove()

			if s.abort {
				if height == 0 && s.bestIdx < 0 {
					s.bestIdx = idx
				}
				return alpha
			}
			if v > alpha {
				alpha = v
				if height == 0 {
					s.bestIdx = idx
				}
			}
			if beta <= alpha {
				return alpha // fail-hard cutoff
			}
		}
	}

	if !hasLegal {
		if b.IsChecked(b.Turn()) {
			return -(Infinity - eval.Score(height)) // prefer faster mates
		}
		return 0 // stalemate
	}
	return alpha
}
