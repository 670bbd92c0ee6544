// Package cecp contains a driver for using the engine under the Chess Engine
// Communication Protocol (CECP), as spoken by xboard-compatible interfaces.
//
// See: https://www.gnu.org/software/xboard/engine-intf.html
//
// The driver is single-threaded: commands, the search and the responses all
// share one goroutine. While the engine is searching, the search's interrupt
// callback reads and handles newly arrived input, so that move-now, force and
// quit act promptly. Commands that mutate board state are requeued and
// replayed after the aborted search unwinds, which makes them act on
// post-search state. Diagnostics are never written to the standard error
// stream: the protocol communicates solely through the input and output
// lines.
package cecp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/herohde/greco/pkg/board"
	"github.com/herohde/greco/pkg/engine"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "cecp"

// Option is a CECP driver option.
type Option func(*options)

type options struct {
	resign bool
}

// UseResign instructs the driver to resign instead of playing on when the
// search concludes that losing is unavoidable.
func UseResign() Option {
	return func(opt *options) {
		opt.resign = true
	}
}

// userResult is an externally supplied, authoritative game result.
type userResult struct {
	result  string // "1-0", "0-1", "1/2-1/2" or "*"
	comment string // without the enclosing braces
}

// Driver implements a CECP driver for an engine. It starts in lenient mode
// with human-readable diagnostics; the "xboard" command switches to strict
// mode, which uses the literal response strings the protocol mandates and is
// never exited.
type Driver struct {
	iox.AsyncCloser

	e   *engine.Engine
	opt options

	in  <-chan string
	out chan<- string

	strict    bool
	force     bool
	searching bool

	// moveAfterAbort indicates whether the move of an aborted search should
	// still be emitted: true for move-now and takebacks, false for force and
	// quit, where the user wants silence.
	moveAfterAbort bool

	pongQueued bool
	pongValue  int

	result lang.Optional[userResult]

	// pending holds lines received during a search whose handling waits for
	// the search to unwind.
	pending []string

	quit bool
}

// invocation is one parsed command line.
type invocation struct {
	line string
	name string
	args []string
}

// command describes a protocol command: its argument count (-1 for a
// variable number), argument names for diagnostics, and handler.
type command struct {
	name     string
	args     int
	argNames []string
	fn       func(*Driver, context.Context, *invocation)
}

var commands []command

func init() {
	commands = []command{
		{"d", 0, nil, (*Driver).handleShow},
		{"force", 0, nil, (*Driver).handleForce},
		{"go", 0, nil, (*Driver).handleGo},
		{"help", 0, nil, (*Driver).handleHelp},
		{"new", 0, nil, (*Driver).handleNew},
		{"ping", 1, []string{"INTEGER"}, (*Driver).handlePing},
		{"protover", 1, []string{"VERSION"}, (*Driver).handleProtover},
		{"?", 0, nil, (*Driver).handleMoveNow},
		{"quit", 0, nil, (*Driver).handleQuit},
		{"remove", 0, nil, (*Driver).handleRemove},
		{"result", -1, nil, (*Driver).handleResult},
		{"sd", 1, []string{"DEPTH"}, (*Driver).handleDepth},
		{"setboard", -1, nil, (*Driver).handleSetboard},
		{"st", 1, []string{"TIME"}, (*Driver).handleTime},
		{"undo", 0, nil, (*Driver).handleUndo},
		{"xboard", 0, nil, (*Driver).handleXboard},
	}
}

// NewDriver returns a driver processing the given input lines. The returned
// channel carries the protocol responses.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string, opts ...Option) (*Driver, <-chan string) {
	var opt options
	for _, fn := range opts {
		fn(&opt)
	}

	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser:    iox.NewAsyncCloser(),
		e:              e,
		opt:            opt,
		in:             in,
		out:            out,
		moveAfterAbort: true,
	}
	e.SetInterrupt(func() {
		d.interrupt(ctx)
	})
	go d.process(ctx)

	return d, out
}

func (d *Driver) process(ctx context.Context) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "CECP protocol initialized")

	for !d.quit {
		select {
		case line, ok := <-d.in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			d.dispatch(ctx, line)
			d.flushPong()

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return

		default:
			// Idle: nothing to read. Sleep briefly to not spin.
			time.Sleep(time.Millisecond)
		}
	}
}

// dispatch parses and handles one command line. Unknown lines are tried as
// moves.
func (d *Driver) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return // ignore empty lines
	}
	inv := &invocation{line: line, name: fields[0], args: fields[1:]}

	for _, c := range commands {
		if c.name != inv.name {
			continue
		}
		if c.args >= 0 {
			if len(inv.args) < c.args {
				d.errTooFew(inv, c.argNames[len(inv.args)])
				return
			}
			if len(inv.args) > c.args {
				d.errTooMany(inv, inv.args[c.args])
				return
			}
		}
		c.fn(d, ctx, inv)
		return
	}

	// Not a command: a move attempt, unless the game already has a result.
	if d.haveResult() {
		d.sendResult(ctx)
		return
	}

	m, err := board.ParseMove(inv.name)
	if err != nil {
		d.errUnknown(inv.name)
		return
	}
	if err := d.e.Move(ctx, m); err != nil {
		d.send("Illegal move: %v", inv.name)
		return
	}
	if d.haveResult() {
		d.sendResult(ctx)
		return
	}
	if !d.force {
		d.calculateAndMove(ctx)
	}
}

// interrupt is invoked by the search every interrupt interval. It reads and
// handles at most one input line, so that the search and input processing
// interleave on the single shared thread.
func (d *Driver) interrupt(ctx context.Context) {
	select {
	case line, ok := <-d.in:
		if !ok {
			d.quit = true
			d.e.AbortSearch()
			return
		}
		d.handleDuringSearch(ctx, line)

	case <-d.Closed():
		d.quit = true
		d.e.AbortSearch()

	default:
	}
}

// handleDuringSearch handles a line that arrived while searching. Move-now,
// force and quit abort immediately; depth, time and ping apply immediately
// without touching board state; everything else is requeued to act on
// post-search state. Takebacks and position changes also abort the search.
func (d *Driver) handleDuringSearch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "?":
		d.abortSearch(true)

	case "force":
		d.force = true
		d.abortSearch(false)

	case "quit":
		d.abortSearch(false)
		d.quit = true

	case "ping":
		if len(fields) == 2 {
			d.pongValue, _ = strconv.Atoi(fields[1])
			d.pongQueued = true
			return
		}
		d.pending = append(d.pending, line)

	case "sd":
		if len(fields) == 2 {
			n, _ := strconv.Atoi(fields[1])
			d.e.SetDepth(ctx, n)
			return
		}
		d.pending = append(d.pending, line)

	case "st":
		if len(fields) == 2 {
			n, _ := strconv.Atoi(fields[1])
			d.e.SetTime(ctx, n)
			return
		}
		d.pending = append(d.pending, line)

	case "undo", "remove":
		d.abortSearch(true)
		d.pending = append(d.pending, line)

	case "new", "setboard":
		d.e.AbortSearch()
		d.pending = append(d.pending, line)

	default:
		d.pending = append(d.pending, line)
	}
}

func (d *Driver) abortSearch(moveAfterAbort bool) {
	d.e.AbortSearch()
	d.moveAfterAbort = moveAfterAbort
}

// replayPending handles the lines that were requeued during a search.
func (d *Driver) replayPending(ctx context.Context) {
	for len(d.pending) > 0 && !d.quit {
		line := d.pending[0]
		d.pending = d.pending[1:]
		d.dispatch(ctx, line)
	}
}

// flushPong emits a queued pong once the engine is not searching and every
// line received before the ping has been fully processed.
func (d *Driver) flushPong() {
	if d.pongQueued && !d.searching && len(d.pending) == 0 {
		d.send("pong %v", d.pongValue)
		d.pongQueued = false
	}
}

// calculateAndMove searches the current position and plays and announces the
// selected move.
func (d *Driver) calculateAndMove(ctx context.Context) {
	if d.searching {
		logw.Warningf(ctx, "Search requested while already searching")
		return
	}
	if d.haveResult() {
		d.sendResult(ctx)
		return
	}

	// Any request to move leaves force mode, not just "go".
	d.force = false

	d.searching = true
	m, ok := d.e.FindMove(ctx)
	d.searching = false

	if d.quit {
		return
	}
	if !d.moveAfterAbort {
		d.moveAfterAbort = true
		d.replayPending(ctx)
		return
	}
	if !ok {
		logw.Exitf(ctx, "Search produced no move: %v", d.e.Position())
	}

	if d.opt.resign && d.e.IsResignationSensible() {
		d.e.Resign(ctx)
		d.sendResult(ctx)
	} else {
		if err := d.e.Move(ctx, m); err != nil {
			logw.Exitf(ctx, "Engine move %v rejected: %v", m, err)
		}

		if d.strict {
			d.send("move %v", m)
		} else {
			d.send("Engine move: %v", m)
		}
		if d.haveResult() {
			d.sendResult(ctx)
		}
		if !d.strict {
			d.sendBoard()
		}
	}

	d.replayPending(ctx)
}

func (d *Driver) handleXboard(ctx context.Context, inv *invocation) {
	d.strict = true

	// A single blank line so the frontend can detect the start of protocol
	// output.
	d.out <- ""
}

func (d *Driver) handleProtover(ctx context.Context, inv *invocation) {
	// The protocol version is ignored: newer versions are compatible with
	// older ones, and refusing to run on a version mismatch helps nobody.

	d.out <- "feature ping=1 setboard=1 playother=1 nps=0"
	d.out <- "feature time=1 draw=1"
	d.out <- "feature sigint=0 sigterm=0"
	d.out <- "feature reuse=1 analyze=0"
	d.out <- fmt.Sprintf("feature name=1 myname=%q", d.e.Name())
	d.out <- `feature variants="normal"`
	d.out <- "feature colors=0"
	d.out <- "feature done=1"
}

func (d *Driver) handleNew(ctx context.Context, inv *invocation) {
	d.newGame(ctx)
}

func (d *Driver) handleQuit(ctx context.Context, inv *invocation) {
	d.quit = true
}

func (d *Driver) handleForce(ctx context.Context, inv *invocation) {
	// The protocol says nothing about toggling, so always enable.
	d.force = true
}

func (d *Driver) handleGo(ctx context.Context, inv *invocation) {
	d.calculateAndMove(ctx)
}

func (d *Driver) handleMoveNow(ctx context.Context, inv *invocation) {
	// Only meaningful while searching, where the interrupt path handles it.
}

func (d *Driver) handlePing(ctx context.Context, inv *invocation) {
	d.pongValue, _ = strconv.Atoi(inv.args[0])
	d.pongQueued = true
}

func (d *Driver) handleDepth(ctx context.Context, inv *invocation) {
	n, _ := strconv.Atoi(inv.args[0])
	d.e.SetDepth(ctx, n)
}

func (d *Driver) handleTime(ctx context.Context, inv *invocation) {
	n, _ := strconv.Atoi(inv.args[0])
	d.e.SetTime(ctx, n)
}

func (d *Driver) handleUndo(ctx context.Context, inv *invocation) {
	d.undo(ctx)
}

func (d *Driver) handleRemove(ctx context.Context, inv *invocation) {
	// Undo twice intentionally: remove takes back a full move, two plies.
	d.undo(ctx)
	d.undo(ctx)
}

func (d *Driver) handleSetboard(ctx context.Context, inv *invocation) {
	if len(inv.args) < 1 {
		d.errTooFew(inv, "FEN")
		return
	}
	position := strings.Join(inv.args, " ")

	if err := d.e.SetBoard(ctx, position); err != nil {
		logw.Warningf(ctx, "Invalid position '%v': %v", position, err)

		// The board was reset to the initial position, so apply the side
		// effects of a new game too.
		d.newGame(ctx)

		if d.strict {
			d.send("tellusererror Illegal position")
		} else {
			d.send("Invalid position, '%v'.", position)
		}
		return
	}

	if d.haveResult() {
		d.sendResult(ctx)
	}
}

func (d *Driver) handleResult(ctx context.Context, inv *invocation) {
	if len(inv.args) < 2 {
		if len(inv.args) == 0 {
			d.errTooFew(inv, "RESULT")
		} else {
			d.errTooFew(inv, "COMMENT")
		}
		return
	}
	if _, ok := d.result.V(); ok {
		d.send("Cannot overwrite existing result (a result was already received earlier).")
		return
	}

	res := inv.args[0]
	switch res {
	case "1-0", "0-1", "1/2-1/2", "*":
		// "*" means the game ended in an unfinished state; it has still
		// ended, so moves and "go" are rejected from here on.
	default:
		d.send("Invalid value '%v' for RESULT argument to command '%v'.", res, inv.name)
		return
	}

	// The comment must be a single {...} group with no nested braces; the
	// braces are stripped for storage and re-added verbatim on re-emit.
	comment := strings.Join(inv.args[1:], " ")
	if len(comment) < 2 || comment[0] != '{' || comment[len(comment)-1] != '}' {
		d.send("Invalid value '%v' for COMMENT argument to command '%v'.", comment, inv.name)
		return
	}

	d.result = lang.Some(userResult{result: res, comment: comment[1 : len(comment)-1]})

	// Repeat the result, as the protocol mandates. Also done in lenient mode
	// so a user entering one manually sees that it was accepted.
	d.sendResult(ctx)
}

func (d *Driver) handleShow(ctx context.Context, inv *invocation) {
	d.sendBoard()
}

func (d *Driver) handleHelp(ctx context.Context, inv *invocation) {
	for _, line := range []string{
		"?                       If calculating, ask engine to move immediately.",
		"d                       Display the board.",
		"force                   Don't automatically move, wait for the user to ask the",
		"                        engine to move.",
		"go                      Ask engine to move.",
		"help                    Display this information.",
		"new                     Start a new game.",
		"ping N                  Reply 'pong N' once all prior input is processed.",
		"quit                    Quit the program.",
		"remove                  Undo last move (two plies).",
		"result R {COMMENT}      Declare the game result.",
		"sd DEPTH                Set the maximum search depth to DEPTH plies.",
		"setboard FEN            Set the board to the state expressed by the FEN string.",
		"st TIME                 Set the maximum search time to TIME seconds.",
		"undo                    Undo last half-move (one ply).",
		"xboard                  Put engine in CECP mode if not already.",
		"                        (CECP = Chess Engine Communication Protocol)",
	} {
		d.out <- line
	}
}

func (d *Driver) newGame(ctx context.Context) {
	d.force = false
	d.result = lang.Optional[userResult]{}
	d.e.NewGame(ctx)
}

func (d *Driver) undo(ctx context.Context) {
	d.result = lang.Optional[userResult]{}
	_ = d.e.TakeBack(ctx)
}

func (d *Driver) haveResult() bool {
	if _, ok := d.result.V(); ok {
		return true
	}
	return d.e.Result() != board.NoResult
}

func (d *Driver) sendResult(ctx context.Context) {
	if ur, ok := d.result.V(); ok {
		d.send("%v {%v}", ur.result, ur.comment)
		return
	}

	switch r := d.e.Result(); r {
	case board.DrawByStalemate:
		d.send("1/2-1/2 {draw by stalemate}")
	case board.DrawByInsufficientMaterial:
		d.send("1/2-1/2 {draw by insufficient material}")
	case board.CheckmateByWhite:
		d.send("1-0 {white mates}")
	case board.CheckmateByBlack:
		d.send("0-1 {black mates}")
	case board.ResignationByWhite:
		d.send("0-1 {white resigns}")
	case board.ResignationByBlack:
		d.send("1-0 {black resigns}")
	default:
		logw.Exitf(ctx, "Expected a game result but there was none: %v", r)
	}
}

func (d *Driver) sendBoard() {
	for _, line := range strings.Split(d.e.Render(), "\n") {
		d.out <- line
	}
}

func (d *Driver) send(format string, args ...interface{}) {
	d.out <- fmt.Sprintf(format, args...)
}

func (d *Driver) errUnknown(name string) {
	if d.strict {
		d.send("Error (unknown command): %v", name)
	} else {
		d.send("Unrecognized command, '%v'.", name)
	}
}

func (d *Driver) errTooFew(inv *invocation, argName string) {
	if d.strict {
		d.send("Error (too few parameters): %v", inv.line)
	} else {
		d.send("Missing argument '%v' to command '%v'.", argName, inv.name)
	}
}

func (d *Driver) errTooMany(inv *invocation, first string) {
	if d.strict {
		d.send("Error (too many parameters): %v", inv.line)
	} else {
		d.send("One or more unexpected arguments to command '%v', first was '%v'.", inv.name, first)
	}
}
