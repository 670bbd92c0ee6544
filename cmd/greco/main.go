// greco is a CECP (xboard) chess engine: 0x88 move generation, negamax
// search with alpha-beta pruning, and classical material plus piece-square
// evaluation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/herohde/greco/pkg/engine"
	"github.com/herohde/greco/pkg/engine/cecp"
	"github.com/herohde/greco/pkg/eval"
	"github.com/seekerror/logw"
)

var (
	depth  = flag.Int("depth", 0, "Search depth limit in plies (zero if no limit)")
	st     = flag.Int("st", 0, "Search time limit in seconds (zero for default)")
	resign = flag.Bool("resign", false, "Resign when losing is unavoidable")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: greco [options]

GRECO is a chess engine speaking the Chess Engine Communication Protocol
(CECP), for use with xboard-compatible interfaces. Type 'help' at the prompt
for the command summary.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "Greco", "herohde", eval.Standard{},
		engine.WithDepth(*depth), engine.WithTime(*st))

	var opts []cecp.Option
	if *resign {
		opts = append(opts, cecp.UseResign())
	}

	in := engine.ReadStdinLines(ctx)
	driver, out := cecp.NewDriver(ctx, e, in, opts...)
	go engine.WriteStdoutLines(ctx, out)

	<-driver.Closed()
	logw.Infof(ctx, "Exiting")
}
