// Command mctsagent drives internal/mcts over internal/webworld from the
// command line, with three subcommands: search (run once, print the
// trajectory), bench (run many independent searches concurrently, report
// aggregate stats), and tree (run once, print the resulting search tree).
//
// None of this lives in internal/mcts: the engine package stays free of CLI
// wiring and of any concrete WorldModel/SearchConfig implementation.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/quietloop/mctsagent/internal/ui/spinning"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var globalCancel func()
	globalCtx, globalCancel := context.WithCancel(context.Background())
	spinning.SafeInterrupt(globalCancel, 5*time.Second)
	defer globalCancel()

	sub, args := os.Args[1], os.Args[2:]
	switch sub {
	case "search":
		runSearchCommand(globalCtx, args)
	case "bench":
		runBenchCommand(globalCtx, args)
	case "tree":
		runTreeCommand(globalCtx, args)
	case "-h", "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "mctsagent: unknown subcommand %q\n\n", sub)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: mctsagent <search|bench|tree> [flags]

  search  run one MCTS search from -url, print the chosen trajectory.
  bench   run -runs independent searches concurrently, report aggregate stats.
  tree    run one MCTS search, print the resulting search tree.

Run "mctsagent <subcommand> -h" for that subcommand's flags.`)
}
