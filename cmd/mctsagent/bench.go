package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/janpfeifer/must"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/quietloop/mctsagent/internal/mcts"
	"github.com/quietloop/mctsagent/internal/parameters"
	"github.com/quietloop/mctsagent/internal/webworld"
)

// runBenchCommand runs -runs independent mcts.Engine.Search invocations
// concurrently, one goroutine per -parallelism slot. Nothing inside a single
// Search call runs in parallel; independent searches running side by side
// is a different matter, and is exactly what this command exploits.
func runBenchCommand(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	klog.InitFlags(fs)
	flagURL := fs.String("url", "", "Starting URL to crawl from.")
	flagPhrases := fs.String("phrases", "", "Comma-separated target phrases the search rewards pages for containing.")
	flagConfig := fs.String("mcts", "", `mcts.Engine configuration, e.g. "n_iters=50,depth_limit=4".`)
	flagRuns := fs.Int("runs", 10, "Number of independent searches to run.")
	flagParallelism := fs.Int("parallelism", 0, "If > 0, ignore GOMAXPROCS and run this many searches simultaneously.")
	_ = fs.Parse(args)

	if *flagURL == "" || *flagPhrases == "" {
		klog.Fatal("mctsagent bench requires -url and -phrases")
	}

	cfg := webworld.DefaultConfig()
	cfg.TargetPhrases = splitPhrases(*flagPhrases)

	opts := must.M1(mcts.OptionsFromParams(parameters.NewFromConfigString(*flagConfig)))
	must.M(validateOptions(opts))

	r := &benchResults{start: time.Now(), total: *flagRuns}
	var wg errgroup.Group
	wg.SetLimit(parallelism(*flagParallelism))
	fmt.Printf("\r%s", r)

	for range r.total {
		wg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			engine, err := mcts.New(opts...)
			if err != nil {
				return err
			}
			session := webworld.NewSession(cfg, *flagURL)
			scorer := webworld.NewScorer(cfg)
			result, err := engine.Search(ctx, session, scorer)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			r.record(result)
			fmt.Printf("\r%s", r)
			return nil
		})
	}
	must.M(wg.Wait())
	fmt.Printf("\r%s", r)
	fmt.Println()
}

func validateOptions(opts []mcts.Option) error {
	_, err := mcts.New(opts...)
	return err
}

func parallelism(flagValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return runtime.GOMAXPROCS(0)
}

// benchResults accumulates outcomes across concurrently-running searches.
type benchResults struct {
	mu                 sync.Mutex
	start              time.Time
	ran, total         int
	terminalCount      int
	sumCumRewardOfDone float64
}

func (r *benchResults) record(result *mcts.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ran++
	if result.TerminalState != nil {
		r.terminalCount++
		r.sumCumRewardOfDone += result.CumReward
	}
}

func (r *benchResults) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	avg := 0.0
	if r.terminalCount > 0 {
		avg = r.sumCumRewardOfDone / float64(r.terminalCount)
	}
	return fmt.Sprintf("Ran %d of %d: %d reached a terminal page (avg cum_reward %.3f) - %s\033[0K",
		r.ran, r.total, r.terminalCount, avg, time.Since(r.start))
}
