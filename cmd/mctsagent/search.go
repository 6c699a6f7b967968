package main

import (
	"context"
	"flag"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/quietloop/mctsagent/internal/mcts"
	"github.com/quietloop/mctsagent/internal/parameters"
	"github.com/quietloop/mctsagent/internal/webworld"
)

func runSearchCommand(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	klog.InitFlags(fs)
	flagURL := fs.String("url", "", "Starting URL to crawl from.")
	flagPhrases := fs.String("phrases", "", "Comma-separated target phrases the search rewards pages for containing.")
	flagConfig := fs.String("mcts", "", `mcts.Engine configuration, e.g. "n_iters=50,depth_limit=4,output_strategy=follow_max".`)
	_ = fs.Parse(args)

	if *flagURL == "" || *flagPhrases == "" {
		klog.Fatal("mctsagent search requires -url and -phrases")
	}

	cfg := webworld.DefaultConfig()
	cfg.TargetPhrases = splitPhrases(*flagPhrases)

	opts, err := mcts.OptionsFromParams(parameters.NewFromConfigString(*flagConfig))
	if err != nil {
		klog.Fatalf("invalid -mcts configuration: %s", err)
	}
	aggregator, err := mcts.NewAggregation(webworld.RetrieveAnswer(cfg), mcts.WeightEdge)
	if err != nil {
		klog.Fatalf("building aggregator: %s", err)
	}
	opts = append(opts, mcts.WithAggregator(aggregator))

	engine, err := mcts.New(opts...)
	if err != nil {
		klog.Fatalf("configuring engine: %s", err)
	}

	session := webworld.NewSession(cfg, *flagURL)
	scorer := webworld.NewScorer(cfg)
	result, err := engine.Search(ctx, session, scorer)
	if err != nil {
		klog.Fatalf("search failed: %s", err)
	}

	fmt.Printf("visited %d page(s), cum_reward=%.3f\n", len(result.Trace.States), result.CumReward)
	for i, state := range result.Trace.States {
		page, ok := state.(*webworld.PageState)
		if !ok {
			continue
		}
		fmt.Printf("  %d: %s\n", i, page.URL)
	}
	if result.AggregatedResult != nil {
		fmt.Printf("aggregated answer: %v\n", result.AggregatedResult)
	}
}
