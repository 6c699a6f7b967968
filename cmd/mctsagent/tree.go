package main

import (
	"context"
	"flag"
	"fmt"

	"k8s.io/klog/v2"

	"github.com/quietloop/mctsagent/internal/mcts"
	"github.com/quietloop/mctsagent/internal/parameters"
	"github.com/quietloop/mctsagent/internal/ui/cli"
	"github.com/quietloop/mctsagent/internal/webworld"
)

func runTreeCommand(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("tree", flag.ExitOnError)
	klog.InitFlags(fs)
	flagURL := fs.String("url", "", "Starting URL to crawl from.")
	flagPhrases := fs.String("phrases", "", "Comma-separated target phrases the search rewards pages for containing.")
	flagConfig := fs.String("mcts", "", `mcts.Engine configuration, e.g. "n_iters=50,depth_limit=4".`)
	flagMaxDepth := fs.Int("max_depth", -1, "Max tree depth to print below the root; -1 for unlimited.")
	_ = fs.Parse(args)

	if *flagURL == "" || *flagPhrases == "" {
		klog.Fatal("mctsagent tree requires -url and -phrases")
	}

	cfg := webworld.DefaultConfig()
	cfg.TargetPhrases = splitPhrases(*flagPhrases)

	opts, err := mcts.OptionsFromParams(parameters.NewFromConfigString(*flagConfig))
	if err != nil {
		klog.Fatalf("invalid -mcts configuration: %s", err)
	}
	opts = append(opts, mcts.WithTraceInEachIteration(true))

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

	fmt.Println(cli.PrintTree(result.TreeState, mcts.DefaultNodeVisualizer, *flagMaxDepth))
}
