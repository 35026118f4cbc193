package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tm "github.com/buger/goterm"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/fgantt/shogune/engine"
	"github.com/fgantt/shogune/shogi"
)

func main() {
	depthFlag := flag.Int("depth", 8, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	threadsFlag := flag.Int("threads", 1, "worker threads")
	sfenFlag := flag.String("sfen", "", "SFEN to search (empty = startpos)")
	liveFlag := flag.Bool("live", false, "redraw per-depth progress in place")
	profFlag := flag.String("profile", "", "profiling mode: cpu or mem")
	flag.Parse()

	if *depthFlag <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	switch *profFlag {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	sfen := shogi.StartPos
	if *sfenFlag != "" {
		sfen = *sfenFlag
	}

	cfg := engine.DefaultConfig()
	cfg.Threads = *threadsFlag
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)
	eng := engine.NewEngine(cfg, log)

	fmt.Printf("searchbench: sfen=%q depth=%d threads=%d repeat=%d\n",
		sfen, *depthFlag, *threadsFlag, *repeatFlag)

	var progress engine.ProgressFunc
	if *liveFlag {
		tm.Clear()
		progress = func(r engine.DepthResult) {
			tm.MoveCursor(1, 1)
			tm.Printf("depth %2d  score %6d  nodes %12d  time %8s\n",
				r.Depth, r.Score, r.Nodes, r.Elapsed.Round(time.Millisecond))
			tm.Printf("pv: %s\n", pvString(r.PV))
			tm.Flush()
		}
	} else {
		progress = func(r engine.DepthResult) {
			fmt.Printf("depth %2d  score %6d  nodes %12d  time %8s  pv %s\n",
				r.Depth, r.Score, r.Nodes, r.Elapsed.Round(time.Millisecond), pvString(r.PV))
		}
	}

	board, err := shogi.ParseSFEN(sfen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ParseSFEN error: %v\n", err)
		os.Exit(2)
	}

	startAll := time.Now()
	for i := 0; i < *repeatFlag; i++ {
		eng.NewGame()
		result, err := eng.Search(context.Background(), board, nil,
			engine.Limits{Depth: *depthFlag}, progress)
		if err != nil {
			fmt.Fprintf(os.Stderr, "search error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("iteration %d: bestmove %s  score %d  nodes %d  splits stolen=%d abandoned=%d failed=%d\n",
			i+1, result.BestMove, result.Score, result.Nodes,
			result.Stats.UnitsStolen, result.Stats.UnitsAbandoned, result.Stats.UnitsFailed)
	}
	fmt.Printf("total time: %v\n", time.Since(startAll))
}

func pvString(pv []shogi.Move) string {
	s := ""
	for i, m := range pv {
		if i > 0 {
			s += " "
		}
		s += m.String()
	}
	return s
}
