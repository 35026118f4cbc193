package engine

import (
	"context"
	"testing"

	"github.com/fgantt/shogune/shogi"
)

type fixedOracle struct {
	move shogi.Move
	ok   bool
}

func (o fixedOracle) Probe(b *shogi.Board) (shogi.Move, bool) { return o.move, o.ok }

func TestOracleShortCircuitsSearch(t *testing.T) {
	eng := testEngine(1)
	b := shogi.MustParseSFEN(shogi.StartPos)
	book, _ := shogi.ParseMove("7g7f")
	eng.SetOracle(fixedOracle{move: book, ok: true})

	res, err := eng.Search(context.Background(), b, nil, Limits{Depth: 8}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.FromBook {
		t.Error("oracle hit should bypass the search")
	}
	if !res.BestMove.SameAction(book) {
		t.Errorf("best move = %s, want the book move", res.BestMove)
	}
	if res.Nodes != 0 {
		t.Errorf("book move searched %d nodes", res.Nodes)
	}
}

func TestOracleIgnoredWhenMoveIllegal(t *testing.T) {
	eng := testEngine(1)
	b := shogi.MustParseSFEN(shogi.StartPos)
	bogus, _ := shogi.ParseMove("G*5e")
	eng.SetOracle(fixedOracle{move: bogus, ok: true})

	res, err := eng.Search(context.Background(), b, nil, Limits{Depth: 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.FromBook {
		t.Error("an illegal oracle move must fall through to the search")
	}
}

func TestOracleSkippedWhenInfinite(t *testing.T) {
	eng := testEngine(1)
	b := shogi.MustParseSFEN(shogi.StartPos)
	book, _ := shogi.ParseMove("7g7f")
	eng.SetOracle(fixedOracle{move: book, ok: true})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan SearchResult, 1)
	go func() {
		res, _ := eng.Search(ctx, b, nil, Limits{Infinite: true, Depth: 4}, nil)
		done <- res
	}()
	res := <-done
	cancel()
	if res.FromBook {
		t.Error("infinite search must not consult the book")
	}
}

func TestSearchLeavesCallerBoardUntouched(t *testing.T) {
	eng := testEngine(2)
	b := shogi.MustParseSFEN(shogi.StartPos)
	before := b.ToSFEN()

	if _, err := eng.Search(context.Background(), b, nil, Limits{Depth: 5}, nil); err != nil {
		t.Fatal(err)
	}
	if after := b.ToSFEN(); after != before {
		t.Errorf("board mutated by search:\n before %s\n after  %s", before, after)
	}
}

func TestConfigNormalizeClamps(t *testing.T) {
	cfg := Config{Threads: 0, TTSizeMB: 0}
	cfg.Normalize()
	if cfg.Threads < 1 {
		t.Errorf("threads = %d", cfg.Threads)
	}
	if cfg.TTSizeMB < 1 {
		t.Errorf("hash = %d MB", cfg.TTSizeMB)
	}

	cfg = Config{Threads: 500, TTSizeMB: 64}
	cfg.Normalize()
	if cfg.Threads > 32 {
		t.Errorf("threads not clamped: %d", cfg.Threads)
	}
}

func TestNewGameForgetsOldScores(t *testing.T) {
	eng := testEngine(1)
	b := shogi.MustParseSFEN(mateInOneSFEN)

	if _, err := eng.Search(context.Background(), b, nil, Limits{Depth: 3}, nil); err != nil {
		t.Fatal(err)
	}
	eng.NewGame()

	// A fresh game on a quiet position must not report stale mate scores.
	quiet := shogi.MustParseSFEN(shogi.StartPos)
	res, err := eng.Search(context.Background(), quiet, nil, Limits{Depth: 4}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Score > Checkmate || res.Score < -Checkmate {
		t.Errorf("startpos scored as mate: %d", res.Score)
	}
}
