package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fgantt/shogune/shogi"
)

var ErrNoLegalMoves = errors.New("engine: no legal moves in root position")

// Limits bounds one search episode. Zero values mean unbounded; a Depth
// with no clock runs untimed to that depth.
type Limits struct {
	Depth       int
	MoveTime    time.Duration
	RemainingMs int64
	ByoyomiMs   int64
	Infinite    bool
}

// SearchResult is the outcome of a completed episode.
type SearchResult struct {
	BestMove shogi.Move
	Score    int32
	Depth    int
	PV       []shogi.Move
	Nodes    uint64
	Elapsed  time.Duration
	FromBook bool
	Stats    SearchStatistics

	// WorkerStats holds the per-worker counters behind Stats, in worker
	// order; useful for judging how evenly the pool shared the tree.
	WorkerStats []SearchStatistics
}

// Oracle supplies instant moves for known positions, bypassing the search.
// The opening book implements it.
type Oracle interface {
	Probe(b *shogi.Board) (shogi.Move, bool)
}

// Engine ties the search machinery together: one transposition table and
// evaluator shared by a pool of workers, driven from a single Search call
// per move. Engine is not safe for concurrent Search calls.
type Engine struct {
	cfg    Config
	tt     *TransTable
	eval   Evaluator
	oracle Oracle
	log    zerolog.Logger
}

func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	cfg.Normalize()
	return &Engine{
		cfg:  cfg,
		tt:   NewTransTable(cfg.TTSizeMB),
		eval: MaterialEvaluator{},
		log:  log,
	}
}

// SetEvaluator swaps the position evaluator; call between searches only.
func (e *Engine) SetEvaluator(ev Evaluator) {
	e.eval = ev
}

// SetOracle installs an opening oracle consulted before searching.
func (e *Engine) SetOracle(o Oracle) {
	e.oracle = o
}

func (e *Engine) Config() Config {
	return e.cfg
}

// NewGame clears state carried between moves of the same game.
func (e *Engine) NewGame() {
	e.tt.Clear()
}

// Search finds the best move for the position. history carries the digests
// of every position since the start of the game (for sennichite); the
// board itself is not mutated. Cancelling ctx stops the search promptly
// and returns the best result found so far.
func (e *Engine) Search(ctx context.Context, b *shogi.Board, history []uint64, limits Limits, progress ProgressFunc) (SearchResult, error) {
	root := b.Clone()
	legal := root.GenerateLegalMoves()
	if len(legal) == 0 {
		return SearchResult{}, ErrNoLegalMoves
	}

	if e.oracle != nil && !limits.Infinite {
		if move, ok := e.oracle.Probe(root); ok {
			for _, m := range legal {
				if m.SameAction(move) {
					e.log.Debug().Str("move", m.String()).Msg("book move")
					return SearchResult{BestMove: m, Depth: 0, FromBook: true}, nil
				}
			}
		}
	}

	var stop atomic.Bool
	var sharedNodes atomic.Uint64
	timer := newTimeHandler(limits)
	e.tt.NewSearch()

	var pool *coordinator
	if e.cfg.Threads > 1 {
		pool = newCoordinator(&e.cfg, &stop, e.log)
	}

	pathSeed := make([]uint64, 0, len(history)+1)
	pathSeed = append(pathSeed, history...)
	pathSeed = append(pathSeed, root.Hash())

	workers := make([]*searcher, e.cfg.Threads)
	for i := range workers {
		workers[i] = &searcher{
			id:          i,
			cfg:         &e.cfg,
			tt:          e.tt,
			eval:        e.eval,
			stop:        &stop,
			timer:       timer,
			pool:        pool,
			sharedNodes: &sharedNodes,
		}
		workers[i].path.reset(pathSeed)
	}
	master := workers[0]

	// ctx cancellation folds into the same stop flag the deadline uses.
	watcherDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			stop.Store(true)
		case <-watcherDone:
		}
	}()

	var g errgroup.Group
	if pool != nil {
		for _, w := range workers[1:] {
			w := w
			g.Go(func() error {
				pool.helperLoop(w)
				return nil
			})
		}
	}

	maxDepth := int8(MaxDepth)
	if limits.Depth > 0 && limits.Depth < MaxDepth {
		maxDepth = int8(limits.Depth)
	}

	pv, score, depth := master.iterate(root, maxDepth, sharedNodes.Load, progress, e.log)

	stop.Store(true)
	if pool != nil {
		pool.shutdown()
	}
	_ = g.Wait()
	close(watcherDone)

	all := make([]SearchStatistics, len(workers))
	for i, w := range workers {
		all[i] = w.stats
	}
	stats := mergeStatistics(all)

	best := pv.BestMove()
	if best == shogi.NullMove {
		// The clock ran out before depth 1 converged.
		best = legal[0]
	}

	result := SearchResult{
		BestMove:    best,
		Score:       score,
		Depth:       depth,
		PV:          append([]shogi.Move(nil), pv.Moves...),
		Nodes:       stats.Nodes + stats.QNodes,
		Elapsed:     timer.Elapsed(),
		Stats:       stats,
		WorkerStats: all,
	}
	if err := ctx.Err(); err != nil && depth == 0 {
		return result, err
	}
	return result, nil
}
