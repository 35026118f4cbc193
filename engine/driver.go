package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/fgantt/shogune/shogi"
)

// DepthResult reports one completed iteration to the caller.
type DepthResult struct {
	Depth    int
	Score    int32
	Nodes    uint64
	Elapsed  time.Duration
	PV       []shogi.Move
	BestMove shogi.Move
}

// ProgressFunc receives a DepthResult after each iteration converges.
// Depths arrive strictly increasing; aspiration re-searches never surface.
type ProgressFunc func(DepthResult)

// iterate runs iterative deepening with aspiration windows on the master
// worker. Each depth after the first opens a window around the previous
// score; a fail-low drops alpha to the floor, a fail-high lifts beta to
// the ceiling, and the same depth is searched again until the score lands
// inside the window. Results from an interrupted iteration are discarded.
func (s *searcher) iterate(b *shogi.Board, maxDepth int8, nodes func() uint64, progress ProgressFunc, log zerolog.Logger) (PVLine, int32, int) {
	var bestPV PVLine
	var bestScore int32
	var prevScore int32
	completed := 0

	for depth := int8(1); depth <= maxDepth; depth++ {
		if depth > 1 && s.timer.SoftExceeded() {
			break
		}

		alpha, beta := -MaxScore, MaxScore
		if depth >= 2 {
			alpha = prevScore - s.cfg.AspirationWindow
			beta = prevScore + s.cfg.AspirationWindow
		}

		for {
			var pv PVLine
			score := s.alphabeta(b, alpha, beta, depth, 0, &pv, false)

			if s.stopped() {
				return bestPV, bestScore, completed
			}

			// Window misses widen one side to the extreme and repeat the
			// same depth; the second miss always lands, since by then the
			// window spans everything on the failing side.
			if score <= alpha {
				s.stats.AspirationReSearches++
				alpha = -MaxScore
				continue
			}
			if score >= beta {
				s.stats.AspirationReSearches++
				beta = MaxScore
				continue
			}

			prevScore = score
			bestScore = score
			bestPV = pv.Clone()
			completed = int(depth)
			break
		}

		elapsed := s.timer.Elapsed()
		nodeCount := nodes()
		log.Debug().
			Int("depth", completed).
			Int32("score", bestScore).
			Uint64("nodes", nodeCount).
			Dur("elapsed", elapsed).
			Str("pv", bestPV.String()).
			Msg("iteration complete")
		if progress != nil {
			progress(DepthResult{
				Depth:    completed,
				Score:    bestScore,
				Nodes:    nodeCount,
				Elapsed:  elapsed,
				PV:       append([]shogi.Move(nil), bestPV.Moves...),
				BestMove: bestPV.BestMove(),
			})
		}

		// A forced mate cannot improve with more depth.
		if bestScore > Checkmate || bestScore < -Checkmate {
			break
		}
	}

	return bestPV, bestScore, completed
}
