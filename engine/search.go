package engine

import (
	"sync/atomic"

	"github.com/fgantt/shogune/shogi"
)

const (
	MaxScore  int32 = 32500
	Checkmate int32 = 30000 // scores beyond this are mate-in-N
	DrawScore int32 = 0

	MaxDepth = 64

	// How many nodes pass between checks of the stop flag and the hard
	// deadline.
	stopPollMask = 2047

	// Quiet checking moves are generated for this many plies past the
	// horizon; beyond it quiescence is captures and promotions only.
	quiescenceCheckPly = 2
)

// lmrReductions[depth][moveIndex] is the late move reduction applied to a
// quiet move searched after the early ones.
var lmrReductions [MaxDepth + 1][64]int8

func init() {
	for d := 0; d <= MaxDepth; d++ {
		for m := 0; m < 64; m++ {
			lmrReductions[d][m] = int8(1 + d/8 + m/16)
		}
	}
}

// searcher is one worker's complete search state. Everything here except
// the transposition table and the stop flag is private to the worker, so
// the hot path takes no locks.
type searcher struct {
	id    int
	cfg   *Config
	tt    *TransTable
	eval  Evaluator
	stop  *atomic.Bool
	timer *TimeHandler
	pool  *coordinator // nil when running single-threaded

	// sharedNodes is bumped in coarse batches so progress reports can sum
	// node counts across workers without touching their private stats.
	sharedNodes *atomic.Uint64

	ordering OrderingContext
	path     pathStack
	stats    SearchStatistics
}

func (s *searcher) stopped() bool {
	return s.stop.Load()
}

func (s *searcher) pollStop() {
	if (s.stats.Nodes+s.stats.QNodes)&stopPollMask == 0 {
		if s.timer != nil && s.timer.HardExceeded() {
			s.stop.Store(true)
		}
		if s.sharedNodes != nil {
			s.sharedNodes.Add(stopPollMask + 1)
		}
	}
}

// hasNonPawnMaterial reports whether the side to move owns anything beyond
// pawns and the king, on the board or in hand. Null-move pruning is skipped
// without it; pawn-only endings are where a free tempo flips the result.
func hasNonPawnMaterial(b *shogi.Board) bool {
	stm := b.SideToMove()
	for sq := shogi.Square(0); sq < shogi.SquareCount; sq++ {
		p := b.PieceAt(sq)
		if p == shogi.NoPiece || p.Color() != stm {
			continue
		}
		if t := p.Type(); t != shogi.Pawn && t != shogi.King {
			return true
		}
	}
	for pt := shogi.Lance; pt <= shogi.Rook; pt++ {
		if b.HandCount(stm, pt) > 0 {
			return true
		}
	}
	return false
}

func (s *searcher) alphabeta(b *shogi.Board, alpha, beta int32, depth, ply int8, pv *PVLine, didNull bool) int32 {
	s.stats.Nodes++
	s.pollStop()

	if s.stopped() {
		return 0
	}

	if ply >= MaxDepth {
		return s.eval.Evaluate(b)
	}

	isRoot := ply == 0
	isPVNode := beta-alpha > 1

	// Sennichite. The path stack already holds this position's digest.
	if !isRoot && s.path.isRepetitionDraw(b.Hash()) {
		return DrawScore
	}

	inCheck := b.OurKingInCheck()
	if inCheck {
		depth++
	}

	if depth <= 0 {
		return s.quiescence(b, alpha, beta, 0, ply, pv)
	}

	posHash := b.Hash()

	s.stats.TTProbes++
	ttEntry, ttHit, ttRejected := s.tt.Probe(posHash)
	if ttRejected {
		s.stats.TTRejects++
	}
	if ttHit {
		s.stats.TTHits++
		if !isRoot && !isPVNode {
			if usable, score := usableEntry(ttEntry, depth, alpha, beta, ply); usable {
				s.stats.TTCutoffs++
				return score
			}
		}
	}

	var ttMove shogi.Move
	if ttHit {
		ttMove = ttEntry.Move
	}

	// Null move pruning. Giving the opponent two moves in a row and still
	// beating beta means this node is already won; skipped in check, in PV
	// nodes, and without real material (zugzwang guard).
	if !inCheck && !isPVNode && !didNull && !isRoot &&
		depth >= s.cfg.NullMoveMinDepth && hasNonPawnMaterial(b) {
		undo := b.ApplyNullMove()
		s.path.push(b.Hash())

		reduction := s.cfg.NullMoveReduction + depth/6
		if reduction > depth-1 {
			reduction = depth - 1
		}
		var nullPV PVLine
		score := -s.alphabeta(b, -beta, -beta+1, depth-1-reduction, ply+1, &nullPV, true)

		s.path.pop()
		undo()

		if score >= beta && score < Checkmate && !s.stopped() {
			s.stats.NullMoveCutoffs++
			return score
		}
	}

	// Internal iterative deepening: with no cached move at real depth, a
	// shallow search is cheaper than ordering blind.
	if ttMove == shogi.NullMove && depth >= 5 && !didNull {
		var iidPV PVLine
		s.alphabeta(b, alpha, beta, depth-2, ply, &iidPV, true)
		if iidEntry, ok, _ := s.tt.Probe(posHash); ok {
			ttMove = iidEntry.Move
		}
	}

	allMoves := b.GenerateLegalMoves()
	if len(allMoves) == 0 {
		// Mated, or stalemated: both lose in shogi.
		return -MaxScore + int32(ply)
	}

	bestScore := -MaxScore
	bestMove := shogi.NullMove
	ttFlag := BoundUpper
	var childPV PVLine
	searched := 0
	splitTried := false

	list := s.ordering.scoreMoves(b, allMoves, ply, ttMove)

	for index := 0; index < len(list.moves); index++ {
		// Young brothers wait: once the eldest has been searched in full,
		// the remaining siblings may go to the pool.
		if s.pool != nil && !splitTried && searched >= 1 && !inCheck &&
			depth >= s.cfg.MinSplitDepth && len(list.moves)-index >= 2 {
			splitTried = true
			if res, ok := s.pool.splitSearch(s, b, &list, index, alpha, beta, depth, ply, bestScore, bestMove, pv); ok {
				if res.score > bestScore {
					bestScore = res.score
					bestMove = res.move
				}
				if res.cutoff {
					ttFlag = BoundLower
				} else if res.raisedAlpha {
					ttFlag = BoundExact
					alpha = res.alpha
				}
				break
			}
		}

		orderNextMove(index, &list)
		move := list.moves[index].move

		undo := b.Apply(move)
		s.path.push(b.Hash())
		searched++

		var score int32
		if searched == 1 {
			score = -s.alphabeta(b, -beta, -alpha, depth-1, ply+1, &childPV, false)
		} else {
			var reduction int8
			if depth >= s.cfg.LMRDepthLimit && searched > s.cfg.LMRMoveLimit &&
				!move.IsCapture() && !move.Promotes() && !inCheck {
				mi := index
				if mi > 63 {
					mi = 63
				}
				reduction = lmrReductions[depth][mi]
				if reduction > depth-2 {
					reduction = depth - 2
				}
				if reduction < 0 {
					reduction = 0
				}
			}
			score = s.searchMoveWithPVS(b, depth-1, reduction, alpha, beta, ply, &childPV)
		}

		s.path.pop()
		undo()

		if s.stopped() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
		}

		if score >= beta {
			s.stats.BetaCutoffs++
			ttFlag = BoundLower
			if !move.IsCapture() {
				s.ordering.insertKiller(move, ply)
				s.ordering.rewardHistory(b.SideToMove(), move, depth)
			}
			break
		}

		if score > alpha {
			alpha = score
			ttFlag = BoundExact
			pv.Update(move, childPV)
		}
		childPV.Clear()
	}

	if !s.stopped() {
		s.tt.Store(posHash, depth, bestMove, scoreToTT(bestScore, ply), ttFlag)
	}

	return bestScore
}

// searchMoveWithPVS runs the three-stage principal variation search for a
// non-first move whose position is already on the board:
//  1. reduced-depth null-window scout,
//  2. full-depth null-window re-search if the reduced scout beat alpha,
//  3. full-window re-search if the score landed inside the window.
func (s *searcher) searchMoveWithPVS(b *shogi.Board, baseDepth, reduction int8, alpha, beta int32, ply int8, childPV *PVLine) int32 {
	score := -s.alphabeta(b, -(alpha + 1), -alpha, baseDepth-reduction, ply+1, childPV, false)

	if score > alpha && reduction > 0 {
		s.stats.LMRReSearches++
		score = -s.alphabeta(b, -(alpha + 1), -alpha, baseDepth, ply+1, childPV, false)
	}

	if score > alpha && score < beta {
		score = -s.alphabeta(b, -beta, -alpha, baseDepth, ply+1, childPV, false)
	}

	return score
}

func (s *searcher) quiescence(b *shogi.Board, alpha, beta int32, qply, ply int8, pv *PVLine) int32 {
	s.stats.QNodes++
	s.pollStop()

	if s.stopped() {
		return 0
	}

	inCheck := b.OurKingInCheck()

	if ply >= MaxDepth || qply >= s.cfg.QuiescenceMaxPly {
		return s.eval.Evaluate(b)
	}

	standPat := s.eval.Evaluate(b)

	if !inCheck {
		if standPat >= beta {
			s.stats.StandPatCutoffs++
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	bestScore := standPat
	if inCheck {
		bestScore = -MaxScore
	}

	var list moveList
	if inCheck {
		moves := b.GenerateLegalMoves()
		if len(moves) == 0 {
			return -MaxScore + int32(ply)
		}
		list = s.ordering.scoreMoves(b, moves, ply, shogi.NullMove)
	} else {
		moves := b.GenerateCaptures()
		// Quiet checking moves stay visible for the first plies of the
		// horizon, so short mating sequences are not tactically invisible.
		if qply < quiescenceCheckPly {
			for _, m := range b.GenerateLegalMoves() {
				if !m.IsCapture() && !m.Promotes() && b.GivesCheck(m) {
					moves = append(moves, m)
				}
			}
		}
		list = s.ordering.scoreCaptures(moves, shogi.NullMove)
	}

	var childPV PVLine

	for index := 0; index < len(list.moves); index++ {
		orderNextMove(index, &list)
		move := list.moves[index].move

		// Delta pruning: if even winning this material cleanly cannot lift
		// us to alpha, the capture is noise. Checking moves are exempt;
		// their point is mate, not material.
		if !inCheck && move.IsCapture() && standPat+captureGain(move)+s.cfg.DeltaMargin < alpha {
			s.stats.DeltaPrunes++
			continue
		}

		undo := b.Apply(move)
		s.path.push(b.Hash())

		score := -s.quiescence(b, -beta, -alpha, qply+1, ply+1, &childPV)

		s.path.pop()
		undo()

		if s.stopped() {
			return 0
		}

		if score > bestScore {
			bestScore = score
		}

		if score >= beta {
			s.stats.BetaCutoffs++
			return score
		}

		if score > alpha {
			alpha = score
			pv.Update(move, childPV)
		}
		childPV.Clear()
	}

	return bestScore
}
