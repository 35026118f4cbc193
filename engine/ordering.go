package engine

import (
	"github.com/fgantt/shogune/shogi"
)

type scoredMove struct {
	move  shogi.Move
	score uint16
}

type moveList struct {
	moves []scoredMove
}

/*
	Move ordering offsets!
	- The PV / cached move goes first; it is the move most likely to cause
	  an immediate cutoff or guide us down last iteration's best path.
	- Promotions next; in shogi a promotion is almost always a material or
	  tempo gain, and a tokin on the attack decides games.
	- Captures by MVV-LVA so the tactical shots are never buried.
	- Killers and history score the quiet moves and drops; history never
	  climbs above the killer band.
*/
var pvOffset uint16 = 25000
var promotionOffset uint16 = 20000
var captureOffset uint16 = 15000

var killerOffset uint16 = 2000

const historyCeiling = 1800

// mvvRank orders piece types by how much capturing them is worth; promoted
// minors all count as gold-strength victims.
var mvvRank = [15]uint16{
	0,
	1, // Pawn
	2, // Lance
	3, // Knight
	4, // Silver
	5, // Gold
	6, // Bishop
	7, // Rook
	9, // King (never actually captured)
	5, // Tokin
	5, // promoted Lance
	5, // promoted Knight
	5, // promoted Silver
	8, // Horse
	8, // Dragon
}

func mvvLva(victim, attacker shogi.PieceType) uint16 {
	return mvvRank[victim]*10 + 10 - mvvRank[attacker]
}

// OrderingContext holds one worker's killer and history tables. Each worker
// owns its own copy, so the heuristics are updated without any locking;
// stolen work simply warms the thief's tables instead of the owner's.
type OrderingContext struct {
	killers [MaxDepth + 1][2]shogi.Move
	history [2][15][81]uint16
}

func (oc *OrderingContext) Clear() {
	for ply := 0; ply <= MaxDepth; ply++ {
		oc.killers[ply][0] = shogi.NullMove
		oc.killers[ply][1] = shogi.NullMove
	}
	for side := range oc.history {
		for pt := range oc.history[side] {
			for sq := range oc.history[side][pt] {
				oc.history[side][pt][sq] = 0
			}
		}
	}
}

// insertKiller records a quiet move that caused a beta cutoff at this ply.
func (oc *OrderingContext) insertKiller(move shogi.Move, ply int8) {
	if move != oc.killers[ply][0] {
		oc.killers[ply][1] = oc.killers[ply][0]
		oc.killers[ply][0] = move
	}
}

// rewardHistory bumps the (piece type, destination) pair of a cutoff move,
// weighted quadratically by remaining depth. When a counter reaches the
// ceiling the whole table is halved so old preferences fade.
func (oc *OrderingContext) rewardHistory(side shogi.Color, move shogi.Move, depth int8) {
	bonus := uint16(depth) * uint16(depth)
	if bonus > historyCeiling {
		bonus = historyCeiling
	}
	pt := move.PieceType()
	entry := &oc.history[side][pt][move.To()]
	*entry += bonus
	if *entry >= historyCeiling {
		for c := range oc.history {
			for p := range oc.history[c] {
				for sq := range oc.history[c][p] {
					oc.history[c][p][sq] /= 2
				}
			}
		}
	}
}

// orderNextMove selection-sorts a single move into place: a full sort is
// wasted work when the first move usually cuts off.
func orderNextMove(currIndex int, moves *moveList) {
	bestIndex := currIndex
	bestScore := moves.moves[bestIndex].score

	for index := currIndex + 1; index < len(moves.moves); index++ {
		if moves.moves[index].score > bestScore {
			bestIndex = index
			bestScore = moves.moves[index].score
		}
	}

	moves.moves[currIndex], moves.moves[bestIndex] = moves.moves[bestIndex], moves.moves[currIndex]
}

func (oc *OrderingContext) scoreMoves(b *shogi.Board, moves []shogi.Move, ply int8, pvMove shogi.Move) moveList {
	list := moveList{moves: make([]scoredMove, len(moves))}
	side := b.SideToMove()

	for i, move := range moves {
		var score uint16
		switch {
		case move == pvMove || (pvMove != shogi.NullMove && move.SameAction(pvMove)):
			score = pvOffset + 1500
		case move.Promotes():
			score = promotionOffset + mvvRank[move.PieceType()]*10
		case move.IsCapture():
			score = captureOffset + mvvLva(move.Captured(), move.PieceType())
		case move == oc.killers[ply][0]:
			score = killerOffset + 200
		case move == oc.killers[ply][1]:
			score = killerOffset
		default:
			score = oc.history[side][move.PieceType()][move.To()]
		}
		list.moves[i] = scoredMove{move: move, score: score}
	}
	return list
}

// scoreCaptures orders the quiescence move set: the cached move first, then
// promotions, then MVV-LVA.
func (oc *OrderingContext) scoreCaptures(moves []shogi.Move, pvMove shogi.Move) moveList {
	list := moveList{moves: make([]scoredMove, len(moves))}

	for i, move := range moves {
		var score uint16
		switch {
		case move == pvMove || (pvMove != shogi.NullMove && move.SameAction(pvMove)):
			score = captureOffset + 256
		case move.Promotes() && !move.IsCapture():
			score = captureOffset + 75
		default:
			score = mvvLva(move.Captured(), move.PieceType())
		}
		list.moves[i] = scoredMove{move: move, score: score}
	}
	return list
}
