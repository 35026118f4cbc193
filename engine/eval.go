package engine

import (
	"github.com/fgantt/shogune/shogi"
)

// Evaluator scores a position from the side to move's perspective, in
// centipawn-like units. Scores must stay inside (-Checkmate, Checkmate);
// mate scores are the search's to assign.
type Evaluator interface {
	Evaluate(b *shogi.Board) int32
}

// pieceValue holds the material scale. Promoted minors converge on gold
// strength; the horse and dragon keep their long moves on top of it.
var pieceValue = [15]int32{
	0,
	90,   // Pawn
	315,  // Lance
	405,  // Knight
	495,  // Silver
	540,  // Gold
	855,  // Bishop
	990,  // Rook
	0,    // King
	540,  // Tokin
	540,  // promoted Lance
	540,  // promoted Knight
	540,  // promoted Silver
	945,  // Horse
	1395, // Dragon
}

// advanceWeight is a per-rank-of-advancement bonus, the minimal positional
// term: pieces that want to cross the board get credit for doing so.
var advanceWeight = [15]int32{
	0,
	4, // Pawn
	2, // Lance
	3, // Knight
	2, // Silver
	1, // Gold
	1, // Bishop
	1, // Rook
	0, // King
	1, 1, 1, 1, 1, 1,
}

// MaterialEvaluator is the default evaluation: material on the board and in
// hand, plus a small advancement bonus. Deliberately simple so search
// behavior is easy to reason about and test.
type MaterialEvaluator struct{}

func (MaterialEvaluator) Evaluate(b *shogi.Board) int32 {
	var score [2]int32
	for sq := shogi.Square(0); sq < 81; sq++ {
		p := b.PieceAt(sq)
		if p == shogi.NoPiece {
			continue
		}
		c := p.Color()
		score[c] += pieceValue[p.Type()]
		advance := sq.Rank()
		if c == shogi.Black {
			advance = 8 - advance
		}
		score[c] += int32(advance) * advanceWeight[p.Type()]
	}
	for _, c := range []shogi.Color{shogi.Black, shogi.White} {
		for pt := shogi.Pawn; pt <= shogi.Rook; pt++ {
			score[c] += int32(b.HandCount(c, pt)) * pieceValue[pt]
		}
	}

	stm := b.SideToMove()
	diff := score[stm] - score[stm.Opponent()]
	if diff >= Checkmate {
		diff = Checkmate - 1
	}
	if diff <= -Checkmate {
		diff = -Checkmate + 1
	}
	return diff
}

// captureGain is the material swing of a move, used by delta pruning: the
// captured piece plus any promotion gain.
func captureGain(m shogi.Move) int32 {
	gain := pieceValue[m.Captured()]
	if m.Promotes() {
		gain += pieceValue[m.PieceType().Promoted()] - pieceValue[m.PieceType()]
	}
	return gain
}
