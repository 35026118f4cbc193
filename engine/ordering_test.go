package engine

import (
	"testing"

	"github.com/fgantt/shogune/shogi"
)

func moveScores(list moveList) map[shogi.Move]uint16 {
	m := make(map[shogi.Move]uint16, len(list.moves))
	for _, sm := range list.moves {
		m[sm.move] = sm.score
	}
	return m
}

func TestScoreMovesPriorityBands(t *testing.T) {
	b := shogi.MustParseSFEN("4k4/9/4p4/4P4/9/9/9/9/4K4 b G 1")
	moves := b.GenerateLegalMoves()

	capture := shogi.NullMove
	quiet := shogi.NullMove
	for _, m := range moves {
		if m.IsCapture() && !m.Promotes() {
			capture = m
		}
		if m.IsDrop() && m.To() == shogi.MakeSquare(0, 8) {
			quiet = m
		}
	}
	if capture == shogi.NullMove || quiet == shogi.NullMove {
		t.Fatal("test position should offer a capture and a quiet drop")
	}

	var oc OrderingContext
	oc.insertKiller(quiet, 3)

	list := oc.scoreMoves(b, moves, 3, capture)
	scores := moveScores(list)

	if scores[capture] < pvOffset {
		t.Error("the PV move must take the top band")
	}
	if scores[quiet] < killerOffset || scores[quiet] >= captureOffset {
		t.Errorf("killer score %d outside the killer band", scores[quiet])
	}
	for m, s := range scores {
		if m != capture && m != quiet && s >= killerOffset && !m.IsCapture() && !m.Promotes() {
			t.Errorf("plain quiet move %s scored %d, above the history band", m, s)
		}
	}
}

func TestOrderNextMoveSelectsMaximum(t *testing.T) {
	list := moveList{moves: []scoredMove{
		{move: 1, score: 5},
		{move: 2, score: 50},
		{move: 3, score: 20},
	}}
	orderNextMove(0, &list)
	if list.moves[0].move != 2 {
		t.Errorf("first ordered move = %v, want the highest score", list.moves[0].move)
	}
	orderNextMove(1, &list)
	if list.moves[1].move != 3 {
		t.Errorf("second ordered move = %v", list.moves[1].move)
	}
}

func TestKillerSlots(t *testing.T) {
	var oc OrderingContext
	m1 := shogi.NewDrop(shogi.Gold, 10)
	m2 := shogi.NewDrop(shogi.Silver, 11)

	oc.insertKiller(m1, 4)
	oc.insertKiller(m2, 4)
	if oc.killers[4][0] != m2 || oc.killers[4][1] != m1 {
		t.Error("second killer should shift the first into slot 1")
	}
	oc.insertKiller(m2, 4)
	if oc.killers[4][0] != m2 || oc.killers[4][1] != m1 {
		t.Error("re-inserting the current killer must not duplicate it")
	}
}

func TestHistoryRewardAndDecay(t *testing.T) {
	var oc OrderingContext
	m := shogi.NewMove(50, 41, shogi.Silver, shogi.NoPieceType, false)

	oc.rewardHistory(shogi.Black, m, 6)
	if got := oc.history[shogi.Black][shogi.Silver][41]; got != 36 {
		t.Errorf("history after depth-6 cutoff = %d, want 36", got)
	}

	for i := 0; i < 100; i++ {
		oc.rewardHistory(shogi.Black, m, 8)
	}
	if got := oc.history[shogi.Black][shogi.Silver][41]; got >= historyCeiling {
		t.Errorf("history %d not decayed below the ceiling", got)
	}
}

func TestHistoryStaysBelowKillerBand(t *testing.T) {
	// A single maximum-depth cutoff must not lift an entry into the
	// killer band even momentarily surviving the halving pass.
	var oc OrderingContext
	m := shogi.NewMove(50, 41, shogi.Silver, shogi.NoPieceType, false)

	oc.rewardHistory(shogi.Black, m, MaxDepth)
	oc.rewardHistory(shogi.Black, m, MaxDepth)
	if got := oc.history[shogi.Black][shogi.Silver][41]; got >= killerOffset {
		t.Errorf("history %d reached the killer band (%d)", got, killerOffset)
	}
}

func TestMVVLVAPrefersBigVictims(t *testing.T) {
	if mvvLva(shogi.Rook, shogi.Pawn) <= mvvLva(shogi.Pawn, shogi.Pawn) {
		t.Error("capturing a rook must outrank capturing a pawn")
	}
	if mvvLva(shogi.Gold, shogi.Pawn) <= mvvLva(shogi.Gold, shogi.Rook) {
		t.Error("cheaper attackers rank first for the same victim")
	}
}
