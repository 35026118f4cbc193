package shogi

import "testing"

func containsAction(moves []Move, usi string) bool {
	parsed, err := ParseMove(usi)
	if err != nil {
		panic(err)
	}
	for _, m := range moves {
		if m.SameAction(parsed) {
			return true
		}
	}
	return false
}

func TestNifuForbidsSecondPawnOnFile(t *testing.T) {
	// Black holds a pawn; every file already has a black pawn except 5,
	// where the pawn has promoted.
	b := MustParseSFEN("4k4/9/9/4+P4/9/9/PPPP1PPPP/9/4K4 b P 1")
	moves := b.GenerateLegalMoves()

	if !containsAction(moves, "P*5e") {
		t.Error("pawn drop on the tokin's file should be legal")
	}
	if containsAction(moves, "P*1e") {
		t.Error("pawn drop on a file with an unpromoted pawn must be illegal")
	}
}

func TestDeadPieceDropsForbidden(t *testing.T) {
	b := MustParseSFEN("4k4/9/9/9/9/9/9/9/4K4 b PLN 1")
	moves := b.GenerateLegalMoves()

	for _, usi := range []string{"P*4a", "L*4a", "N*4a", "N*4b"} {
		if containsAction(moves, usi) {
			t.Errorf("%s drops a piece where it could never move", usi)
		}
	}
	for _, usi := range []string{"P*4b", "L*4b", "N*4c"} {
		if !containsAction(moves, usi) {
			t.Errorf("%s should be legal", usi)
		}
	}
}

func TestForcedPromotion(t *testing.T) {
	// Black pawn on 5b: advancing to 5a must promote.
	b := MustParseSFEN("8k/4P4/9/9/9/9/9/9/4K4 b - 1")
	moves := b.GenerateLegalMoves()

	if !containsAction(moves, "5b5a+") {
		t.Error("promotion on reaching the last rank should be generated")
	}
	if containsAction(moves, "5b5a") {
		t.Error("a pawn may not stay unpromoted on the last rank")
	}
}

func TestUchifuzume(t *testing.T) {
	// White king boxed in on 1a by a black tokin wall; P*1b would be an
	// unanswerable pawn-drop mate, which is illegal.
	b := MustParseSFEN("k8/2G6/1G7/9/9/9/9/9/4K4 b P 1")
	moves := b.GenerateLegalMoves()
	if containsAction(moves, "P*9b") {
		t.Error("pawn-drop mate (uchifuzume) must be excluded")
	}
	// The same mate delivered by a board move is fine; here just confirm a
	// non-mating pawn drop elsewhere stays legal.
	if !containsAction(moves, "P*5e") {
		t.Error("unrelated pawn drop should remain legal")
	}
}

func TestCapturesSubsetOfLegalMoves(t *testing.T) {
	b := MustParseSFEN("ln1g5/1r2S1k2/p2pppn2/2ps2p2/1p7/2P6/PPSPPPP2/2BG3R1/LN1K4L b BGSLPnp 1")
	legal := b.GenerateLegalMoves()
	captures := b.GenerateCaptures()

	legalSet := make(map[Move]bool, len(legal))
	for _, m := range legal {
		legalSet[m] = true
	}
	for _, m := range captures {
		if !legalSet[m] {
			t.Errorf("capture %s not in legal move list", m)
		}
		if !m.IsCapture() && !m.Promotes() {
			t.Errorf("%s is neither capture nor promotion", m)
		}
	}
}

func TestCheckDetection(t *testing.T) {
	b := MustParseSFEN("4k4/9/4R4/9/9/9/9/9/4K4 w - 1")
	if !b.OurKingInCheck() {
		t.Error("white king on the rook's file should be in check")
	}
	b2 := MustParseSFEN(StartPos)
	if b2.OurKingInCheck() {
		t.Error("starting position is not check")
	}
}

func TestGivesCheck(t *testing.T) {
	b := MustParseSFEN("4k4/9/9/9/9/9/9/9/4K4 b G 1")
	parsed, _ := ParseMove("G*5b")
	var drop Move
	for _, m := range b.GenerateLegalMoves() {
		if m.SameAction(parsed) {
			drop = m
		}
	}
	if drop == NullMove {
		t.Fatal("G*5b should be legal")
	}
	if !b.GivesCheck(drop) {
		t.Error("gold dropped in front of the king gives check")
	}
}

func TestCheckmateHasNoLegalMoves(t *testing.T) {
	// Black king in the corner, mated by a rook-backed gold.
	b := MustParseSFEN("4k2r1/9/9/9/9/9/9/7g1/8K b - 1")
	if moves := b.GenerateLegalMoves(); len(moves) != 0 {
		t.Errorf("expected no legal moves, got %v", moves)
	}
}
