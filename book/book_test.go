package book

import (
	"path/filepath"
	"testing"

	"github.com/fgantt/shogune/shogi"
)

func usiMoves(t *testing.T, moves ...string) []shogi.Move {
	t.Helper()
	out := make([]shogi.Move, 0, len(moves))
	for _, s := range moves {
		m, err := shogi.ParseMove(s)
		if err != nil {
			t.Fatalf("bad move %q: %v", s, err)
		}
		out = append(out, m)
	}
	return out
}

func TestProbeWeightedEntries(t *testing.T) {
	board := shogi.MustParseSFEN(shogi.StartPos)
	moves := usiMoves(t, "7g7f", "2g2f")

	bk := New()
	bk.Add(board.Hash(), moves[0])
	bk.Add(board.Hash(), moves[0])
	bk.Add(board.Hash(), moves[1])
	if bk.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bk.Len())
	}

	seen := map[shogi.Move]bool{}
	for i := 0; i < 200; i++ {
		m, ok := bk.Probe(board)
		if !ok {
			t.Fatal("known position probed as out of book")
		}
		if !m.SameAction(moves[0]) && !m.SameAction(moves[1]) {
			t.Fatalf("probe returned unknown move %s", m)
		}
		seen[m] = true
	}
	if len(seen) != 2 {
		t.Error("weighted probe never returned the lighter entry")
	}
}

func TestProbeOutOfBook(t *testing.T) {
	bk := New()
	if _, ok := bk.Probe(shogi.MustParseSFEN(shogi.StartPos)); ok {
		t.Error("empty book must miss")
	}
}

func TestFromGamesTruncatesAtBadMove(t *testing.T) {
	good := usiMoves(t, "7g7f", "3c3d", "2g2f")
	// Second move is illegal in its position; only the first survives.
	broken := usiMoves(t, "7g7f", "7g7f")

	bk := FromGames([][]shogi.Move{good, broken}, 2)

	board := shogi.MustParseSFEN(shogi.StartPos)
	if _, ok := bk.Probe(board); !ok {
		t.Fatal("start position must be in book")
	}

	// maxPly 2 keeps two plies of the good game: after 7g7f the reply
	// 3c3d is booked, the third move is not.
	board.Apply(good[0])
	if _, ok := bk.Probe(board); !ok {
		t.Error("position after first move must be in book")
	}
	board.Apply(good[1])
	if _, ok := bk.Probe(board); ok {
		t.Error("positions beyond maxPly must stay out of book")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	board := shogi.MustParseSFEN(shogi.StartPos)
	moves := usiMoves(t, "7g7f")

	bk := New()
	bk.Add(board.Hash(), moves[0])

	path := filepath.Join(t.TempDir(), "test.book")
	if err := bk.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Len() != bk.Len() {
		t.Errorf("loaded %d positions, want %d", loaded.Len(), bk.Len())
	}
	m, ok := loaded.Probe(board)
	if !ok || !m.SameAction(moves[0]) {
		t.Errorf("loaded book probe = %s, %v", m, ok)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.book")); err == nil {
		t.Error("loading a missing file must fail")
	}
}
