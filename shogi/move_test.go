package shogi

import "testing"

func TestMoveStringRoundTrip(t *testing.T) {
	cases := []string{"7g7f", "8h2b+", "P*5e", "N*3c", "1a1b"}
	for _, usi := range cases {
		m, err := ParseMove(usi)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", usi, err)
		}
		if got := m.String(); got != usi {
			t.Errorf("ParseMove(%q).String() = %q", usi, got)
		}
	}
}

func TestParseMoveRejectsGarbage(t *testing.T) {
	for _, usi := range []string{"", "7g", "7g7z", "X*5e", "7g7f++", "0a1b"} {
		if _, err := ParseMove(usi); err == nil {
			t.Errorf("ParseMove(%q) accepted", usi)
		}
	}
}

func TestMoveAccessors(t *testing.T) {
	from, _ := ParseSquare("8h")
	to, _ := ParseSquare("2b")
	m := NewMove(from, to, Bishop, Bishop, true)

	if m.From() != from || m.To() != to {
		t.Error("from/to mismatch")
	}
	if m.PieceType() != Bishop || m.Captured() != Bishop {
		t.Error("piece/captured mismatch")
	}
	if !m.Promotes() || !m.IsCapture() || m.IsDrop() {
		t.Error("flag mismatch")
	}

	d := NewDrop(Silver, to)
	if !d.IsDrop() || d.PieceType() != Silver || d.To() != to {
		t.Error("drop mismatch")
	}
	if d.IsCapture() || d.Promotes() {
		t.Error("drop carries capture/promotion flags")
	}
}

func TestSameActionIgnoresMetadata(t *testing.T) {
	from, _ := ParseSquare("8h")
	to, _ := ParseSquare("2b")
	full := NewMove(from, to, Bishop, Bishop, true)
	parsed, _ := ParseMove("8h2b+")

	if !full.SameAction(parsed) {
		t.Error("full move should match its parsed form")
	}
	plain, _ := ParseMove("8h2b")
	if full.SameAction(plain) {
		t.Error("promotion flag must distinguish actions")
	}
	drop, _ := ParseMove("B*2b")
	if full.SameAction(drop) {
		t.Error("board move and drop are different actions")
	}
}
