package kif

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const record = `# ---- test record ----
先手：山田
後手：佐藤
手合割：平手
   1 ７六歩(77)   ( 0:03/00:00:03)
   2 ３四歩(33)   ( 0:02/00:00:02)
   3 ２二角成(88) ( 0:10/00:00:13)
   4 同　銀(31)   ( 0:05/00:00:07)
   5 ４五角打     ( 0:21/00:00:34)
   6 投了
`

var wantUSI = []string{"7g7f", "3c3d", "8h2b+", "3a2b", "B*4e"}

func TestParseRecord(t *testing.T) {
	game, err := Parse(strings.NewReader(record))
	if err != nil {
		t.Fatal(err)
	}
	if game.Headers["先手"] != "山田" || game.Headers["後手"] != "佐藤" {
		t.Errorf("headers = %v", game.Headers)
	}
	if len(game.Moves) != len(wantUSI) {
		t.Fatalf("parsed %d moves, want %d", len(game.Moves), len(wantUSI))
	}
	for i, m := range game.Moves {
		if m.String() != wantUSI[i] {
			t.Errorf("move %d = %s, want %s", i+1, m, wantUSI[i])
		}
	}
}

func TestParseShiftJISRoundTrip(t *testing.T) {
	encoded := transform.NewReader(strings.NewReader(record), japanese.ShiftJIS.NewEncoder())
	game, err := ParseShiftJIS(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if len(game.Moves) != len(wantUSI) {
		t.Fatalf("parsed %d moves, want %d", len(game.Moves), len(wantUSI))
	}
}

func TestTerminalStopsParsing(t *testing.T) {
	game, err := Parse(strings.NewReader(
		"   1 ７六歩(77)\n   2 中断\n   3 ３四歩(33)\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(game.Moves) != 1 {
		t.Errorf("moves after a terminal marker were parsed: %d", len(game.Moves))
	}
}

func TestDropWithoutMarkerResolves(t *testing.T) {
	// No black bishop remains on the board, so the 打-less notation can
	// only mean the drop.
	game, err := Parse(strings.NewReader(
		"   1 ７六歩(77)\n" +
			"   2 ３四歩(33)\n" +
			"   3 ２二角成(88)\n" +
			"   4 同　銀(31)\n" +
			"   5 ４五角\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := game.Moves[len(game.Moves)-1].String(); got != "B*4e" {
		t.Errorf("last move = %s, want B*4e", got)
	}
}

func TestSameDestinationNeedsContext(t *testing.T) {
	if _, err := Parse(strings.NewReader("   1 同　銀(31)\n")); err == nil {
		t.Error("同 as the first move must fail")
	}
}

func TestIllegalMoveRejected(t *testing.T) {
	if _, err := Parse(strings.NewReader("   1 ５五飛(28)\n")); err == nil {
		t.Error("a rook jump through pawns must fail to resolve")
	}
}
