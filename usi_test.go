package main

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fgantt/shogune/engine"
	"github.com/fgantt/shogune/shogi"
)

func testState() *usiState {
	return &usiState{
		cfg:   engine.DefaultConfig(),
		log:   zerolog.Nop(),
		board: shogi.MustParseSFEN(shogi.StartPos),
	}
}

func TestParseGoLimitsClock(t *testing.T) {
	tokens := strings.Fields("btime 60000 wtime 30000 byoyomi 10000")

	black := parseGoLimits(tokens, shogi.Black)
	if black.RemainingMs != 60000 || black.ByoyomiMs != 10000 {
		t.Errorf("black limits = %+v", black)
	}
	white := parseGoLimits(tokens, shogi.White)
	if white.RemainingMs != 30000 {
		t.Errorf("white limits = %+v", white)
	}
}

func TestParseGoLimitsModes(t *testing.T) {
	if l := parseGoLimits(strings.Fields("movetime 2500"), shogi.Black); l.MoveTime != 2500*time.Millisecond {
		t.Errorf("movetime = %v", l.MoveTime)
	}
	if l := parseGoLimits(strings.Fields("depth 8"), shogi.Black); l.Depth != 8 {
		t.Errorf("depth = %d", l.Depth)
	}
	if l := parseGoLimits([]string{"infinite"}, shogi.Black); !l.Infinite {
		t.Error("infinite not set")
	}
}

func TestSetPositionStartposMoves(t *testing.T) {
	st := testState()
	if err := st.setPosition(strings.Fields("startpos moves 7g7f 3c3d 8h2b+")); err != nil {
		t.Fatal(err)
	}
	if st.board.SideToMove() != shogi.White {
		t.Error("side to move after three moves should be white")
	}
	if len(st.history) != 3 {
		t.Errorf("history length = %d, want 3", len(st.history))
	}
	if st.history[0] != shogi.MustParseSFEN(shogi.StartPos).Hash() {
		t.Error("history must start at the initial position")
	}
}

func TestSetPositionSFEN(t *testing.T) {
	st := testState()
	sfen := "4k4/9/9/9/9/9/9/9/4K4 w G 1"
	if err := st.setPosition(append([]string{"sfen"}, strings.Fields(sfen)...)); err != nil {
		t.Fatal(err)
	}
	if got := st.board.ToSFEN(); got != sfen {
		t.Errorf("board = %s, want %s", got, sfen)
	}
}

func TestSetPositionRejectsIllegalMove(t *testing.T) {
	st := testState()
	if err := st.setPosition(strings.Fields("startpos moves 7g7f 7g7f")); err == nil {
		t.Error("replaying an illegal move must fail")
	}
	if err := st.setPosition([]string{"garbage"}); err == nil {
		t.Error("unknown position form must fail")
	}
}

func TestSetOptionRebuildsEngine(t *testing.T) {
	st := testState()
	st.ensureEngine()
	if st.eng == nil {
		t.Fatal("engine not built")
	}

	st.setOption(strings.Fields("name Threads value 2"))
	if st.eng != nil {
		t.Error("changing Threads must drop the engine for rebuild")
	}
	if st.cfg.Threads != 2 {
		t.Errorf("threads = %d", st.cfg.Threads)
	}

	st.setOption(strings.Fields("name USI_Hash value 64"))
	if st.cfg.TTSizeMB != 64 {
		t.Errorf("hash = %d", st.cfg.TTSizeMB)
	}

	st.setOption(strings.Fields("name BookFile value <empty>"))
	if st.bookPath != "" {
		t.Errorf("bookPath = %q", st.bookPath)
	}
}
