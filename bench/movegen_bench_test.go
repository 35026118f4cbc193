package bench

import (
	"testing"

	"github.com/fgantt/shogune/shogi"
)

func benchGenerateMoves(b *testing.B, sfen string) {
	board, err := shogi.ParseSFEN(sfen)
	if err != nil {
		b.Fatalf("ParseSFEN: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = board.GenerateLegalMoves()
	}
}

func BenchmarkGenerateMoves_Initial(b *testing.B) {
	benchGenerateMoves(b, shogi.StartPos)
}

func BenchmarkGenerateMoves_Midgame(b *testing.B) {
	benchGenerateMoves(b, midgameSFEN)
}

func benchCaptures(b *testing.B, sfen string) {
	board, err := shogi.ParseSFEN(sfen)
	if err != nil {
		b.Fatalf("ParseSFEN: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = board.GenerateCaptures()
	}
}

func BenchmarkGenerateCaptures_Midgame(b *testing.B) {
	benchCaptures(b, midgameSFEN)
}

func BenchmarkApplyUndo(b *testing.B) {
	board := shogi.MustParseSFEN(shogi.StartPos)
	moves := board.GenerateLegalMoves()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		undo := board.Apply(moves[i%len(moves)])
		undo()
	}
}
