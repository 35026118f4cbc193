package shogi

// Perft counts leaf nodes of the legal move tree; the standard move
// generator oracle. Hirate reference values: 30, 900, 25470, 719731.
func Perft(b *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += Perft(b, depth-1)
		undo()
	}
	return nodes
}

// PerftDivide returns per-root-move leaf counts.
func PerftDivide(b *Board, depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	for _, m := range b.GenerateLegalMoves() {
		undo := b.Apply(m)
		out[m] = Perft(b, depth-1)
		undo()
	}
	return out
}
