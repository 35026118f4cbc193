package shogi

// Board is a full mutable position: 9x9 mailbox, hand inventories, side to
// move and an incrementally maintained zobrist digest. Search code works on
// thread-owned copies; Board itself is not safe for concurrent mutation.
type Board struct {
	squares [81]Piece
	hands   [2][HandSize]uint8
	stm     Color
	hash    uint64
	kingSq  [2]Square
	ply     int
}

func (b *Board) SideToMove() Color {
	return b.stm
}

// Hash is the 64-bit position digest used as the transposition-table key.
func (b *Board) Hash() uint64 {
	return b.hash
}

func (b *Board) Ply() int {
	return b.ply
}

func (b *Board) PieceAt(sq Square) Piece {
	return b.squares[sq]
}

// HandCount reports how many pieces of the given base type the side holds.
// Hands only ever contain base types; asking for a promoted type is 0.
func (b *Board) HandCount(c Color, pt PieceType) uint8 {
	if pt < Pawn || pt > Rook {
		return 0
	}
	return b.hands[c][handIndex[pt]]
}

func (b *Board) KingSquare(c Color) Square {
	return b.kingSq[c]
}

// Clone returns an independent copy. Board contains only arrays and scalars,
// so a value copy is complete.
func (b *Board) Clone() *Board {
	nb := *b
	return &nb
}

func (b *Board) CopyFrom(src *Board) {
	*b = *src
}

func (b *Board) putPiece(sq Square, p Piece) {
	b.squares[sq] = p
	b.hash ^= zobristPiece[p.Color()][p.Type()][sq]
	if p.Type() == King {
		b.kingSq[p.Color()] = sq
	}
}

func (b *Board) removePiece(sq Square) Piece {
	p := b.squares[sq]
	b.squares[sq] = NoPiece
	b.hash ^= zobristPiece[p.Color()][p.Type()][sq]
	return p
}

func (b *Board) addToHand(c Color, pt PieceType) {
	i := handIndex[pt]
	b.hands[c][i]++
	b.hash ^= zobristHand[c][i][b.hands[c][i]]
}

func (b *Board) removeFromHand(c Color, pt PieceType) {
	i := handIndex[pt]
	b.hash ^= zobristHand[c][i][b.hands[c][i]]
	b.hands[c][i]--
}

func (b *Board) flipSide() {
	b.stm = b.stm.Opponent()
	b.hash ^= zobristSide
}

// Apply plays the move and returns a closure that undoes it. The move must
// be one produced by move generation for this position.
func (b *Board) Apply(m Move) func() {
	us := b.stm
	if m.IsDrop() {
		pt := m.PieceType()
		b.removeFromHand(us, pt)
		b.putPiece(m.To(), MakePiece(us, pt))
		b.flipSide()
		b.ply++
		return func() {
			b.ply--
			b.flipSide()
			b.removePiece(m.To())
			b.addToHand(us, pt)
		}
	}

	from, to := m.From(), m.To()
	moved := b.removePiece(from)
	var captured Piece
	if b.squares[to] != NoPiece {
		captured = b.removePiece(to)
		b.addToHand(us, captured.Type().Demoted())
	}
	placed := moved
	if m.Promotes() {
		placed = MakePiece(us, moved.Type().Promoted())
	}
	b.putPiece(to, placed)
	b.flipSide()
	b.ply++

	return func() {
		b.ply--
		b.flipSide()
		b.removePiece(to)
		if captured != NoPiece {
			b.removeFromHand(us, captured.Type().Demoted())
			b.putPiece(to, captured)
		}
		b.putPiece(from, moved)
	}
}

// ApplyNullMove passes the turn; used by null-move pruning.
func (b *Board) ApplyNullMove() func() {
	b.flipSide()
	b.ply++
	return func() {
		b.ply--
		b.flipSide()
	}
}

// InCheck reports whether c's king is attacked.
func (b *Board) InCheck(c Color) bool {
	return b.attacked(b.kingSq[c], c.Opponent())
}

// OurKingInCheck reports whether the side to move is in check.
func (b *Board) OurKingInCheck() bool {
	return b.InCheck(b.stm)
}

// GivesCheck reports whether playing m checks the opponent.
func (b *Board) GivesCheck(m Move) bool {
	them := b.stm.Opponent()
	undo := b.Apply(m)
	checked := b.InCheck(them)
	undo()
	return checked
}
