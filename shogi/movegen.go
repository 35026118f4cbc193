package shogi

// Movement is described with unit directions in (file, rank) space. dirs8
// indexes the eight king directions; step and slide capabilities per piece
// type are bitmasks over that index, built once at startup for both colors.
var dirs8 = [8][2]int8{
	{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

var (
	stepMask  [2][PieceTypeCount]uint8
	slideMask [2][PieceTypeCount]uint8
)

func dirIndex(df, dr int8) uint8 {
	for i, d := range dirs8 {
		if d[0] == df && d[1] == dr {
			return uint8(i)
		}
	}
	panic("shogi: not a unit direction")
}

func maskOf(dirs ...[2]int8) uint8 {
	var m uint8
	for _, d := range dirs {
		m |= 1 << dirIndex(d[0], d[1])
	}
	return m
}

func init() {
	// Black orientation; forward is rank-decreasing.
	forward := [2]int8{0, -1}
	goldSteps := maskOf([2]int8{0, -1}, [2]int8{-1, -1}, [2]int8{1, -1}, [2]int8{-1, 0}, [2]int8{1, 0}, [2]int8{0, 1})
	diagonals := maskOf([2]int8{-1, -1}, [2]int8{1, -1}, [2]int8{-1, 1}, [2]int8{1, 1})
	orthogonals := maskOf([2]int8{0, -1}, [2]int8{-1, 0}, [2]int8{1, 0}, [2]int8{0, 1})

	stepMask[Black][Pawn] = maskOf(forward)
	stepMask[Black][Silver] = maskOf([2]int8{0, -1}, [2]int8{-1, -1}, [2]int8{1, -1}, [2]int8{-1, 1}, [2]int8{1, 1})
	stepMask[Black][Gold] = goldSteps
	stepMask[Black][ProPawn] = goldSteps
	stepMask[Black][ProLance] = goldSteps
	stepMask[Black][ProKnight] = goldSteps
	stepMask[Black][ProSilver] = goldSteps
	stepMask[Black][King] = diagonals | orthogonals
	stepMask[Black][Horse] = orthogonals
	stepMask[Black][Dragon] = diagonals

	slideMask[Black][Lance] = maskOf(forward)
	slideMask[Black][Bishop] = diagonals
	slideMask[Black][Rook] = orthogonals
	slideMask[Black][Horse] = diagonals
	slideMask[Black][Dragon] = orthogonals

	// White is the vertical mirror: (df, dr) -> (df, -dr).
	mirror := func(m uint8) uint8 {
		var out uint8
		for i := uint8(0); i < 8; i++ {
			if m&(1<<i) != 0 {
				out |= 1 << dirIndex(dirs8[i][0], -dirs8[i][1])
			}
		}
		return out
	}
	for pt := 1; pt < PieceTypeCount; pt++ {
		stepMask[White][pt] = mirror(stepMask[Black][pt])
		slideMask[White][pt] = mirror(slideMask[Black][pt])
	}
}

// knightRankDelta is the rank offset from a knight to the squares it
// attacks.
func knightRankDelta(c Color) int {
	if c == Black {
		return -2
	}
	return 2
}

// attacked reports whether any piece of color `by` attacks sq. It scans
// outward from sq: the first piece met on each ray decides that ray.
func (b *Board) attacked(sq Square, by Color) bool {
	f, r := sq.File(), sq.Rank()

	// Knight attackers sit two ranks behind the target (from their own
	// point of view), one file to either side.
	nr := r - knightRankDelta(by)
	if nr >= 0 && nr <= 8 {
		for _, df := range [2]int{-1, 1} {
			nf := f + df
			if nf < 0 || nf > 8 {
				continue
			}
			p := b.squares[MakeSquare(nf, nr)]
			if p != NoPiece && p.Color() == by && p.Type() == Knight {
				return true
			}
		}
	}

	for i, d := range dirs8 {
		toward := uint8(1) << (7 - i) // direction from the ray piece back to sq
		sf, sr := f+int(d[0]), r+int(d[1])
		dist := 1
		for sf >= 0 && sf <= 8 && sr >= 0 && sr <= 8 {
			p := b.squares[MakeSquare(sf, sr)]
			if p != NoPiece {
				if p.Color() == by {
					if dist == 1 && stepMask[by][p.Type()]&toward != 0 {
						return true
					}
					if slideMask[by][p.Type()]&toward != 0 {
						return true
					}
				}
				break
			}
			sf += int(d[0])
			sr += int(d[1])
			dist++
		}
	}
	return false
}

// appendBoardMove emits the legal promotion variants of a board move. When
// capturesOnly is set, quiet non-promoting moves are suppressed.
func appendBoardMove(moves []Move, c Color, from, to Square, pt PieceType, captured PieceType, capturesOnly bool) []Move {
	canPromote := pt.CanPromote() &&
		(promotionZone(c, from.Rank()) || promotionZone(c, to.Rank()))
	mustPromote := ((pt == Pawn || pt == Lance) && lastRank(c, to.Rank())) ||
		(pt == Knight && lastTwoRanks(c, to.Rank()))

	if canPromote {
		moves = append(moves, NewMove(from, to, pt, captured, true))
	}
	if !mustPromote && (!capturesOnly || captured != NoPieceType) {
		moves = append(moves, NewMove(from, to, pt, captured, false))
	}
	return moves
}

func (b *Board) pseudoBoardMoves(moves []Move, capturesOnly bool) []Move {
	us := b.stm
	for sq := Square(0); sq < SquareCount; sq++ {
		p := b.squares[sq]
		if p == NoPiece || p.Color() != us {
			continue
		}
		pt := p.Type()
		f, r := sq.File(), sq.Rank()

		if pt == Knight {
			nr := r + knightRankDelta(us)
			if nr >= 0 && nr <= 8 {
				for _, df := range [2]int{-1, 1} {
					nf := f + df
					if nf < 0 || nf > 8 {
						continue
					}
					to := MakeSquare(nf, nr)
					tp := b.squares[to]
					if tp != NoPiece && tp.Color() == us {
						continue
					}
					if capturesOnly && tp == NoPiece && !promotionZone(us, nr) {
						continue
					}
					moves = appendBoardMove(moves, us, sq, to, pt, tp.Type(), capturesOnly)
				}
			}
			continue
		}

		steps := stepMask[us][pt]
		slides := slideMask[us][pt]
		for i, d := range dirs8 {
			bit := uint8(1) << i
			if steps&bit == 0 && slides&bit == 0 {
				continue
			}
			sliding := slides&bit != 0
			tf, tr := f+int(d[0]), r+int(d[1])
			for tf >= 0 && tf <= 8 && tr >= 0 && tr <= 8 {
				to := MakeSquare(tf, tr)
				tp := b.squares[to]
				if tp != NoPiece && tp.Color() == us {
					break
				}
				moves = appendBoardMove(moves, us, sq, to, pt, tp.Type(), capturesOnly)
				if tp != NoPiece || !sliding {
					break
				}
				tf += int(d[0])
				tr += int(d[1])
			}
		}
	}
	return moves
}

// hasUnpromotedPawnOnFile implements the nifu drop restriction.
func (b *Board) hasUnpromotedPawnOnFile(c Color, file int) bool {
	for rank := 0; rank <= 8; rank++ {
		p := b.squares[MakeSquare(file, rank)]
		if p != NoPiece && p.Color() == c && p.Type() == Pawn {
			return true
		}
	}
	return false
}

func (b *Board) pseudoDrops(moves []Move) []Move {
	us := b.stm
	for i := 0; i < HandSize; i++ {
		if b.hands[us][i] == 0 {
			continue
		}
		pt := handPieceTypes[i]
		for sq := Square(0); sq < SquareCount; sq++ {
			if b.squares[sq] != NoPiece {
				continue
			}
			rank := sq.Rank()
			switch pt {
			case Pawn:
				if lastRank(us, rank) || b.hasUnpromotedPawnOnFile(us, sq.File()) {
					continue
				}
			case Lance:
				if lastRank(us, rank) {
					continue
				}
			case Knight:
				if lastTwoRanks(us, rank) {
					continue
				}
			}
			moves = append(moves, NewDrop(pt, sq))
		}
	}
	return moves
}

// GenerateLegalMoves returns every legal move for the side to move,
// including drops. Pawn drops that deliver an inescapable check
// (uchifuzume) are excluded.
func (b *Board) GenerateLegalMoves() []Move {
	return b.legalMoves(false, true)
}

// GenerateCaptures returns the legal captures and promotions; used by the
// quiescence search.
func (b *Board) GenerateCaptures() []Move {
	return b.legalMoves(true, false)
}

func (b *Board) legalMoves(capturesOnly, checkDropMate bool) []Move {
	pseudo := make([]Move, 0, 128)
	pseudo = b.pseudoBoardMoves(pseudo, capturesOnly)
	if !capturesOnly {
		pseudo = b.pseudoDrops(pseudo)
	}

	us := b.stm
	legal := pseudo[:0]
	for _, m := range pseudo {
		undo := b.Apply(m)
		ok := !b.InCheck(us)
		if ok && checkDropMate && m.IsDrop() && m.PieceType() == Pawn && b.InCheck(b.stm) {
			ok = b.hasAnyLegalMove()
		}
		undo()
		if ok {
			legal = append(legal, m)
		}
	}
	return legal
}

// hasAnyLegalMove is the cheap mate test behind both stalemate/checkmate
// detection and the uchifuzume rule. It deliberately skips the drop-mate
// filter itself: a reply is only ever invalidated by uchifuzume if it is a
// checking pawn drop, which cannot be the sole escape from check.
func (b *Board) hasAnyLegalMove() bool {
	pseudo := make([]Move, 0, 128)
	pseudo = b.pseudoBoardMoves(pseudo, false)
	pseudo = b.pseudoDrops(pseudo)
	us := b.stm
	for _, m := range pseudo {
		undo := b.Apply(m)
		ok := !b.InCheck(us)
		undo()
		if ok {
			return true
		}
	}
	return false
}

// HasLegalMoves reports whether the side to move has any legal move. In
// shogi a side with no moves has lost, whether or not it is in check.
func (b *Board) HasLegalMoves() bool {
	return b.hasAnyLegalMove()
}
