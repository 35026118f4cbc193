package shogi

import (
	"errors"
	"fmt"
)

// Move packs a full move description into 32 bits:
//
//	bits 0-6   destination square
//	bits 7-13  origin square, or 0x7F for drops
//	bits 14-17 piece type moved (pre-move state) or dropped
//	bit  18    promotion flag
//	bits 19-22 captured piece type (board state, may be promoted), 0 if none
//
// The zero value is the null move: no legal move has from == to == 0 with an
// empty piece field.
type Move uint32

const NullMove Move = 0

const dropOrigin = 0x7F

var errBadMove = errors.New("shogi: malformed move string")

func NewMove(from, to Square, pt PieceType, captured PieceType, promote bool) Move {
	m := Move(to) | Move(from)<<7 | Move(pt)<<14 | Move(captured)<<19
	if promote {
		m |= 1 << 18
	}
	return m
}

func NewDrop(pt PieceType, to Square) Move {
	return Move(to) | dropOrigin<<7 | Move(pt)<<14
}

func (m Move) To() Square {
	return Square(m & 0x7F)
}

func (m Move) From() Square {
	return Square(m >> 7 & 0x7F)
}

func (m Move) IsDrop() bool {
	return m>>7&0x7F == dropOrigin
}

// PieceType is the type that moved (before any promotion) or was dropped.
func (m Move) PieceType() PieceType {
	return PieceType(m >> 14 & 0x0F)
}

func (m Move) Promotes() bool {
	return m>>18&1 == 1
}

// Captured returns the board-state type of the captured piece, NoPieceType
// if the move is quiet.
func (m Move) Captured() PieceType {
	return PieceType(m >> 19 & 0x0F)
}

func (m Move) IsCapture() bool {
	return m.Captured() != NoPieceType
}

// String renders the move in USI notation: "7g7f", "8h2b+", "P*5e".
func (m Move) String() string {
	if m == NullMove {
		return "none"
	}
	if m.IsDrop() {
		return pieceTypeLetters[m.PieceType()] + "*" + m.To().String()
	}
	s := m.From().String() + m.To().String()
	if m.Promotes() {
		s += "+"
	}
	return s
}

// ParseMove parses USI move notation. The result carries no capture
// information; match it against generated legal moves before applying.
func ParseMove(str string) (Move, error) {
	if len(str) == 4 && str[1] == '*' {
		var pt PieceType
		for t := Pawn; t <= Rook; t++ {
			if pieceTypeLetters[t][0] == str[0] {
				pt = t
				break
			}
		}
		to, ok := ParseSquare(str[2:])
		if pt == NoPieceType || !ok {
			return NullMove, fmt.Errorf("%w: %q", errBadMove, str)
		}
		return NewDrop(pt, to), nil
	}
	if len(str) != 4 && len(str) != 5 {
		return NullMove, fmt.Errorf("%w: %q", errBadMove, str)
	}
	from, ok1 := ParseSquare(str[:2])
	to, ok2 := ParseSquare(str[2:4])
	promote := len(str) == 5 && str[4] == '+'
	if !ok1 || !ok2 || (len(str) == 5 && !promote) {
		return NullMove, fmt.Errorf("%w: %q", errBadMove, str)
	}
	return NewMove(from, to, NoPieceType, NoPieceType, promote), nil
}

// SameAction reports whether two moves describe the same player action,
// ignoring the piece/capture metadata a parsed move lacks.
func (m Move) SameAction(other Move) bool {
	if m.IsDrop() != other.IsDrop() {
		return false
	}
	if m.IsDrop() {
		return m.PieceType() == other.PieceType() && m.To() == other.To()
	}
	return m.From() == other.From() && m.To() == other.To() && m.Promotes() == other.Promotes()
}
