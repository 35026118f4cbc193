package shogi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartPos is the even-game (hirate) starting position.
const StartPos = "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"

var errBadSFEN = errors.New("shogi: malformed sfen")

func pieceFromLetter(letter byte, promoted bool) (Piece, bool) {
	c := Black
	if letter >= 'a' && letter <= 'z' {
		c = White
		letter -= 'a' - 'A'
	}
	for pt := Pawn; pt <= King; pt++ {
		if pieceTypeLetters[pt][0] == letter {
			if promoted {
				if !pt.CanPromote() {
					return NoPiece, false
				}
				pt = pt.Promoted()
			}
			return MakePiece(c, pt), true
		}
	}
	return NoPiece, false
}

// ParseSFEN builds a board from SFEN notation, e.g. the StartPos constant or
// "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1".
func ParseSFEN(sfen string) (*Board, error) {
	fields := strings.Fields(strings.TrimSpace(sfen))
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: %q", errBadSFEN, sfen)
	}

	b := &Board{kingSq: [2]Square{NoSquare, NoSquare}}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 9 {
		return nil, fmt.Errorf("%w: board has %d ranks", errBadSFEN, len(ranks))
	}
	for rank, row := range ranks {
		file := 0
		promoted := false
		for i := 0; i < len(row); i++ {
			ch := row[i]
			switch {
			case ch == '+':
				promoted = true
			case ch >= '1' && ch <= '9':
				if promoted {
					return nil, fmt.Errorf("%w: dangling promotion marker", errBadSFEN)
				}
				file += int(ch - '0')
			default:
				p, ok := pieceFromLetter(ch, promoted)
				if !ok || file > 8 {
					return nil, fmt.Errorf("%w: rank %q", errBadSFEN, row)
				}
				sq := MakeSquare(file, rank)
				b.squares[sq] = p
				if p.Type() == King {
					b.kingSq[p.Color()] = sq
				}
				file++
				promoted = false
			}
		}
		if file != 9 {
			return nil, fmt.Errorf("%w: rank %q covers %d files", errBadSFEN, row, file)
		}
	}

	switch fields[1] {
	case "b":
		b.stm = Black
	case "w":
		b.stm = White
	default:
		return nil, fmt.Errorf("%w: side %q", errBadSFEN, fields[1])
	}

	if fields[2] != "-" {
		count := 0
		for i := 0; i < len(fields[2]); i++ {
			ch := fields[2][i]
			if ch >= '0' && ch <= '9' {
				count = count*10 + int(ch-'0')
				continue
			}
			p, ok := pieceFromLetter(ch, false)
			if !ok || handIndex[p.Type()] < 0 {
				return nil, fmt.Errorf("%w: hand %q", errBadSFEN, fields[2])
			}
			if count == 0 {
				count = 1
			}
			b.hands[p.Color()][handIndex[p.Type()]] += uint8(count)
			count = 0
		}
	}

	if len(fields) >= 4 {
		n, err := strconv.Atoi(fields[3])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: move number %q", errBadSFEN, fields[3])
		}
		b.ply = n - 1
	}

	if b.kingSq[Black] == NoSquare || b.kingSq[White] == NoSquare {
		return nil, fmt.Errorf("%w: missing king", errBadSFEN)
	}

	b.hash = b.computeHash()
	return b, nil
}

// ToSFEN renders the position back to SFEN notation.
func (b *Board) ToSFEN() string {
	var sb strings.Builder
	for rank := 0; rank < 9; rank++ {
		empty := 0
		for file := 0; file < 9; file++ {
			p := b.squares[MakeSquare(file, rank)]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			s := pieceTypeLetters[p.Type()]
			if p.Color() == White {
				s = lower(s)
			}
			sb.WriteString(s)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank < 8 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(b.stm.String())
	sb.WriteByte(' ')

	any := false
	for c := Black; c <= White; c++ {
		for _, pt := range handOrder {
			n := b.hands[c][handIndex[pt]]
			if n == 0 {
				continue
			}
			any = true
			if n > 1 {
				sb.WriteString(strconv.Itoa(int(n)))
			}
			s := pieceTypeLetters[pt]
			if c == White {
				s = lower(s)
			}
			sb.WriteString(s)
		}
	}
	if !any {
		sb.WriteByte('-')
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.ply + 1))
	return sb.String()
}

// MustParseSFEN is ParseSFEN for known-good literals in tests and tools.
func MustParseSFEN(sfen string) *Board {
	b, err := ParseSFEN(sfen)
	if err != nil {
		panic(err)
	}
	return b
}
