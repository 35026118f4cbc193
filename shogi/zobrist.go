package shogi

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// Zobrist keys. Hand keys are indexed by count so that adding/removing a
// piece from hand is an XOR of two keys. 18 pawns is the per-side maximum.
// The seed is fixed: position digests key opening book files on disk, so
// they must agree across processes.
var (
	zobristPiece [2][PieceTypeCount][SquareCount]uint64
	zobristHand  [2][HandSize][19]uint64
	zobristSide  uint64
)

var zobristSeed = [32]byte{
	0x5b, 0x1e, 0x8f, 0xa2, 0x3c, 0xd4, 0x67, 0x09,
	0x91, 0x44, 0xe8, 0x2d, 0x7a, 0xbf, 0x10, 0xc6,
	0x0e, 0x53, 0x9d, 0x38, 0xf1, 0x6b, 0x84, 0x27,
	0xaa, 0x05, 0xce, 0x72, 0x19, 0xdb, 0x40, 0xfd,
}

func init() {
	rng := frand.NewCustom(zobristSeed[:], 1024, 12)
	next := func() uint64 {
		var buf [8]byte
		rng.Read(buf[:])
		return binary.LittleEndian.Uint64(buf[:])
	}
	for c := 0; c < 2; c++ {
		for pt := 1; pt < PieceTypeCount; pt++ {
			for sq := 0; sq < SquareCount; sq++ {
				zobristPiece[c][pt][sq] = next()
			}
		}
		for h := 0; h < HandSize; h++ {
			for n := 1; n < 19; n++ {
				zobristHand[c][h][n] = next()
			}
		}
	}
	zobristSide = next()
}

// computeHash builds the digest from scratch; Apply maintains it
// incrementally.
func (b *Board) computeHash() uint64 {
	var h uint64
	for sq := Square(0); sq < SquareCount; sq++ {
		if p := b.squares[sq]; p != NoPiece {
			h ^= zobristPiece[p.Color()][p.Type()][sq]
		}
	}
	for c := 0; c < 2; c++ {
		for i := 0; i < HandSize; i++ {
			for n := uint8(1); n <= b.hands[c][i]; n++ {
				h ^= zobristHand[c][i][n]
			}
		}
	}
	if b.stm == White {
		h ^= zobristSide
	}
	return h
}
