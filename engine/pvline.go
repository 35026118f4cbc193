package engine

import (
	"strings"

	"github.com/samber/lo"

	"github.com/fgantt/shogune/shogi"
)

// PVLine holds a principal variation: the sequence of best moves found for
// a line of play.
type PVLine struct {
	Moves []shogi.Move
}

func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

// Update sets the line to move followed by the child's best continuation.
func (pv *PVLine) Update(move shogi.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

func (pv *PVLine) Clone() PVLine {
	return PVLine{Moves: append([]shogi.Move(nil), pv.Moves...)}
}

// BestMove returns the first move of the line, NullMove when empty.
func (pv *PVLine) BestMove() shogi.Move {
	if len(pv.Moves) == 0 {
		return shogi.NullMove
	}
	return pv.Moves[0]
}

func (pv *PVLine) String() string {
	return strings.Join(lo.Map(pv.Moves, func(m shogi.Move, _ int) string {
		return m.String()
	}), " ")
}
