// Package book implements a weighted opening book keyed by position
// digest. Book files are gob snapshots behind zstd compression, built from
// game records by cmd/mkbook.
package book

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"lukechampine.com/frand"

	"github.com/fgantt/shogune/shogi"
)

// Entry is one candidate move for a position, weighted by how often it was
// played in the source games.
type Entry struct {
	Move   shogi.Move
	Weight uint32
}

// Book maps a position digest to its candidate moves. The zero value is an
// empty, usable book.
type Book struct {
	Positions map[uint64][]Entry
}

func New() *Book {
	return &Book{Positions: make(map[uint64][]Entry)}
}

func (b *Book) Len() int {
	return len(b.Positions)
}

// Add records one played move for a position.
func (b *Book) Add(hash uint64, move shogi.Move) {
	if b.Positions == nil {
		b.Positions = make(map[uint64][]Entry)
	}
	entries := b.Positions[hash]
	for i := range entries {
		if entries[i].Move == move {
			entries[i].Weight++
			return
		}
	}
	b.Positions[hash] = append(entries, Entry{Move: move, Weight: 1})
}

// Probe returns a move for the position, chosen at random in proportion to
// the entry weights, or false when the position is out of book.
func (b *Book) Probe(board *shogi.Board) (shogi.Move, bool) {
	entries := b.Positions[board.Hash()]
	if len(entries) == 0 {
		return shogi.NullMove, false
	}
	var total uint32
	for _, e := range entries {
		total += e.Weight
	}
	pick := uint32(frand.Uint64n(uint64(total)))
	for _, e := range entries {
		if pick < e.Weight {
			return e.Move, true
		}
		pick -= e.Weight
	}
	return entries[len(entries)-1].Move, true
}

// FromGames builds a book out of move sequences starting from the initial
// position, keeping the first maxPly moves of each game. Games with moves
// that do not replay legally are truncated at the first bad move.
func FromGames(games [][]shogi.Move, maxPly int) *Book {
	bk := New()
	for _, game := range games {
		board := shogi.MustParseSFEN(shogi.StartPos)
		for ply, move := range game {
			if ply >= maxPly {
				break
			}
			matched := shogi.NullMove
			for _, legal := range board.GenerateLegalMoves() {
				if legal.SameAction(move) {
					matched = legal
					break
				}
			}
			if matched == shogi.NullMove {
				break
			}
			bk.Add(board.Hash(), matched)
			board.Apply(matched)
		}
	}
	return bk
}

// Save writes the book to path as zstd-compressed gob.
func (b *Book) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("book: create %s: %w", path, err)
	}

	zw, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("book: zstd writer: %w", err)
	}
	if err := gob.NewEncoder(zw).Encode(b); err != nil {
		zw.Close()
		f.Close()
		return fmt.Errorf("book: encode: %w", err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("book: flush: %w", err)
	}
	return f.Close()
}

// Load reads a book written by Save.
func Load(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("book: open %s: %w", path, err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("book: zstd reader: %w", err)
	}
	defer zr.Close()

	var b Book
	if err := gob.NewDecoder(zr).Decode(&b); err != nil {
		return nil, fmt.Errorf("book: decode: %w", err)
	}
	return &b, nil
}
