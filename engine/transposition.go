package engine

import (
	"sync/atomic"
	"unsafe"

	"github.com/fgantt/shogune/shogi"
)

// Bound kinds for cached scores.
const (
	BoundExact uint8 = iota
	BoundLower       // score failed high; a lower bound on the true value
	BoundUpper       // score failed low; an upper bound on the true value
)

// TTEntry is the probe result handed to the search.
type TTEntry struct {
	Key   uint64
	Move  shogi.Move
	Score int32
	Depth int8
	Bound uint8
}

// ttSlot is one bucket of the table. The gate serializes writers per slot
// and lets readers take a consistent copy; a probe racing a store sees
// either the old or the new entry, never a torn mix.
type ttSlot struct {
	gate     int32
	key      uint64
	move     shogi.Move
	score    int16
	depth    int8
	boundGen uint8 // bound in the low 2 bits, generation above
}

// TransTable is the shared position cache: a fixed power-of-two array of
// single-entry buckets indexed by digest. Replacement is depth-preferred
// within a search episode; entries left over from earlier episodes are
// stale and always replaceable.
type TransTable struct {
	slots      []ttSlot
	mask       uint64
	generation uint8
}

// NewTransTable sizes the table to the given budget in megabytes.
func NewTransTable(megabytes int) *TransTable {
	slotSize := int(unsafe.Sizeof(ttSlot{}))
	n := megabytes * 1024 * 1024 / slotSize
	size := 1
	for size<<1 <= n {
		size <<= 1
	}
	return newTransTableWithSlots(size)
}

// newTransTableWithSlots builds a table with an exact slot count, which
// must be a power of two. Tests use tiny tables to force collisions.
func newTransTableWithSlots(slots int) *TransTable {
	return &TransTable{
		slots: make([]ttSlot, slots),
		mask:  uint64(slots - 1),
	}
}

// NewSearch advances the generation tag at the start of an episode.
func (t *TransTable) NewSearch() {
	t.generation = (t.generation + 1) & 63
}

func (t *TransTable) Clear() {
	for i := range t.slots {
		t.slots[i] = ttSlot{}
	}
}

func (t *TransTable) slotGen(s *ttSlot) uint8 { return s.boundGen >> 2 }
func (t *TransTable) pack(bound uint8) uint8  { return bound&3 | t.generation<<2 }

// Probe returns the cached entry for the digest if present. The boolean is
// false on a miss; an entry failing the validity check is dropped and
// reported as a miss with rejected set.
func (t *TransTable) Probe(key uint64) (entry TTEntry, ok, rejected bool) {
	s := &t.slots[key&t.mask]
	if !atomic.CompareAndSwapInt32(&s.gate, 0, 1) {
		// Bucket busy; a contended probe is just a miss.
		return TTEntry{}, false, false
	}
	if s.key == key {
		entry = TTEntry{
			Key:   s.key,
			Move:  s.move,
			Score: int32(s.score),
			Depth: s.depth,
			Bound: s.boundGen & 3,
		}
		ok = true
		if entry.Bound > BoundUpper || entry.Depth < 0 || entry.Depth > MaxDepth {
			s.key = 0
			s.move = shogi.NullMove
			s.score = 0
			s.depth = 0
			s.boundGen = 0
			entry = TTEntry{}
			ok = false
			rejected = true
		}
	}
	atomic.StoreInt32(&s.gate, 0)
	return entry, ok, rejected
}

// Store writes an entry under the replacement rule: a bucket's occupant is
// displaced only by an entry of equal or greater depth, or when the
// occupant comes from an earlier episode. Mate scores must already be
// ply-adjusted via scoreToTT.
func (t *TransTable) Store(key uint64, depth int8, move shogi.Move, score int32, bound uint8) {
	s := &t.slots[key&t.mask]
	if !atomic.CompareAndSwapInt32(&s.gate, 0, 1) {
		// Bucket busy; skipping the store keeps probes tear-free.
		return
	}
	if s.key == 0 || depth >= s.depth || t.slotGen(s) != t.generation {
		s.key = key
		s.move = move
		s.score = int16(score)
		s.depth = depth
		s.boundGen = t.pack(bound)
	}
	atomic.StoreInt32(&s.gate, 0)
}

// usableEntry decides whether a cached entry answers the current query and
// with what score. Exact entries always answer; bound entries answer only
// when they close the window.
func usableEntry(e TTEntry, depth int8, alpha, beta int32, ply int8) (bool, int32) {
	if e.Depth < depth {
		return false, 0
	}
	score := scoreFromTT(e.Score, ply)
	switch e.Bound {
	case BoundExact:
		return true, score
	case BoundUpper:
		if score <= alpha {
			return true, alpha
		}
	case BoundLower:
		if score >= beta {
			return true, beta
		}
	}
	return false, 0
}

// Mate scores are cached relative to the entry's own node rather than the
// root, so a stored mate stays correct wherever it is rediscovered.
func scoreToTT(score int32, ply int8) int32 {
	if score > Checkmate {
		return score + int32(ply)
	}
	if score < -Checkmate {
		return score - int32(ply)
	}
	return score
}

func scoreFromTT(score int32, ply int8) int32 {
	if score > Checkmate {
		return score - int32(ply)
	}
	if score < -Checkmate {
		return score + int32(ply)
	}
	return score
}
