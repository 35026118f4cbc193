package engine

import (
	"sync"
	"sync/atomic"

	"github.com/fgantt/shogune/shogi"
)

// Work unit lifecycle. Transitions go through compare-and-swap so exactly
// one worker ever runs (or abandons) a unit.
const (
	unitQueued int32 = iota
	unitRunning
	unitCompleted
	unitAbandoned
	unitFailed
)

// workUnit is one sibling subtree handed to the pool: a snapshot of the
// position after the sibling move, plus everything a thief needs to search
// it as if it were the owner. Units live in a fixed arena and are referred
// to by index, never by pointer, so requeueing and reuse stay cheap.
type workUnit struct {
	state int32

	sp    *splitPoint
	move  shogi.Move
	board shogi.Board
	line  []uint64 // path digests from root through this unit's position
	depth int8
	ply   int8
}

// unitArena is the fixed pool of work units. Handles are indexes into the
// units slice; the free list is a simple mutex-guarded stack since
// acquisition only happens at split creation, never in the search hot path.
type unitArena struct {
	mu    sync.Mutex
	units []workUnit
	free  []int32
}

func newUnitArena(size int) *unitArena {
	a := &unitArena{
		units: make([]workUnit, size),
		free:  make([]int32, size),
	}
	for i := range a.free {
		a.free[i] = int32(size - 1 - i)
	}
	return a
}

// acquire reserves up to want handles. A split needs at least two siblings
// to be worth the bookkeeping; fewer available means the caller searches
// sequentially instead.
func (a *unitArena) acquire(want int) []int32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.free) < 2 {
		return nil
	}
	n := want
	if n > len(a.free) {
		n = len(a.free)
	}
	handles := make([]int32, n)
	copy(handles, a.free[len(a.free)-n:])
	a.free = a.free[:len(a.free)-n]
	return handles
}

func (a *unitArena) release(handles []int32) {
	a.mu.Lock()
	a.free = append(a.free, handles...)
	a.mu.Unlock()
}

func (a *unitArena) unit(h int32) *workUnit {
	return &a.units[h]
}

// workDeque is one worker's queue of unit handles. The owner pushes and
// pops at the back (depth-first, cache-warm); thieves take from the front,
// grabbing the shallowest and therefore largest subtrees.
type workDeque struct {
	mu    sync.Mutex
	items []int32
}

func (d *workDeque) pushBack(h int32) {
	d.mu.Lock()
	d.items = append(d.items, h)
	d.mu.Unlock()
}

func (d *workDeque) popBack() (int32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return 0, false
	}
	h := d.items[len(d.items)-1]
	d.items = d.items[:len(d.items)-1]
	return h, true
}

func (d *workDeque) popFront() (int32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.items) == 0 {
		return 0, false
	}
	h := d.items[0]
	d.items = d.items[1:]
	return h, true
}

// claim moves a unit from Queued to Running. Exactly one caller wins.
func (u *workUnit) claim() bool {
	return atomic.CompareAndSwapInt32(&u.state, unitQueued, unitRunning)
}

// abandon marks a still-queued unit as not worth searching (cutoff upstream
// or stop request). Running units finish on their own and discard their
// result at the split point.
func (u *workUnit) abandon() bool {
	return atomic.CompareAndSwapInt32(&u.state, unitQueued, unitAbandoned)
}

func (u *workUnit) finish(state int32) {
	atomic.StoreInt32(&u.state, state)
}
