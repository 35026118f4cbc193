package engine

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
	"lukechampine.com/frand"

	"github.com/fgantt/shogune/shogi"
)

// splitPoint is the shared state of one young-brothers split: the window,
// the running best, and the bookkeeping that tells the owner when every
// sibling has been resolved. Scout results that beat alpha are only
// recorded here; the owner re-searches them on its own board with the real
// window, which keeps principal variations single-writer.
type splitPoint struct {
	mu   sync.Mutex
	cond *sync.Cond

	owner int
	alpha int32
	beta  int32

	bestScore int32
	bestMove  shogi.Move
	cutoff    bool

	outstanding int
	promoted    []shogi.Move // scouts that beat alpha, pending owner re-search
	failed      []shogi.Move // units whose worker panicked, pending owner re-search
}

func newSplitPoint(owner int, alpha, beta, bestScore int32, bestMove shogi.Move) *splitPoint {
	sp := &splitPoint{
		owner:     owner,
		alpha:     alpha,
		beta:      beta,
		bestScore: bestScore,
		bestMove:  bestMove,
	}
	sp.cond = sync.NewCond(&sp.mu)
	return sp
}

func (sp *splitPoint) snapshot() (alpha, beta int32, cutoff bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.alpha, sp.beta, sp.cutoff
}

func (sp *splitPoint) recordResult(move shogi.Move, score int32) {
	sp.mu.Lock()
	if score > sp.bestScore {
		sp.bestScore = score
		sp.bestMove = move
	}
	if score >= sp.beta {
		sp.cutoff = true
	} else if score > sp.alpha {
		sp.promoted = append(sp.promoted, move)
	}
	sp.outstanding--
	sp.cond.Broadcast()
	sp.mu.Unlock()
}

func (sp *splitPoint) recordFailure(move shogi.Move) {
	sp.mu.Lock()
	sp.failed = append(sp.failed, move)
	sp.outstanding--
	sp.cond.Broadcast()
	sp.mu.Unlock()
}

func (sp *splitPoint) recordAbandoned() {
	sp.mu.Lock()
	sp.outstanding--
	sp.cond.Broadcast()
	sp.mu.Unlock()
}

// splitResult is what a completed split hands back to the owning node.
type splitResult struct {
	score       int32
	move        shogi.Move
	alpha       int32
	raisedAlpha bool
	cutoff      bool
}

// coordinator owns the worker pool plumbing: the unit arena, the
// per-worker deques, and the idle/wake handshake for helpers.
type coordinator struct {
	cfg    *Config
	stop   *atomic.Bool
	arena  *unitArena
	deques []*workDeque
	log    zerolog.Logger

	mu   sync.Mutex
	cond *sync.Cond
	done atomic.Bool
}

func newCoordinator(cfg *Config, stop *atomic.Bool, log zerolog.Logger) *coordinator {
	arenaSize := cfg.Threads * cfg.MaxSiblingsPerSplit * 4
	if arenaSize < 64 {
		arenaSize = 64
	}
	c := &coordinator{
		cfg:    cfg,
		stop:   stop,
		arena:  newUnitArena(arenaSize),
		deques: make([]*workDeque, cfg.Threads),
		log:    log,
	}
	for i := range c.deques {
		c.deques[i] = &workDeque{}
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// shutdown wakes every idle helper so it can observe done and exit.
func (c *coordinator) shutdown() {
	c.done.Store(true)
	c.mu.Lock()
	c.cond.Broadcast()
	c.mu.Unlock()
}

func (c *coordinator) wake() {
	c.mu.Lock()
	c.cond.Broadcast()
	c.mu.Unlock()
}

func (c *coordinator) workAvailable() bool {
	for _, d := range c.deques {
		d.mu.Lock()
		n := len(d.items)
		d.mu.Unlock()
		if n > 0 {
			return true
		}
	}
	return false
}

// steal scans the deques from a random start and takes from the front,
// which holds the shallowest (largest) pending subtree.
func (c *coordinator) steal(selfID int) (int32, bool) {
	n := len(c.deques)
	start := frand.Intn(n)
	for i := 0; i < n; i++ {
		victim := (start + i) % n
		if victim == selfID {
			continue
		}
		if h, ok := c.deques[victim].popFront(); ok {
			return h, true
		}
	}
	return 0, false
}

// helperLoop is what the non-owner workers run for the whole episode:
// steal, search, sleep when the deques are dry.
func (c *coordinator) helperLoop(w *searcher) {
	for {
		if c.done.Load() {
			return
		}
		if h, ok := c.steal(w.id); ok {
			c.runUnit(w, h)
			continue
		}
		c.mu.Lock()
		for !c.workAvailable() && !c.done.Load() {
			c.cond.Wait()
		}
		c.mu.Unlock()
	}
}

// runUnit resolves one work unit on worker w: claim it, search the snapshot
// with a null-window scout, and report to the split point. A panic inside
// the scout is contained to the unit; the owner re-searches that sibling
// sequentially.
func (c *coordinator) runUnit(w *searcher, h int32) {
	u := c.arena.unit(h)
	sp := u.sp

	alpha, _, cutoff := sp.snapshot()
	if cutoff || c.stop.Load() {
		if u.abandon() {
			w.stats.UnitsAbandoned++
			sp.recordAbandoned()
		}
		return
	}
	if !u.claim() {
		return
	}

	w.stats.UnitsProcessed++
	if sp.owner != w.id {
		w.stats.UnitsStolen++
	}

	savedPath := w.path
	w.path = pathStack{}
	w.path.reset(u.line)

	var score int32
	panicked := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
				c.log.Error().
					Int("worker", w.id).
					Str("move", u.move.String()).
					Interface("panic", r).
					Msg("work unit panicked; owner will re-search")
			}
		}()
		var pv PVLine
		score = -w.alphabeta(&u.board, -(alpha + 1), -alpha, u.depth, u.ply, &pv, false)
	}()

	w.path = savedPath

	switch {
	case panicked:
		w.stats.UnitsFailed++
		u.finish(unitFailed)
		sp.recordFailure(u.move)
	case c.stop.Load():
		w.stats.UnitsAbandoned++
		u.finish(unitAbandoned)
		sp.recordAbandoned()
	default:
		u.finish(unitCompleted)
		sp.recordResult(u.move, score)
	}
}

// splitSearch parallelizes the younger brothers of a node. The first
// sibling has already been searched by the caller; the rest become work
// units. The owner searches its own units back-to-front, helps other
// splits while waiting, and finally re-searches promoted and failed
// siblings with the real window. Returns false when the arena cannot stake
// the split, in which case the caller continues sequentially.
func (c *coordinator) splitSearch(s *searcher, b *shogi.Board, list *moveList, firstIndex int, alpha, beta int32, depth, ply int8, bestScore int32, bestMove shogi.Move, pv *PVLine) (splitResult, bool) {
	remaining := len(list.moves) - firstIndex
	want := remaining
	if want > c.cfg.MaxSiblingsPerSplit {
		want = c.cfg.MaxSiblingsPerSplit
	}
	handles := c.arena.acquire(want)
	if handles == nil {
		return splitResult{}, false
	}

	rest := list.moves[firstIndex:]
	slices.SortFunc(rest, func(a, b scoredMove) bool {
		return b.score < a.score
	})

	sp := newSplitPoint(s.id, alpha, beta, bestScore, bestMove)
	sp.outstanding = len(handles)

	for i, h := range handles {
		u := c.arena.unit(h)
		move := rest[i].move

		undo := b.Apply(move)
		s.path.push(b.Hash())
		u.sp = sp
		u.move = move
		u.board = *b
		u.line = append(u.line[:0], s.path.line()...)
		u.depth = depth - 1
		u.ply = ply + 1
		atomic.StoreInt32(&u.state, unitQueued)
		s.path.pop()
		undo()

		c.deques[s.id].pushBack(h)
	}
	c.wake()

	// Helpful master: drain our own deque, then pitch in elsewhere rather
	// than blocking while thieves finish our siblings.
	for {
		if h, ok := c.deques[s.id].popBack(); ok {
			c.runUnit(s, h)
			continue
		}
		sp.mu.Lock()
		if sp.outstanding == 0 {
			sp.mu.Unlock()
			break
		}
		sp.mu.Unlock()
		if h, ok := c.steal(s.id); ok {
			c.runUnit(s, h)
			continue
		}
		sp.mu.Lock()
		if sp.outstanding > 0 {
			sp.cond.Wait()
		}
		sp.mu.Unlock()
	}

	sp.mu.Lock()
	res := splitResult{
		score:  sp.bestScore,
		move:   sp.bestMove,
		alpha:  alpha,
		cutoff: sp.cutoff,
	}
	promoted := append([]shogi.Move(nil), sp.promoted...)
	promoted = append(promoted, sp.failed...)
	sp.mu.Unlock()

	// Siblings the arena could not hold stay with the owner.
	for _, sm := range rest[len(handles):] {
		promoted = append(promoted, sm.move)
	}

	if !res.cutoff && !s.stopped() {
		var childPV PVLine
		for _, move := range promoted {
			undo := b.Apply(move)
			s.path.push(b.Hash())
			score := -s.alphabeta(b, -beta, -res.alpha, depth-1, ply+1, &childPV, false)
			s.path.pop()
			undo()

			if s.stopped() {
				break
			}
			if score > res.score {
				res.score = score
				res.move = move
			}
			if score >= beta {
				s.stats.BetaCutoffs++
				res.cutoff = true
				if !move.IsCapture() {
					s.ordering.insertKiller(move, ply)
					s.ordering.rewardHistory(b.SideToMove(), move, depth)
				}
				break
			}
			if score > res.alpha {
				res.alpha = score
				res.raisedAlpha = true
				pv.Update(move, childPV)
			}
			childPV.Clear()
		}
	}

	if res.cutoff {
		if cm := res.move; cm != shogi.NullMove && !cm.IsCapture() {
			s.ordering.insertKiller(cm, ply)
		}
	}

	c.arena.release(handles)
	return res, true
}
