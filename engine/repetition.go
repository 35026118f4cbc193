package engine

// pathStack tracks the position digests along the line currently being
// searched, seeded with the game history supplied by the caller. Each
// worker owns one; split points hand a copy of theirs to whichever worker
// picks up a sibling, so sennichite detection is identical on stolen work.
type pathStack struct {
	hashes  []uint64
	rootLen int
}

func newPathStack(history []uint64) *pathStack {
	p := &pathStack{}
	p.reset(history)
	return p
}

func (p *pathStack) reset(history []uint64) {
	p.hashes = append(p.hashes[:0], history...)
	p.rootLen = len(p.hashes)
}

func (p *pathStack) push(hash uint64) {
	p.hashes = append(p.hashes, hash)
}

func (p *pathStack) pop() {
	if len(p.hashes) > p.rootLen {
		p.hashes = p.hashes[:len(p.hashes)-1]
	}
}

// line returns the current hash sequence; callers must copy before
// retaining it.
func (p *pathStack) line() []uint64 {
	return p.hashes
}

// repetitions counts earlier occurrences of hash, excluding the topmost
// entry (the current position itself when it has just been pushed).
func (p *pathStack) repetitions(hash uint64) int {
	n := 0
	for i := len(p.hashes) - 2; i >= 0; i-- {
		if p.hashes[i] == hash {
			n++
		}
	}
	return n
}

// isRepetitionDraw applies the sennichite rule. Strictly the draw needs a
// fourth occurrence; scoring the second recurrence as a draw inside the
// search is the usual shortcut that stops the tree from cycling.
func (p *pathStack) isRepetitionDraw(hash uint64) bool {
	return p.repetitions(hash) >= 2
}
