package engine

import "runtime"

// Config carries the tunable search parameters. None of them are part of
// the correctness contract; Normalize clamps them into sane ranges.
type Config struct {
	// Threads is the worker pool size. 1 disables the parallel
	// coordinator entirely.
	Threads int

	// TTSizeMB is the transposition table size in megabytes.
	TTSizeMB int

	// MinSplitDepth is the minimum remaining depth at which a node may
	// hand its younger brothers to the worker pool.
	MinSplitDepth int8

	// MaxSiblingsPerSplit caps how many work units one split point emits.
	MaxSiblingsPerSplit int

	NullMoveMinDepth  int8
	NullMoveReduction int8

	LMRDepthLimit int8
	LMRMoveLimit  int

	AspirationWindow int32

	QuiescenceMaxPly int8
	DeltaMargin      int32
}

const (
	minThreads = 1
	maxThreads = 32
)

func DefaultConfig() Config {
	return Config{
		Threads:             runtime.NumCPU(),
		TTSizeMB:            256,
		MinSplitDepth:       5,
		MaxSiblingsPerSplit: 16,
		NullMoveMinDepth:    2,
		NullMoveReduction:   2,
		LMRDepthLimit:       2,
		LMRMoveLimit:        3,
		AspirationWindow:    35,
		QuiescenceMaxPly:    16,
		DeltaMargin:         200,
	}
}

func (c *Config) Normalize() {
	if c.Threads < minThreads {
		c.Threads = minThreads
	}
	if c.Threads > maxThreads {
		c.Threads = maxThreads
	}
	if c.TTSizeMB < 1 {
		c.TTSizeMB = 1
	}
	if c.MinSplitDepth < 2 {
		c.MinSplitDepth = 2
	}
	if c.MaxSiblingsPerSplit < 2 {
		c.MaxSiblingsPerSplit = 2
	}
	if c.NullMoveMinDepth < 2 {
		c.NullMoveMinDepth = 2
	}
	if c.NullMoveReduction < 1 {
		c.NullMoveReduction = 1
	}
	if c.LMRDepthLimit < 1 {
		c.LMRDepthLimit = 1
	}
	if c.LMRMoveLimit < 2 {
		c.LMRMoveLimit = 2
	}
	if c.AspirationWindow < 10 {
		c.AspirationWindow = 10
	}
	if c.QuiescenceMaxPly < 4 {
		c.QuiescenceMaxPly = 4
	}
	if c.DeltaMargin < 0 {
		c.DeltaMargin = 0
	}
}
