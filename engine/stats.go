package engine

import "github.com/samber/lo"

// SearchStatistics collects counts for each search mechanism. Every worker
// keeps its own copy with zero contention; they are summed once at episode
// completion.
type SearchStatistics struct {
	Nodes  uint64
	QNodes uint64

	TTProbes  uint64
	TTHits    uint64
	TTCutoffs uint64
	TTRejects uint64 // entries discarded by the probe validity check

	BetaCutoffs     uint64
	NullMoveCutoffs uint64
	StandPatCutoffs uint64
	DeltaPrunes     uint64
	LMRReSearches   uint64

	AspirationReSearches uint64

	UnitsProcessed uint64
	UnitsStolen    uint64
	UnitsAbandoned uint64
	UnitsFailed    uint64
}

func (s *SearchStatistics) Add(o SearchStatistics) {
	s.Nodes += o.Nodes
	s.QNodes += o.QNodes
	s.TTProbes += o.TTProbes
	s.TTHits += o.TTHits
	s.TTCutoffs += o.TTCutoffs
	s.TTRejects += o.TTRejects
	s.BetaCutoffs += o.BetaCutoffs
	s.NullMoveCutoffs += o.NullMoveCutoffs
	s.StandPatCutoffs += o.StandPatCutoffs
	s.DeltaPrunes += o.DeltaPrunes
	s.LMRReSearches += o.LMRReSearches
	s.AspirationReSearches += o.AspirationReSearches
	s.UnitsProcessed += o.UnitsProcessed
	s.UnitsStolen += o.UnitsStolen
	s.UnitsAbandoned += o.UnitsAbandoned
	s.UnitsFailed += o.UnitsFailed
}

// mergeStatistics sums the per-worker counters into one episode total.
func mergeStatistics(all []SearchStatistics) SearchStatistics {
	return lo.Reduce(all, func(acc SearchStatistics, s SearchStatistics, _ int) SearchStatistics {
		acc.Add(s)
		return acc
	}, SearchStatistics{})
}
