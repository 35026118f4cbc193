package engine

import "time"

// TimeHandler converts the clock situation into a soft budget (checked
// between iterations) and a hard deadline (checked inside the search, where
// it raises the shared stop flag). Adapted clock model: remaining time plus
// byoyomi per move, the common shogi time control.
type TimeHandler struct {
	start        time.Time
	soft         time.Duration
	hard         time.Duration
	untimed      bool
	movesHorizon int
}

const (
	defaultMovesHorizon = 30
	overhead            = 30 * time.Millisecond
)

func newTimeHandler(limits Limits) *TimeHandler {
	th := &TimeHandler{start: time.Now(), movesHorizon: defaultMovesHorizon}

	switch {
	case limits.Infinite || (limits.Depth > 0 && limits.MoveTime == 0 && limits.RemainingMs == 0 && limits.ByoyomiMs == 0):
		th.untimed = true
	case limits.MoveTime > 0:
		th.soft = limits.MoveTime
		th.hard = limits.MoveTime
	default:
		remaining := time.Duration(limits.RemainingMs) * time.Millisecond
		byoyomi := time.Duration(limits.ByoyomiMs) * time.Millisecond
		slice := remaining/time.Duration(th.movesHorizon) + byoyomi*9/10
		if slice < overhead {
			slice = overhead
		}
		th.soft = slice
		th.hard = slice * 5 / 2
		ceiling := remaining*7/10 + byoyomi*9/10
		if th.hard > ceiling && ceiling > 0 {
			th.hard = ceiling
		}
		if th.hard < th.soft {
			th.hard = th.soft
		}
	}
	if !th.untimed && th.hard > overhead {
		th.hard -= overhead
	}
	return th
}

func (th *TimeHandler) Elapsed() time.Duration {
	return time.Since(th.start)
}

// SoftExceeded reports whether starting another iteration is worthwhile.
func (th *TimeHandler) SoftExceeded() bool {
	if th.untimed {
		return false
	}
	return th.Elapsed() >= th.soft
}

// HardExceeded is the in-search deadline; crossing it sets the stop flag.
func (th *TimeHandler) HardExceeded() bool {
	if th.untimed {
		return false
	}
	return th.Elapsed() >= th.hard
}
