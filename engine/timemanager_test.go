package engine

import (
	"testing"
	"time"
)

func TestTimeHandlerMoveTime(t *testing.T) {
	th := newTimeHandler(Limits{MoveTime: 500 * time.Millisecond})
	if th.untimed {
		t.Fatal("movetime search is timed")
	}
	if th.soft != 500*time.Millisecond {
		t.Errorf("soft = %v", th.soft)
	}
	if th.hard > 500*time.Millisecond {
		t.Errorf("hard budget %v exceeds the move time", th.hard)
	}
}

func TestTimeHandlerUntimed(t *testing.T) {
	for _, limits := range []Limits{
		{Infinite: true},
		{Depth: 6},
	} {
		th := newTimeHandler(limits)
		if th.SoftExceeded() || th.HardExceeded() {
			t.Errorf("%+v: untimed search must never report exceeded", limits)
		}
	}
}

func TestTimeHandlerClockSlice(t *testing.T) {
	th := newTimeHandler(Limits{RemainingMs: 60000, ByoyomiMs: 1000})
	if th.untimed {
		t.Fatal("clock search is timed")
	}
	if th.soft <= 0 || th.hard < th.soft {
		t.Errorf("budgets: soft=%v hard=%v", th.soft, th.hard)
	}
	// One move's slice must leave plenty for the rest of the game.
	if th.hard > 45*time.Second {
		t.Errorf("hard budget %v eats the clock", th.hard)
	}
}

func TestTimeHandlerExceeded(t *testing.T) {
	th := newTimeHandler(Limits{MoveTime: time.Millisecond})
	time.Sleep(5 * time.Millisecond)
	if !th.SoftExceeded() || !th.HardExceeded() {
		t.Error("expired budget must report exceeded")
	}
}
