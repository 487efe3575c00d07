package mapengine

import (
	"math"
	"testing"
)

// fakeRand replays fixed values, wrapping when exhausted.
type fakeRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *fakeRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *fakeRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.ii%len(r.ints)]
	r.ii++
	return v % n
}

func TestNewEvent(t *testing.T) {
	rng := &fakeRand{floats: []float64{0.5, 0.25}}
	ev := NewEvent(rng, 7, 1, 2, 3, 4)

	if ev.ID != 7 || ev.FromLat != 1 || ev.FromLon != 2 || ev.ToLat != 3 || ev.ToLon != 4 {
		t.Errorf("unexpected identity/endpoints: %+v", ev)
	}
	if ev.Progress != 0 {
		t.Errorf("Progress = %f, want 0", ev.Progress)
	}
	if ev.Speed != 0.01 {
		t.Errorf("Speed = %f, want 0.01", ev.Speed)
	}
	if ev.CurveBias != 0.2 {
		t.Errorf("CurveBias = %f, want 0.2", ev.CurveBias)
	}
}

func TestEventStoreAdvance(t *testing.T) {
	s := NewEventStore()
	// step 0.0298: 33 ticks reach 0.9834, the 34th crosses 1.0
	fast := NewEvent(&fakeRand{floats: []float64{0.99, 0}}, 1, 0, 0, 10, 10)
	// step 0.01
	slow := NewEvent(&fakeRand{floats: []float64{0, 0}}, 2, 0, 0, 10, 10)
	s.Add(fast)
	s.Add(slow)

	for n := 1; n <= 33; n++ {
		if removed := s.Advance(1); removed != 0 {
			t.Fatalf("tick %d removed %d events", n, removed)
		}
		snap := s.Snapshot()
		if len(snap) != 2 {
			t.Fatalf("tick %d: %d events, want 2", n, len(snap))
		}
		if want := float64(n) * (BaseIncrement + fast.Speed); math.Abs(snap[0].Progress-want) > 1e-9 {
			t.Errorf("tick %d: fast progress = %f, want %f", n, snap[0].Progress, want)
		}
		if want := float64(n) * BaseIncrement; math.Abs(snap[1].Progress-want) > 1e-9 {
			t.Errorf("tick %d: slow progress = %f, want %f", n, snap[1].Progress, want)
		}
	}

	if removed := s.Advance(1); removed != 1 {
		t.Fatalf("tick 34 removed %d events, want 1", removed)
	}
	snap := s.Snapshot()
	if len(snap) != 1 || snap[0].ID != 2 {
		t.Fatalf("after removal snapshot = %+v, want only event 2", snap)
	}
	for _, ev := range snap {
		if ev.Progress >= 1 {
			t.Errorf("event %d kept with progress %f", ev.ID, ev.Progress)
		}
	}
}

func TestEventStoreSnapshotIsCopy(t *testing.T) {
	s := NewEventStore()
	s.Add(NewEvent(&fakeRand{}, 1, 0, 0, 1, 1))

	snap := s.Snapshot()
	snap[0].Progress = 0.9
	s.Advance(1)

	if snap[0].Progress != 0.9 {
		t.Error("Advance changed a previously returned snapshot")
	}
	if got := s.Snapshot()[0].Progress; math.Abs(got-BaseIncrement) > 1e-12 {
		t.Errorf("store progress = %f, want %f", got, BaseIncrement)
	}
}

func TestEventStoreAdvanceEmpty(t *testing.T) {
	s := NewEventStore()
	if removed := s.Advance(1); removed != 0 || s.Len() != 0 {
		t.Errorf("Advance on empty store: removed=%d len=%d", removed, s.Len())
	}
}
