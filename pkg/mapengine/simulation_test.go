package mapengine

import (
	"math/rand"
	"sync"
	"testing"
)

type countingRecorder struct {
	mu        sync.Mutex
	created   map[string]int
	completed int
	active    int
	logs      int
}

func (r *countingRecorder) EventCreated(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.created == nil {
		r.created = map[string]int{}
	}
	r.created[source]++
}

func (r *countingRecorder) EventsCompleted(n int) {
	r.mu.Lock()
	r.completed += n
	r.mu.Unlock()
}

func (r *countingRecorder) Observe(active, logs int) {
	r.mu.Lock()
	r.active, r.logs = active, logs
	r.mu.Unlock()
}

func newTestSimulation(rec Recorder) *Simulation {
	return NewSimulation(DefaultSimulationConfig(), rand.New(rand.NewSource(1)), rec, nil)
}

func TestSimulationThreeCities(t *testing.T) {
	rec := &countingRecorder{}
	sim := newTestSimulation(rec)

	sim.AddAttack(37.77, -122.42, 55.76, 37.62)
	sim.AddAttack(28.61, 77.20, 40.71, -74.00)
	sim.AddAttack(52.52, 13.40, -33.86, 151.21)

	f := sim.Snapshot()
	if len(f.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(f.Events))
	}
	if len(f.Logs) != 3 {
		t.Fatalf("got %d log entries, want 3", len(f.Logs))
	}
	for _, e := range f.Logs {
		if !entryPattern.MatchString(e.String()) {
			t.Errorf("log entry %q is malformed", e.String())
		}
	}
	// Recent() is newest first, and units rotate from the start of the roster.
	units := DefaultRosters().Units
	for i, e := range f.Logs {
		if want := units[2-i]; e.Unit != want {
			t.Errorf("Logs[%d].Unit = %q, want %q", i, e.Unit, want)
		}
	}
	if f.Events[0].FromLat != 37.77 || f.Events[2].ToLon != 151.21 {
		t.Errorf("events out of insertion order: %+v", f.Events)
	}

	// The slowest event needs 100 ticks.
	for i := 0; i < 150; i++ {
		sim.Advance(1)
	}
	f = sim.Snapshot()
	if len(f.Events) != 0 {
		t.Errorf("store still holds %d events", len(f.Events))
	}
	if len(f.Logs) != 3 {
		t.Errorf("log feed changed on completion: %d entries", len(f.Logs))
	}
	if rec.created[SourceManual] != 3 || rec.completed != 3 || rec.active != 0 || rec.logs != 3 {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestSimulationRandomAttackInBounds(t *testing.T) {
	sim := newTestSimulation(nil)
	for i := 0; i < 50; i++ {
		sim.AddRandomAttack(SourceTimer)
	}
	b := DefaultBounds()
	f := sim.Snapshot()
	if len(f.Events) != 50 || len(f.Logs) != DefaultMaxLogs {
		t.Fatalf("got %d events and %d logs", len(f.Events), len(f.Logs))
	}
	for _, ev := range f.Events {
		for _, lat := range []float64{ev.FromLat, ev.ToLat} {
			if lat < b.LatMin || lat >= b.LatMax {
				t.Errorf("latitude %f outside [%f, %f)", lat, b.LatMin, b.LatMax)
			}
		}
		for _, lon := range []float64{ev.FromLon, ev.ToLon} {
			if lon < b.LonMin || lon >= b.LonMax {
				t.Errorf("longitude %f outside [%f, %f)", lon, b.LonMin, b.LonMax)
			}
		}
		if ev.Speed < 0 || ev.Speed >= MaxSpeed || ev.CurveBias < 0 || ev.CurveBias >= MaxCurveBias {
			t.Errorf("event %d has speed %f bias %f", ev.ID, ev.Speed, ev.CurveBias)
		}
	}
}

func TestSimulationIDsAreUnique(t *testing.T) {
	sim := newTestSimulation(nil)
	for i := 0; i < 20; i++ {
		sim.AddAttack(0, 0, 10, 10)
	}
	seen := map[uint64]bool{}
	for _, ev := range sim.Snapshot().Events {
		if seen[ev.ID] {
			t.Fatalf("duplicate id %d", ev.ID)
		}
		seen[ev.ID] = true
	}
}

func TestSimulationConcurrentAccess(t *testing.T) {
	rec := &countingRecorder{}
	sim := newTestSimulation(rec)

	const writers, perWriter = 4, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				sim.AddRandomAttack(SourceManual)
			}
		}()
	}
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			sim.Advance(1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			f := sim.Snapshot()
			if len(f.Logs) > DefaultMaxLogs {
				t.Errorf("log feed holds %d entries", len(f.Logs))
				return
			}
			for _, ev := range f.Events {
				if ev.Progress >= 1 {
					t.Errorf("snapshot holds completed event %d", ev.ID)
					return
				}
			}
		}
	}()
	wg.Wait()

	if got := rec.created[SourceManual]; got != writers*perWriter {
		t.Errorf("created = %d, want %d", got, writers*perWriter)
	}
	if got := sim.Snapshot(); len(got.Logs) != DefaultMaxLogs {
		t.Errorf("final log size = %d, want %d", len(got.Logs), DefaultMaxLogs)
	}
}

func TestSimulationLastObservationMatchesState(t *testing.T) {
	for round := 0; round < 20; round++ {
		rec := &countingRecorder{}
		sim := newTestSimulation(rec)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				sim.AddRandomAttack(SourceTimer)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				sim.Advance(1)
			}
		}()
		wg.Wait()

		f := sim.Snapshot()
		rec.mu.Lock()
		active, logs := rec.active, rec.logs
		rec.mu.Unlock()
		if active != len(f.Events) || logs != len(f.Logs) {
			t.Fatalf("round %d: last observation active=%d logs=%d, state has %d events and %d logs",
				round, active, logs, len(f.Events), len(f.Logs))
		}
	}
}
