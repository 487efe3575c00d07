package mapengine

// Rand is the subset of *math/rand.Rand the engine draws from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

const (
	BaseIncrement = 0.01
	MaxSpeed      = 0.02
	MaxCurveBias  = 0.8
)

// Event is one trajectory in flight.
type Event struct {
	ID                             uint64
	FromLat, FromLon, ToLat, ToLon float64
	Progress                       float64
	Speed                          float64
	CurveBias                      float64
}

// NewEvent builds an event with zero progress and speed/bias drawn from rng.
func NewEvent(rng Rand, id uint64, fromLat, fromLon, toLat, toLon float64) Event {
	return Event{
		ID:        id,
		FromLat:   fromLat,
		FromLon:   fromLon,
		ToLat:     toLat,
		ToLon:     toLon,
		Speed:     rng.Float64() * MaxSpeed,
		CurveBias: rng.Float64() * MaxCurveBias,
	}
}

// Endpoints projects the event's endpoints and control point for a viewport.
func (ev Event) Endpoints(width, height int) (from, ctrl, to Point) {
	from = Project(ev.FromLat, ev.FromLon, width, height)
	to = Project(ev.ToLat, ev.ToLon, width, height)
	return from, ControlPoint(from, to, ev.CurveBias), to
}

// EventStore is an ordered collection of active events. It is not safe for
// concurrent use; Simulation serializes access to it.
type EventStore struct {
	events []Event
}

func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) Add(ev Event) {
	s.events = append(s.events, ev)
}

// Advance moves every event forward by (base + speed) * factor and drops the
// ones that reached 1.0 in the same pass. It returns how many were removed.
func (s *EventStore) Advance(factor float64) int {
	active := s.events[:0]
	for _, ev := range s.events {
		ev.Progress += (BaseIncrement + ev.Speed) * factor
		if ev.Progress < 1.0 {
			active = append(active, ev)
		}
	}
	removed := len(s.events) - len(active)
	clear(s.events[len(active):])
	s.events = active
	return removed
}

// Snapshot returns a copy of the active events in insertion order.
func (s *EventStore) Snapshot() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *EventStore) Len() int { return len(s.events) }
