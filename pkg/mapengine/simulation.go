package mapengine

import (
	"log/slog"
	"sync"
)

// Recorder receives simulation activity. pkg/metrics implements it with
// prometheus collectors. Calls are made while the simulation is locked.
type Recorder interface {
	EventCreated(source string)
	EventsCompleted(n int)
	Observe(activeEvents, logEntries int)
}

type nopRecorder struct{}

func (nopRecorder) EventCreated(string) {}
func (nopRecorder) EventsCompleted(int) {}
func (nopRecorder) Observe(int, int)    {}

// Bounds is the box random endpoints are drawn from.
type Bounds struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
}

func DefaultBounds() Bounds {
	return Bounds{LatMin: -60, LatMax: 70, LonMin: -180, LonMax: 180}
}

type SimulationConfig struct {
	MaxLogs int
	Rosters Rosters
	Bounds  Bounds
}

func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		MaxLogs: DefaultMaxLogs,
		Rosters: DefaultRosters(),
		Bounds:  DefaultBounds(),
	}
}

// Sources passed to Recorder.EventCreated.
const (
	SourceManual = "manual"
	SourceTimer  = "timer"
	SourceDemo   = "demo"
	SourceFeed   = "feed"
)

// Frame is a consistent view of the events and the log at one instant.
type Frame struct {
	Events []Event
	Logs   []LogEntry // most recent first
}

// Simulation owns the event store, the log feed and the random source. A
// single mutex covers all of them so an event and its log line are always
// published together.
type Simulation struct {
	mu      sync.Mutex
	rng     Rand
	events  *EventStore
	logs    *LogFeed
	entries *EntryFactory
	bounds  Bounds
	nextID  uint64

	rec    Recorder
	logger *slog.Logger
}

func NewSimulation(cfg SimulationConfig, rng Rand, rec Recorder, logger *slog.Logger) *Simulation {
	if rec == nil {
		rec = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulation{
		rng:     rng,
		events:  NewEventStore(),
		logs:    NewLogFeed(cfg.MaxLogs),
		entries: NewEntryFactory(cfg.Rosters),
		bounds:  cfg.Bounds,
		rec:     rec,
		logger:  logger,
	}
}

// AddAttack creates an event between the two points together with its log
// entry. Coordinates are not validated.
func (s *Simulation) AddAttack(fromLat, fromLon, toLat, toLon float64) {
	s.add(SourceManual, fromLat, fromLon, toLat, toLon)
}

// AddAttackFrom is AddAttack with an explicit source label for metrics.
func (s *Simulation) AddAttackFrom(source string, fromLat, fromLon, toLat, toLon float64) {
	s.add(source, fromLat, fromLon, toLat, toLon)
}

// AddRandomAttack creates an event between two random points in the
// configured bounds.
func (s *Simulation) AddRandomAttack(source string) {
	s.mu.Lock()
	fromLat, fromLon := s.randomPointLocked()
	toLat, toLon := s.randomPointLocked()
	s.addLocked(source, fromLat, fromLon, toLat, toLon)
	s.mu.Unlock()
}

func (s *Simulation) add(source string, fromLat, fromLon, toLat, toLon float64) {
	s.mu.Lock()
	s.addLocked(source, fromLat, fromLon, toLat, toLon)
	s.mu.Unlock()
}

func (s *Simulation) addLocked(source string, fromLat, fromLon, toLat, toLon float64) {
	s.nextID++
	ev := NewEvent(s.rng, s.nextID, fromLat, fromLon, toLat, toLon)
	entry := s.entries.Next(s.rng)
	s.events.Add(ev)
	s.logs.Push(entry)

	s.rec.EventCreated(source)
	s.rec.Observe(s.events.Len(), s.logs.Len())
	s.logger.Debug("Attack created",
		slog.Uint64("id", ev.ID),
		slog.String("source", source),
		slog.String("entry", entry.String()))
}

func (s *Simulation) randomPointLocked() (lat, lon float64) {
	b := s.bounds
	lat = b.LatMin + s.rng.Float64()*(b.LatMax-b.LatMin)
	lon = b.LonMin + s.rng.Float64()*(b.LonMax-b.LonMin)
	return lat, lon
}

// Advance steps every event once and returns how many completed.
func (s *Simulation) Advance(factor float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.events.Advance(factor)
	if removed > 0 {
		s.rec.EventsCompleted(removed)
	}
	s.rec.Observe(s.events.Len(), s.logs.Len())
	return removed
}

func (s *Simulation) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Frame{Events: s.events.Snapshot(), Logs: s.logs.Recent()}
}
