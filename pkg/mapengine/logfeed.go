package mapengine

import "fmt"

type EntryKind string

const (
	KindThreat EntryKind = "THREAT"
	KindInvest EntryKind = "INVEST"
)

// DefaultMaxLogs is the number of log lines kept on screen.
const DefaultMaxLogs = 12

// LogEntry is one incident line paired with an event's creation.
type LogEntry struct {
	Kind   EntryKind
	Site   string
	Status string
	Unit   string
}

func (l LogEntry) String() string {
	if l.IsZero() {
		return ""
	}
	return fmt.Sprintf("[%s] %s | %s | %s", l.Kind, l.Site, l.Status, l.Unit)
}

func (l LogEntry) IsZero() bool { return l == LogEntry{} }

// LogFeed is a fixed-capacity ring of log entries that evicts the oldest
// entry on overflow. Like EventStore it relies on Simulation for locking.
type LogFeed struct {
	buf   []LogEntry
	start int
	n     int
}

func NewLogFeed(capacity int) *LogFeed {
	if capacity < 1 {
		capacity = DefaultMaxLogs
	}
	return &LogFeed{buf: make([]LogEntry, capacity)}
}

func (f *LogFeed) Push(e LogEntry) {
	if f.n < len(f.buf) {
		f.buf[(f.start+f.n)%len(f.buf)] = e
		f.n++
		return
	}
	f.buf[f.start] = e
	f.start = (f.start + 1) % len(f.buf)
}

// Entries returns the feed oldest first.
func (f *LogFeed) Entries() []LogEntry {
	out := make([]LogEntry, f.n)
	for i := range out {
		out[i] = f.buf[(f.start+i)%len(f.buf)]
	}
	return out
}

// Recent returns the feed most recent first.
func (f *LogFeed) Recent() []LogEntry {
	out := make([]LogEntry, f.n)
	for i := range out {
		out[i] = f.buf[(f.start+f.n-1-i)%len(f.buf)]
	}
	return out
}

func (f *LogFeed) Len() int { return f.n }
func (f *LogFeed) Cap() int { return len(f.buf) }

// Rosters holds the fixed name pools log entries are drawn from.
type Rosters struct {
	Sites    []string
	Statuses []string
	Units    []string
}

func DefaultRosters() Rosters {
	return Rosters{
		Sites: []string{
			"Site-19", "Site-17", "Site-06-3", "Area-14", "Site-64", "Site-11",
		},
		Statuses: []string{
			"Suspected", "Confirmed", "Containment", "Recontainment", "Termination",
		},
		Units: []string{
			"MTF ALPHA-1 'Red Right Hand'",
			"MTF BETA-7 'Maz Hatters'",
			"MTF GAMMA-5 'Red Herrings'",
			"MTF ETA-10 'See No Evil'",
			"MTF NU-7 'Hammer Down'",
			"MTF TAU-5 'Samsara'",
			"MTF RHO-9 'Tech Support'",
			"MTF EPSILON-11 'Nine-Tailed Fox'",
		},
	}
}

// EntryFactory builds log entries. Sites, statuses and kinds are random;
// units rotate round-robin through the roster.
type EntryFactory struct {
	rosters Rosters
	unitIdx int
}

// NewEntryFactory panics on an empty roster; config.Validate rejects those
// before they get here.
func NewEntryFactory(r Rosters) *EntryFactory {
	if len(r.Sites) == 0 || len(r.Statuses) == 0 || len(r.Units) == 0 {
		panic("mapengine: empty roster")
	}
	return &EntryFactory{rosters: r}
}

// NextUnit returns the next responder unit, wrapping at the end of the roster.
func (f *EntryFactory) NextUnit() string {
	u := f.rosters.Units[f.unitIdx]
	f.unitIdx = (f.unitIdx + 1) % len(f.rosters.Units)
	return u
}

func (f *EntryFactory) Next(rng Rand) LogEntry {
	unit := f.NextUnit()
	site := f.rosters.Sites[rng.Intn(len(f.rosters.Sites))]
	status := f.rosters.Statuses[rng.Intn(len(f.rosters.Statuses))]
	kind := KindInvest
	if rng.Intn(2) == 0 {
		kind = KindThreat
	}
	return LogEntry{Kind: kind, Site: site, Status: status, Unit: unit}
}
