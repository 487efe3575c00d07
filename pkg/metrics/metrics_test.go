package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.EventCreated("manual")
	c.EventCreated("manual")
	c.EventCreated("timer")
	c.EventsCompleted(2)
	c.Observe(1, 3)

	if got := testutil.ToFloat64(c.created.WithLabelValues("manual")); got != 2 {
		t.Errorf("created{manual} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.created.WithLabelValues("timer")); got != 1 {
		t.Errorf("created{timer} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.completed); got != 2 {
		t.Errorf("completed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.active); got != 1 {
		t.Errorf("active = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.logs); got != 3 {
		t.Errorf("logs = %v, want 3", got)
	}
}

func TestHandler(t *testing.T) {
	c := NewCollector()
	c.EventCreated("feed")

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	body := string(b)
	for _, want := range []string{
		`threatmap_events_created_total{source="feed"} 1`,
		"threatmap_events_completed_total 0",
		"threatmap_active_events 0",
		"threatmap_log_entries 0",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
