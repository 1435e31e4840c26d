package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestTimingMetricRecord(t *testing.T) {
	SetEnabled(true)
	m := newTimingMetric("test")

	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	s := m.Stats()
	if s.Count != 2 {
		t.Fatalf("count = %d, want 2", s.Count)
	}
	if s.MinMs != 2 || s.MaxMs != 4 || s.AvgMs != 3 {
		t.Errorf("unexpected stats %+v", s)
	}

	m.Reset()
	if m.Count() != 0 {
		t.Errorf("count after reset = %d", m.Count())
	}
}

func TestTimingMetricDisabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("off")
	Timer(m)()
	m.Record(time.Millisecond)
	if m.Count() != 0 {
		t.Errorf("disabled metric recorded %d samples", m.Count())
	}
}

func TestWriteReport(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	Flatten.Record(time.Millisecond)

	var buf bytes.Buffer
	if err := WriteReport(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "flatten") {
		t.Errorf("report missing flatten line: %q", out)
	}
	if strings.Contains(out, "locate") {
		t.Errorf("report should skip metrics without samples: %q", out)
	}
}
