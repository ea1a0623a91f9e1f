package scheduler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/i474232898/city-weather/internal/ratelimit"
)

func newBufferedLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestReportDrainsStats(t *testing.T) {
	logger, buf := newBufferedLogger()
	stats := &ratelimit.Stats{}
	stats.Record(ratelimit.Decision{Admitted: true})
	stats.Record(ratelimit.Decision{})

	s := New(stats, time.Minute, 10, logger)
	s.report()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["level"] != "WARN" {
		t.Fatalf("expected WARN level when requests were rejected, got %v", entry["level"])
	}
	if entry["admitted"] != float64(1) || entry["rejected"] != float64(1) {
		t.Fatalf("unexpected counts in %v", entry)
	}

	if admitted, rejected := stats.Drain(); admitted != 0 || rejected != 0 {
		t.Fatalf("expected counters drained, got %d/%d", admitted, rejected)
	}
}

func TestStartDisabledWithoutInterval(t *testing.T) {
	logger, _ := newBufferedLogger()
	s := New(&ratelimit.Stats{}, 0, 10, logger)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}

func TestStartSchedulesJob(t *testing.T) {
	logger, _ := newBufferedLogger()
	s := New(&ratelimit.Stats{}, time.Hour, 10, logger)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	if n := len(s.scheduler.Jobs()); n != 1 {
		t.Fatalf("expected 1 scheduled job, got %d", n)
	}
}
