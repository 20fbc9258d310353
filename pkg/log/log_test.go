package log

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRetrievalBeforeInit(t *testing.T) {
	if _, err := GetLastNLogs(5); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("GetLastNLogs before Init: err = %v, want ErrNotInitialized", err)
	}
	if _, err := GetLogsSince(time.Now().Add(-time.Hour), 0); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("GetLogsSince before Init: err = %v, want ErrNotInitialized", err)
	}
}

func TestInitWriteQueryClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "logs.db")
	if err := Init(dbPath); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	if err := Init(dbPath); err == nil {
		t.Fatal("second Init succeeded, want error")
	}

	before := time.Now().Add(-time.Minute)
	Info().Str("component", "test").Msg("first event")
	Warn().Msg("second event")
	Printf("third event %d", 3)

	entries, err := GetLastNLogs(10)
	if err != nil {
		t.Fatalf("GetLastNLogs: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if !strings.Contains(entries[0].LogData, "first event") {
		t.Errorf("entries not chronological, first = %s", entries[0].LogData)
	}
	if !strings.Contains(entries[2].LogData, "third event 3") {
		t.Errorf("last entry = %s, want the Printf event", entries[2].LogData)
	}
	for i, e := range entries {
		if e.ID == 0 {
			t.Errorf("entry %d has zero ID", i)
		}
		if e.InsertedAt.IsZero() {
			t.Errorf("entry %d has unparsed timestamp", i)
		}
	}

	ranged, err := GetLogsBetween(before, time.Now().Add(time.Minute), 0)
	if err != nil {
		t.Fatalf("GetLogsBetween: %v", err)
	}
	if len(ranged) != 3 {
		t.Errorf("ranged query got %d entries, want 3", len(ranged))
	}

	sinceStart, err := GetLogsSinceStart()
	if err != nil {
		t.Fatalf("GetLogsSinceStart: %v", err)
	}
	if len(sinceStart) < 3 {
		t.Errorf("since-start query got %d entries, want >= 3", len(sinceStart))
	}

	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := GetLastNLogs(1); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("GetLastNLogs after Close: err = %v, want ErrNotInitialized", err)
	}
	if err := Close(); err != nil {
		t.Errorf("second Close: %v, want nil", err)
	}
}

func TestParseDBTimestamp(t *testing.T) {
	cases := []string{
		"2026-03-01 12:30:45",
		"2026-03-01T12:30:45Z",
		"2026-03-01T12:30:45.123456789Z",
	}
	for _, ts := range cases {
		if got := parseDBTimestamp(ts); got.IsZero() {
			t.Errorf("parseDBTimestamp(%q) returned zero time", ts)
		}
	}
	if got := parseDBTimestamp("not a time"); !got.IsZero() {
		t.Errorf("parseDBTimestamp accepted garbage: %v", got)
	}
}
