package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/sadopc/tickr/internal/store"
	"github.com/sadopc/tickr/internal/timer"
)

func sampleTimers() []timer.Timer {
	started := int64(1_700_000_000_000)
	return []timer.Timer{
		{
			ID:          "c1",
			Kind:        timer.Countdown,
			Label:       "Tea",
			Color:       "#FFD700",
			DurationMs:  180_000,
			IsRunning:   true,
			StartedAtMs: &started,
			ElapsedMs:   12_000,
		},
		{
			ID:        "s1",
			Kind:      timer.Stopwatch,
			Label:     "Run",
			Color:     "#4682B4",
			ElapsedMs: 65_500,
		},
		{
			ID:         "i1",
			Kind:       timer.Interval,
			Label:      "Focus",
			Color:      "#32CD32",
			DurationMs: 1_500_000,
			Cycle: &timer.Cycle{
				Phase:             timer.ShortBreak,
				IntervalCount:     2,
				IntervalsPerCycle: 2,
				WorkMs:            1_500_000,
				ShortBreakMs:      300_000,
				LongBreakMs:       900_000,
				AutoContinue:      true,
			},
		},
	}
}

// ============================================================
// JSON interchange
// ============================================================

func TestEncodeDecodeTimers(t *testing.T) {
	in := sampleTimers()

	data, err := EncodeTimers(in)
	if err != nil {
		t.Fatalf("EncodeTimers: %v", err)
	}
	out, err := DecodeTimers(data)
	if err != nil {
		t.Fatalf("DecodeTimers: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestEncodeTimersKeys(t *testing.T) {
	data, err := EncodeTimers(sampleTimers())
	if err != nil {
		t.Fatal(err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(raw) != 3 {
		t.Fatalf("records = %d, want 3", len(raw))
	}

	for _, key := range []string{
		"id", "kind", "label", "color", "durationMs", "isRunning",
		"startedAtEpochMs", "elapsedMs", "phase", "intervalCount",
		"intervalsPerCycle", "workMs", "shortBreakMs", "longBreakMs", "autoContinue",
	} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}

	if raw[0]["kind"] != "countdown" {
		t.Fatalf("kind = %v, want countdown", raw[0]["kind"])
	}
	// Paused timers carry an explicit null anchor.
	if v, ok := raw[1]["startedAtEpochMs"]; !ok || v != nil {
		t.Fatalf("paused startedAtEpochMs = %v (present %v), want null", v, ok)
	}
	if raw[1]["phase"] != nil {
		t.Fatalf("stopwatch phase = %v, want null", raw[1]["phase"])
	}
	if raw[2]["phase"] != "ShortBreak" {
		t.Fatalf("interval phase = %v, want ShortBreak", raw[2]["phase"])
	}
}

func TestDecodeTimersOrder(t *testing.T) {
	data := []byte(`[
		{"id":"b","kind":"stopwatch","startedAtEpochMs":null},
		{"id":"a","kind":"stopwatch","startedAtEpochMs":null}
	]`)
	out, err := DecodeTimers(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != "b" || out[1].ID != "a" {
		t.Fatalf("order not preserved: %+v", out)
	}
}

func TestDecodeTimersSkipsInvalid(t *testing.T) {
	data := []byte(`[
		{"id":"ok","kind":"countdown","durationMs":1000},
		{"id":"bad-kind","kind":"hourglass"},
		{"id":"bad-phase","kind":"interval","phase":"Nap","intervalCount":1,"intervalsPerCycle":2,"workMs":1,"shortBreakMs":1,"longBreakMs":1},
		{"id":"no-anchor","kind":"countdown","durationMs":1000,"isRunning":true}
	]`)
	out, err := DecodeTimers(data)
	if err == nil {
		t.Fatal("expected error for invalid records")
	}
	if len(out) != 1 || out[0].ID != "ok" {
		t.Fatalf("expected only the valid record, got %+v", out)
	}
	if !errors.Is(err, timer.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind in %v", err)
	}
	if !errors.Is(err, timer.ErrUnknownPhase) {
		t.Fatalf("expected ErrUnknownPhase in %v", err)
	}
	if !errors.Is(err, timer.ErrInvalidTimer) {
		t.Fatalf("expected ErrInvalidTimer in %v", err)
	}
}

func TestDecodeTimersMalformed(t *testing.T) {
	for _, in := range []string{``, `{`, `{"id":"x"}`, `[{"id":1}]`} {
		if _, err := DecodeTimers([]byte(in)); err == nil {
			t.Errorf("DecodeTimers(%q): expected error", in)
		}
	}
}

func TestFromRecordCopiesAnchor(t *testing.T) {
	started := int64(42)
	r := Record{ID: "x", Kind: "stopwatch", IsRunning: true, StartedAtEpochMs: &started}
	got, err := FromRecord(r)
	if err != nil {
		t.Fatal(err)
	}
	started = 7
	if *got.StartedAtMs != 42 {
		t.Fatalf("anchor aliased record field: %d", *got.StartedAtMs)
	}
}

func TestToJSONFromJSON(t *testing.T) {
	in := sampleTimers()
	path := filepath.Join(t.TempDir(), "timers.json")

	if err := ToJSON(in, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if s.Count != 3 {
		t.Fatalf("count = %d, want 3", s.Count)
	}
	if _, err := time.Parse(time.RFC3339, s.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", s.ExportedAt)
	}

	out, err := FromJSON(path)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", out, in)
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestFromJSONBareArray(t *testing.T) {
	data, err := EncodeTimers(sampleTimers())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "array.json")
	if err := os.WriteFile(path, append([]byte("\n  "), data...), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := FromJSON(path)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if !reflect.DeepEqual(sampleTimers(), out) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", out, sampleTimers())
	}
}

func TestFromJSONSkipsInvalidRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.json")
	data := `{"count":2,"timers":[{"id":"ok","kind":"stopwatch"},{"id":"bad","kind":"sundial"}]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := FromJSON(path)
	if !errors.Is(err, timer.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if len(out) != 1 || out[0].ID != "ok" {
		t.Fatalf("expected the valid record, got %+v", out)
	}
}

func TestFromJSONMalformed(t *testing.T) {
	dir := t.TempDir()
	for i, in := range []string{`{`, `{"count":1}`, `"timers"`} {
		path := filepath.Join(dir, fmt.Sprintf("bad%d.json", i))
		if err := os.WriteFile(path, []byte(in), 0o644); err != nil {
			t.Fatal(err)
		}
		out, err := FromJSON(path)
		if err == nil || out != nil {
			t.Errorf("FromJSON(%q) = %v, %v; want nil and an error", in, out, err)
		}
	}
}

func TestFromJSONMissingFile(t *testing.T) {
	if _, err := FromJSON(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// ============================================================
// CSV
// ============================================================

func sampleCompletions() []store.Completion {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return []store.Completion{
		{ID: 2, TimerID: "i1", Label: "Focus", Kind: "interval", Phase: "Work", DurationMs: 1_500_000, CompletedAt: at},
		{ID: 1, TimerID: "c1", Label: "Tea", Kind: "countdown", DurationMs: 180_000, CompletedAt: at.Add(-time.Hour)},
	}
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := ToCSV(sampleCompletions(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 rows (1 header + 2 data), got %d", len(records))
	}

	expectedHeader := []string{"ID", "Timer", "Label", "Kind", "Phase", "Completed", "Duration (ms)", "Duration"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "2" || row[1] != "i1" || row[2] != "Focus" {
		t.Fatalf("unexpected row: %v", row)
	}
	if row[4] != "Work" {
		t.Fatalf("Phase = %q, want Work", row[4])
	}
	if row[6] != "1500000" {
		t.Fatalf("Duration (ms) = %q, want 1500000", row[6])
	}
	if row[7] != "00:25:00" {
		t.Fatalf("Duration = %q, want 00:25:00", row[7])
	}
	if _, err := time.Parse(time.RFC3339, row[5]); err != nil {
		t.Fatalf("Completed is not valid RFC3339: %q", row[5])
	}

	if records[2][4] != "" {
		t.Fatalf("countdown phase should be empty, got %q", records[2][4])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	c := []store.Completion{{ID: 1, TimerID: "x", Label: `Tea "green", hot`, Kind: "countdown", DurationMs: 60_000, CompletedAt: time.Now()}}
	path := filepath.Join(t.TempDir(), "special.csv")
	if err := ToCSV(c, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][2] != `Tea "green", hot` {
		t.Fatalf("label mangled: %q", records[1][2])
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "00:00:00"},
		{999, "00:00:00"},
		{1000, "00:00:01"},
		{60_000, "00:01:00"},
		{3_600_000, "01:00:00"},
		{3_661_000, "01:01:01"},
		{90_061_000, "25:01:01"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.ms); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
