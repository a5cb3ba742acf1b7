package perf

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func entry(path string, ms float64, kind EntryKind) Entry {
	return Entry{
		Kind:       kind,
		Path:       path,
		DurationMs: ms,
		Timestamp:  time.Now(),
	}
}

// TestCollector_RecordAndTotal verifies basic recording.
func TestCollector_RecordAndTotal(t *testing.T) {
	c := NewCollector(10)
	c.Record(entry("GET /api/get-pending", 1.5, KindRequest))
	c.Record(entry("QueryContext", 0.3, KindQuery))

	if c.TotalRecorded() != 2 {
		t.Errorf("TotalRecorded = %d, want 2", c.TotalRecorded())
	}
}

// TestCollector_RingOverwrite verifies old entries are overwritten when full.
func TestCollector_RingOverwrite(t *testing.T) {
	c := NewCollector(3)
	for i := 0; i < 5; i++ {
		c.Record(entry(fmt.Sprintf("p%d", i), float64(i), KindRequest))
	}

	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}
	snap := c.Snapshot(time.Time{}, 10)
	// Only the last 3 entries survive in the ring
	total := 0
	for _, s := range snap.SlowestPaths {
		total += s.Count
	}
	if total != 3 {
		t.Errorf("entries in snapshot = %d, want 3", total)
	}
}

// TestCollector_SnapshotPercentiles verifies percentile computation.
func TestCollector_SnapshotPercentiles(t *testing.T) {
	c := NewCollector(100)
	for i := 1; i <= 10; i++ {
		c.Record(entry("GET /health", float64(i*10), KindRequest))
	}

	snap := c.Snapshot(time.Time{}, 5)
	if snap.RequestP50Ms < 50 || snap.RequestP50Ms > 60 {
		t.Errorf("P50 = %v, want ~55", snap.RequestP50Ms)
	}
	if snap.RequestP95Ms < 90 {
		t.Errorf("P95 = %v, want >= 90", snap.RequestP95Ms)
	}
}

// TestCollector_SnapshotSeparatesKinds verifies queries don't pollute request stats.
func TestCollector_SnapshotSeparatesKinds(t *testing.T) {
	c := NewCollector(100)
	c.Record(entry("POST /api/upload-document", 120, KindRequest))
	c.Record(entry("ExecContext", 3, KindQuery))

	snap := c.Snapshot(time.Time{}, 5)
	if len(snap.SlowestPaths) != 1 {
		t.Fatalf("SlowestPaths = %d, want 1", len(snap.SlowestPaths))
	}
	if len(snap.SlowestOps) != 1 {
		t.Fatalf("SlowestOps = %d, want 1", len(snap.SlowestOps))
	}
	if snap.SlowestPaths[0].Path != "POST /api/upload-document" {
		t.Errorf("path = %q", snap.SlowestPaths[0].Path)
	}
}

// TestCollector_SnapshotSince verifies the time filter.
func TestCollector_SnapshotSince(t *testing.T) {
	c := NewCollector(100)
	c.Record(Entry{Kind: KindRequest, Path: "old", DurationMs: 1, Timestamp: time.Now().Add(-time.Hour)})
	c.Record(entry("new", 2, KindRequest))

	snap := c.Snapshot(time.Now().Add(-time.Minute), 5)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "new" {
		t.Errorf("expected only the recent entry, got %+v", snap.SlowestPaths)
	}
}

// TestCollector_TopN verifies top-N truncation ordered by average.
func TestCollector_TopN(t *testing.T) {
	c := NewCollector(100)
	c.Record(entry("slow", 100, KindRequest))
	c.Record(entry("medium", 50, KindRequest))
	c.Record(entry("fast", 1, KindRequest))

	snap := c.Snapshot(time.Time{}, 2)
	if len(snap.SlowestPaths) != 2 {
		t.Fatalf("SlowestPaths = %d, want 2", len(snap.SlowestPaths))
	}
	if snap.SlowestPaths[0].Path != "slow" || snap.SlowestPaths[1].Path != "medium" {
		t.Errorf("wrong order: %+v", snap.SlowestPaths)
	}
}

// TestCollector_ConcurrentRecord verifies no races under concurrent writes.
func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector(50)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Record(entry("GET /health", 0.1, KindRequest))
			}
		}()
	}
	wg.Wait()

	if c.TotalRecorded() != 800 {
		t.Errorf("TotalRecorded = %d, want 800", c.TotalRecorded())
	}
}
