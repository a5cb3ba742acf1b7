package perf

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default capacity of the ring buffer.
const DefaultRingSize = 10000

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Entry is a single timing record stored in the ring buffer.
type Entry struct {
	Kind       EntryKind
	Path       string // HTTP method+path, or store operation name
	StatusCode int    // HTTP status (0 for queries)
	DurationMs float64
	Timestamp  time.Time
}

// Collector is a fixed-size ring buffer for timing entries.
// Writes are non-blocking; when full, oldest entries are overwritten.
// Aggregation happens only on read (Snapshot).
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	size    int
	pos     int
	count   int64 // total entries ever written (atomic)
}

// NewCollector creates a collector with the given ring buffer capacity.
// PRE: size > 0 (non-positive falls back to DefaultRingSize)
// POST: Returns a ready-to-use collector with pre-allocated storage
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Record appends an entry to the ring buffer.
// Lock hold time is a single index increment plus a struct copy.
func (c *Collector) Record(e Entry) {
	c.mu.Lock()
	c.entries[c.pos] = e
	c.pos = (c.pos + 1) % c.size
	c.mu.Unlock()
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns the total number of entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	return atomic.LoadInt64(&c.count)
}

// Snapshot holds aggregated performance data computed on read.
type Snapshot struct {
	TotalRecorded int64
	RequestP50Ms  float64
	RequestP95Ms  float64
	SlowestPaths  []PathStat
	SlowestOps    []PathStat
}

// PathStat aggregates timing for a single path or store operation.
type PathStat struct {
	Path  string
	AvgMs float64
	MaxMs float64
	Count int
}

// Snapshot computes aggregated stats from the ring buffer.
// Sorting makes this the expensive path; call it only from the perf endpoint.
// PRE: topN > 0
// POST: Returns percentiles over requests and top-N slow paths/operations
func (c *Collector) Snapshot(since time.Time, topN int) Snapshot {
	c.mu.Lock()
	buf := make([]Entry, c.size)
	copy(buf, c.entries)
	c.mu.Unlock()

	var requestDurations []float64
	requestStats := make(map[string]*pathAgg)
	opStats := make(map[string]*pathAgg)

	for _, e := range buf {
		if e.Timestamp.IsZero() || e.Timestamp.Before(since) {
			continue
		}
		stats := opStats
		if e.Kind == KindRequest {
			stats = requestStats
			requestDurations = append(requestDurations, e.DurationMs)
		}
		s, ok := stats[e.Path]
		if !ok {
			s = &pathAgg{}
			stats[e.Path] = s
		}
		s.count++
		s.totalMs += e.DurationMs
		if e.DurationMs > s.maxMs {
			s.maxMs = e.DurationMs
		}
	}

	snap := Snapshot{
		TotalRecorded: c.TotalRecorded(),
		SlowestPaths:  topByAvg(requestStats, topN),
		SlowestOps:    topByAvg(opStats, topN),
	}

	if len(requestDurations) > 0 {
		sort.Float64s(requestDurations)
		snap.RequestP50Ms = percentile(requestDurations, 50)
		snap.RequestP95Ms = percentile(requestDurations, 95)
	}

	return snap
}

type pathAgg struct {
	count   int
	totalMs float64
	maxMs   float64
}

// percentile returns the p-th percentile from a sorted slice,
// interpolating between neighbouring samples.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p / 100) * float64(len(sorted)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// topByAvg returns the top N paths sorted by average duration (descending).
func topByAvg(stats map[string]*pathAgg, n int) []PathStat {
	list := make([]PathStat, 0, len(stats))
	for path, s := range stats {
		list = append(list, PathStat{
			Path:  path,
			AvgMs: s.totalMs / float64(s.count),
			MaxMs: s.maxMs,
			Count: s.count,
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].AvgMs > list[j].AvgMs
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
