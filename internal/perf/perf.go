// Package perf records how long grid builds and renders take and logs the
// slow ones.
package perf

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Timer measures a single operation. Stop logs the elapsed time at debug
// level and warns when it exceeds the threshold.
type Timer struct {
	name      string
	logger    *slog.Logger
	start     time.Time
	threshold time.Duration
	recorder  *Recorder
}

type Stats struct {
	Name          string
	Count         int64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	SlowOps       int64
}

// Recorder aggregates durations for one named operation. It is safe for
// concurrent use.
type Recorder struct {
	name      string
	logger    *slog.Logger
	count     int64
	totalDur  int64
	minDur    int64
	maxDur    int64
	slowOps   int64
	threshold time.Duration
}

var (
	recordersMu sync.Mutex
	recorders   = map[string]*Recorder{}
)

func NewTimer(name string, logger *slog.Logger, threshold time.Duration) *Timer {
	return &Timer{
		name:      name,
		logger:    logger,
		start:     time.Now(),
		threshold: threshold,
	}
}

// Track starts a timer whose result is also added to the shared recorder
// for name.
func Track(name string, logger *slog.Logger, threshold time.Duration) *Timer {
	t := NewTimer(name, logger, threshold)
	t.recorder = recorderFor(name, logger, threshold)
	return t
}

// Stop returns the elapsed time.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	if t.recorder != nil {
		t.recorder.Record(elapsed)
	}
	if t.logger != nil {
		t.logger.Debug(t.name, "duration_us", elapsed.Microseconds())
		if elapsed > t.threshold {
			t.logger.Warn(t.name+"_slow", "duration_us", elapsed.Microseconds(), "threshold_us", t.threshold.Microseconds())
		}
	}
	return elapsed
}

func NewRecorder(name string, logger *slog.Logger, threshold time.Duration) *Recorder {
	return &Recorder{
		name:      name,
		logger:    logger,
		threshold: threshold,
		minDur:    1<<63 - 1,
	}
}

func recorderFor(name string, logger *slog.Logger, threshold time.Duration) *Recorder {
	recordersMu.Lock()
	defer recordersMu.Unlock()
	r, ok := recorders[name]
	if !ok {
		r = NewRecorder(name, logger, threshold)
		recorders[name] = r
	}
	return r
}

func (r *Recorder) Record(elapsed time.Duration) {
	elapsedNs := elapsed.Nanoseconds()
	atomic.AddInt64(&r.count, 1)
	atomic.AddInt64(&r.totalDur, elapsedNs)

	for {
		minDur := atomic.LoadInt64(&r.minDur)
		if elapsedNs >= minDur {
			break
		}
		if atomic.CompareAndSwapInt64(&r.minDur, minDur, elapsedNs) {
			break
		}
	}

	for {
		maxDur := atomic.LoadInt64(&r.maxDur)
		if elapsedNs <= maxDur {
			break
		}
		if atomic.CompareAndSwapInt64(&r.maxDur, maxDur, elapsedNs) {
			break
		}
	}

	if elapsed >= r.threshold {
		atomic.AddInt64(&r.slowOps, 1)
	}
}

func (r *Recorder) Stats() Stats {
	minDur := atomic.LoadInt64(&r.minDur)
	if minDur == 1<<63-1 {
		minDur = 0
	}

	return Stats{
		Name:          r.name,
		Count:         atomic.LoadInt64(&r.count),
		TotalDuration: time.Duration(atomic.LoadInt64(&r.totalDur)),
		MinDuration:   time.Duration(minDur),
		MaxDuration:   time.Duration(atomic.LoadInt64(&r.maxDur)),
		SlowOps:       atomic.LoadInt64(&r.slowOps),
	}
}

func (s *Stats) AvgDuration() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Count)
}

func (r *Recorder) LogStats(level slog.Level) {
	stats := r.Stats()
	if stats.Count == 0 || r.logger == nil {
		return
	}
	r.logger.Log(context.Background(), level, r.name+"_stats",
		"count", stats.Count,
		"total_us", stats.TotalDuration.Microseconds(),
		"avg_us", stats.AvgDuration().Microseconds(),
		"min_us", stats.MinDuration.Microseconds(),
		"max_us", stats.MaxDuration.Microseconds(),
		"slow_ops", stats.SlowOps,
	)
}

// Snapshot returns the stats of every shared recorder, sorted by name.
func Snapshot() []Stats {
	recordersMu.Lock()
	defer recordersMu.Unlock()

	out := make([]Stats, 0, len(recorders))
	for _, r := range recorders {
		out = append(out, r.Stats())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LogAll logs the stats of every shared recorder.
func LogAll(level slog.Level) {
	recordersMu.Lock()
	all := make([]*Recorder, 0, len(recorders))
	for _, r := range recorders {
		all = append(all, r)
	}
	recordersMu.Unlock()

	for _, r := range all {
		r.LogStats(level)
	}
}
