package dialect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// StatementStats holds statement execution statistics.
type StatementStats struct {
	// TotalStatements is the total number of statements executed.
	TotalStatements atomic.Int64
	// TotalDuration is the total time spent executing statements.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowStatements is the count of statements exceeding the slow threshold.
	SlowStatements atomic.Int64
	// Errors is the count of failed statements.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *StatementStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalStatements: s.TotalStatements.Load(),
		TotalDuration:   time.Duration(s.TotalDuration.Load()),
		SlowStatements:  s.SlowStatements.Load(),
		Errors:          s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *StatementStats) Reset() {
	s.TotalStatements.Store(0)
	s.TotalDuration.Store(0)
	s.SlowStatements.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of statement statistics.
type StatsSnapshot struct {
	TotalStatements int64
	TotalDuration   time.Duration
	SlowStatements  int64
	Errors          int64
}

// AvgDuration returns the average statement duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	if s.TotalStatements == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.TotalStatements)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"statements=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalStatements, s.TotalDuration, s.AvgDuration(), s.SlowStatements, s.Errors,
	)
}

// SlowStatementHook is called when a slow statement is detected.
type SlowStatementHook func(ctx context.Context, stmt string, duration time.Duration)

// StatsExecutor wraps an Executor with statement statistics collection.
type StatsExecutor struct {
	Executor
	stats         *StatementStats
	slowThreshold time.Duration
	slowHook      SlowStatementHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsExecutor.
type StatsOption func(*StatsExecutor)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsExecutor) {
		s.slowThreshold = d
	}
}

// WithSlowStatementHook sets a callback for slow statements.
func WithSlowStatementHook(hook SlowStatementHook) StatsOption {
	return func(s *StatsExecutor) {
		s.slowHook = hook
	}
}

// WithSlowStatementLog logs slow statements as warnings to logger, or to
// slog.Default() when logger is nil.
func WithSlowStatementLog(logger *slog.Logger) StatsOption {
	return WithSlowStatementHook(func(ctx context.Context, stmt string, duration time.Duration) {
		l := logger
		if l == nil {
			l = slog.Default()
		}
		l.WarnContext(ctx, "slow statement detected", "duration", duration, "statement", stmt)
	})
}

// NewStatsExecutor wraps an Executor with statistics collection.
//
//	ex := dialect.NewStatsExecutor(base,
//	    dialect.WithSlowThreshold(200*time.Millisecond),
//	    dialect.WithSlowStatementLog(nil),
//	)
//	client := model.NewClient(ex, reg)
//
//	// Later, check statistics:
//	fmt.Println(ex.StatementStats().Stats())
func NewStatsExecutor(ex Executor, opts ...StatsOption) *StatsExecutor {
	s := &StatsExecutor{
		Executor:      ex,
		stats:         &StatementStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StatementStats returns the underlying statistics.
func (e *StatsExecutor) StatementStats() *StatementStats {
	return e.stats
}

// SlowThreshold returns the current slow statement threshold.
func (e *StatsExecutor) SlowThreshold() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.slowThreshold
}

// SetSlowThreshold updates the slow statement threshold.
func (e *StatsExecutor) SetSlowThreshold(threshold time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.slowThreshold = threshold
}

// Execute runs the statement and records statistics.
func (e *StatsExecutor) Execute(ctx context.Context, stmt string) (Rows, error) {
	start := time.Now()
	rows, err := e.Executor.Execute(ctx, stmt)
	e.record(ctx, stmt, start, err)
	return rows, err
}

func (e *StatsExecutor) record(ctx context.Context, stmt string, start time.Time, err error) {
	duration := time.Since(start)
	e.stats.TotalStatements.Add(1)
	e.stats.TotalDuration.Add(int64(duration))
	if err != nil {
		e.stats.Errors.Add(1)
	}

	e.mu.RLock()
	threshold := e.slowThreshold
	hook := e.slowHook
	e.mu.RUnlock()

	if duration > threshold {
		e.stats.SlowStatements.Add(1)
		if hook != nil {
			hook(ctx, stmt, duration)
		}
	}
}

// DebugExecutor wraps an Executor with debug logging.
type DebugExecutor struct {
	Executor
	logger *slog.Logger
}

// DebugOption configures the DebugExecutor.
type DebugOption func(*DebugExecutor)

// DebugWithLogger sets the logger. Default is slog.Default().
func DebugWithLogger(l *slog.Logger) DebugOption {
	return func(d *DebugExecutor) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDebugExecutor wraps an Executor with debug logging of every statement.
func NewDebugExecutor(ex Executor, opts ...DebugOption) *DebugExecutor {
	d := &DebugExecutor{Executor: ex, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute logs the statement and runs it.
func (d *DebugExecutor) Execute(ctx context.Context, stmt string) (Rows, error) {
	d.logger.DebugContext(ctx, "execute", "statement", stmt)
	rows, err := d.Executor.Execute(ctx, stmt)
	if err != nil {
		d.logger.DebugContext(ctx, "execute failed", "statement", stmt, "error", err)
	}
	return rows, err
}

// Ensure interfaces are implemented.
var (
	_ Executor = (*StatsExecutor)(nil)
	_ Executor = (*DebugExecutor)(nil)
	_ Executor = ExecutorFunc(nil)
)
