// Package dialect defines the boundary between carina and the process that
// actually talks to NebulaGraph.
//
// # Executor Interface
//
//	type Executor interface {
//	    Execute(ctx context.Context, stmt string) (Rows, error)
//	}
//
// Any client library can be plugged in through Executor or ExecutorFunc.
// dialect/sql provides one over database/sql.
//
// # Wrappers
//
// Executors compose. The package provides wrappers for the ambient
// concerns:
//
//   - StatsExecutor: statement counters and slow statement detection
//   - DebugExecutor: slog debug log of every statement
//   - MetricsExecutor: Prometheus counters and latency histograms
//   - TracingExecutor: one OpenTelemetry span per statement
//
//	var ex dialect.Executor = sql.OpenDB("nebula", db)
//	ex = dialect.NewStatsExecutor(ex, dialect.WithSlowStatementLog(logger))
//	ex = dialect.NewDebugExecutor(ex, dialect.DebugWithLogger(logger))
//
// # Errors
//
// IsExistedError, IsSchemaNotFoundError, IsSyntaxError and
// IsSemanticError classify server errors by code, falling back to the
// message text.
//
// # Sub-packages
//
//   - dialect/sql: Executor over database/sql
//   - dialect/dialecttest: scripted Executor for tests
package dialect
