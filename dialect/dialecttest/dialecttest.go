// Package dialecttest provides a scripted dialect.Executor for tests.
//
//	ex := dialecttest.New()
//	ex.On("FETCH PROP ON *", dialect.Row{"v": &dialect.Node{VID: "a", Tags: ...}})
//	ex.OnError("DELETE", errors.New("boom"))
//	...
//	assert.Equal(t, []string{`FETCH PROP ON * "a" YIELD vertex AS v`}, ex.Statements())
package dialecttest

import (
	"context"
	"regexp"
	"slices"
	"sync"

	"github.com/owl-K/nebula-carina/dialect"
)

type response struct {
	match *regexp.Regexp
	rows  []dialect.Row
	err   error
}

// Executor records every statement and answers with the first response
// whose pattern matches it. Unmatched statements return no rows.
type Executor struct {
	mu        sync.Mutex
	stmts     []string
	responses []response
	open      int
}

// New returns an empty Executor.
func New() *Executor {
	return &Executor{}
}

// On answers statements starting with prefix with rows.
func (e *Executor) On(prefix string, rows ...dialect.Row) *Executor {
	return e.OnMatch("^"+regexp.QuoteMeta(prefix), rows...)
}

// OnMatch answers statements matching the regular expression with rows.
func (e *Executor) OnMatch(pattern string, rows ...dialect.Row) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses = append(e.responses, response{match: regexp.MustCompile(pattern), rows: rows})
	return e
}

// OnError fails statements starting with prefix with err.
func (e *Executor) OnError(prefix string, err error) *Executor {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses = append(e.responses, response{match: regexp.MustCompile("^" + regexp.QuoteMeta(prefix)), err: err})
	return e
}

// Execute implements dialect.Executor.
func (e *Executor) Execute(ctx context.Context, stmt string) (dialect.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stmts = append(e.stmts, stmt)
	for _, r := range e.responses {
		if !r.match.MatchString(stmt) {
			continue
		}
		if r.err != nil {
			return nil, r.err
		}
		return e.track(dialect.NewRows(r.rows...)), nil
	}
	return e.track(dialect.NewRows()), nil
}

// Statements returns the executed statements in order.
func (e *Executor) Statements() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.stmts)
}

// Reset forgets the executed statements. Responses are kept.
func (e *Executor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stmts = nil
}

// OpenRows returns the number of returned Rows not closed yet.
func (e *Executor) OpenRows() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

func (e *Executor) track(rows dialect.Rows) dialect.Rows {
	e.open++
	return &trackedRows{Rows: rows, done: func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.open--
	}}
}

type trackedRows struct {
	dialect.Rows
	once sync.Once
	done func()
}

func (r *trackedRows) Close() error {
	r.once.Do(r.done)
	return r.Rows.Close()
}

var _ dialect.Executor = (*Executor)(nil)
