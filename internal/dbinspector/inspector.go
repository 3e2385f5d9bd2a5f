// Package dbinspector counts and records the statements issued through a sqlx
// querier. It is meant for tests that pin down how many queries an operation runs.
//
//	insp := dbinspector.New(db)
//	repository.GetRouteDetails(ctx, insp, 1)
//	require.Equal(t, 2, insp.Count())
//	insp.LogQueries(true)
package dbinspector

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Inspector wraps a sqlx.ExtContext and records every query passed through it
type Inspector struct {
	q sqlx.ExtContext

	mu      sync.Mutex
	queries []string
}

// New starts recording statements issued through q
func New(q sqlx.ExtContext) *Inspector {
	return &Inspector{q: q}
}

// Count returns the number of statements issued so far
func (i *Inspector) Count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.queries)
}

// Queries returns a copy of the recorded statements in issue order
func (i *Inspector) Queries() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.queries...)
}

// Reset forgets everything recorded so far
func (i *Inspector) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.queries = nil
}

// LogQueries writes the recorded statements to the standard logger.
// With pretty set each statement gets a numbered header and normalized whitespace.
func (i *Inspector) LogQueries(pretty bool) {
	for n, q := range i.Queries() {
		if !pretty {
			log.Println(q)
			continue
		}
		log.Printf("QUERY #%d\n------------------------------------\n%s", n+1, strings.Join(strings.Fields(q), " "))
	}
}

func (i *Inspector) record(query string) {
	i.mu.Lock()
	i.queries = append(i.queries, query)
	i.mu.Unlock()
}

// DriverName returns the wrapped driver's name. With the methods below it makes
// Inspector a sqlx.ExtContext; only the Query and Exec methods are recorded.
func (i *Inspector) DriverName() string {
	return i.q.DriverName()
}

// Rebind converts ? placeholders for the wrapped driver
func (i *Inspector) Rebind(query string) string {
	return i.q.Rebind(query)
}

// BindNamed binds named parameters for the wrapped driver
func (i *Inspector) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return i.q.BindNamed(query, arg)
}

// QueryContext records query and runs it
func (i *Inspector) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	i.record(query)
	return i.q.QueryContext(ctx, query, args...)
}

// QueryxContext records query and runs it
func (i *Inspector) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	i.record(query)
	return i.q.QueryxContext(ctx, query, args...)
}

// QueryRowxContext records query and runs it
func (i *Inspector) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	i.record(query)
	return i.q.QueryRowxContext(ctx, query, args...)
}

// ExecContext records query and runs it
func (i *Inspector) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	i.record(query)
	return i.q.ExecContext(ctx, query, args...)
}
