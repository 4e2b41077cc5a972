// Package repositorytest provides a scripted database/sql driver so
// repository code can be exercised without a live database. Statements
// consume scripted steps in order; every statement and its bound
// arguments are recorded for assertion.
package repositorytest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sync"
)

// Step scripts the outcome of one statement. Queries consume Columns and
// Rows; statements executed for effect consume Affected. Err fails the
// statement regardless of kind.
type Step struct {
	Columns  []string
	Rows     [][]driver.Value
	Affected int64
	Err      error
}

// Call records one executed statement and its bound arguments, in
// driver order.
type Call struct {
	SQL  string
	Args []driver.Value
}

// DB replays scripted steps in order. An unscripted statement fails with
// a descriptive error instead of blocking the test.
type DB struct {
	mu    sync.Mutex
	steps []Step
	calls []Call
}

// New creates a scripted DB that will serve the given steps in order.
func New(steps ...Step) *DB {
	return &DB{steps: steps}
}

// Open returns a *sql.DB backed by the script.
func (d *DB) Open() *sql.DB {
	return sql.OpenDB(&connector{db: d})
}

// Append adds steps to the remaining script.
func (d *DB) Append(steps ...Step) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.steps = append(d.steps, steps...)
}

// Calls returns a copy of every statement observed so far.
func (d *DB) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

func (d *DB) next(query string, args []driver.NamedValue) (Step, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	vals := make([]driver.Value, len(args))
	for i, a := range args {
		vals[i] = a.Value
	}
	d.calls = append(d.calls, Call{SQL: query, Args: vals})

	if len(d.steps) == 0 {
		return Step{}, fmt.Errorf("unscripted statement: %s", query)
	}
	step := d.steps[0]
	d.steps = d.steps[1:]
	return step, nil
}

type connector struct {
	db *DB
}

func (c *connector) Connect(context.Context) (driver.Conn, error) {
	return &conn{db: c.db}, nil
}

func (c *connector) Driver() driver.Driver {
	return drv{db: c.db}
}

type drv struct {
	db *DB
}

func (d drv) Open(string) (driver.Conn, error) {
	return &conn{db: d.db}, nil
}

type conn struct {
	db *DB
}

func (c *conn) Prepare(string) (driver.Stmt, error) {
	return nil, fmt.Errorf("prepared statements not supported")
}

func (c *conn) Close() error { return nil }

func (c *conn) Begin() (driver.Tx, error) {
	return tx{}, nil
}

func (c *conn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	step, err := c.db.next(query, args)
	if err != nil {
		return nil, err
	}
	if step.Err != nil {
		return nil, step.Err
	}
	return &rows{columns: step.Columns, data: step.Rows}, nil
}

func (c *conn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	step, err := c.db.next(query, args)
	if err != nil {
		return nil, err
	}
	if step.Err != nil {
		return nil, step.Err
	}
	return driver.RowsAffected(step.Affected), nil
}

type tx struct{}

func (tx) Commit() error   { return nil }
func (tx) Rollback() error { return nil }

type rows struct {
	columns []string
	data    [][]driver.Value
	pos     int
}

func (r *rows) Columns() []string { return r.columns }
func (r *rows) Close() error      { return nil }

func (r *rows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}
