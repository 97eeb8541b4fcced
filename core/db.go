package core

import (
	"context"
	"database/sql"
	"strings"
)

type (
	DBExecutor interface {
		Exec(query string, args ...interface{}) (sql.Result, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		Query(query string, args ...interface{}) (*sql.Rows, error)
		QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
		QueryRow(query string, args ...interface{}) *sql.Row
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	DB interface {
		DBExecutor

		Begin() (*sql.Tx, error)
		BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error)
	}

	DBTransactor interface {
		DBExecutor

		Commit() error
		Rollback() error
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// OrderSpec is an entity's sort whitelist. Requested fields outside Allowed
// (and invalid order values) silently fall back to the entity's default.
type OrderSpec struct {
	Allowed      []string
	DefaultField string
	DefaultAsc   bool
}

// Resolve maps the raw `sort` and `order` query values to a DBOrdering.
func (spec OrderSpec) Resolve(sort, order string) DBOrdering {
	ord := DBOrdering{Field: spec.DefaultField, Ascending: spec.DefaultAsc}

	sort = CleanString(sort, true /* lower */)
	for _, fld := range spec.Allowed {
		if sort == fld {
			ord.Field = sort
			break
		}
	}

	switch strings.ToLower(strings.TrimSpace(order)) {
	case "asc":
		ord.Ascending = true
	case "desc":
		ord.Ascending = false
	}
	return ord
}
