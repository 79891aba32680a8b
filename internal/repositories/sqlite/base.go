package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"gst-invoice-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type txKey struct{}

// withTx returns a context carrying tx
func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// txFrom returns the transaction carried by ctx, if any
func txFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok && tx != nil
}

// BaseRepository provides common functionality for all SQLite repositories
type BaseRepository[T any] struct {
	db      *sql.DB
	table   string
	columns map[string]bool
	logger  *logrus.Logger
}

// NewBaseRepository creates a new base repository. filterable lists the
// columns accepted by buildWhereClause.
func NewBaseRepository[T any](db *sql.DB, table string, logger *logrus.Logger, filterable ...string) *BaseRepository[T] {
	if logger == nil {
		logger = logrus.New()
	}
	columns := make(map[string]bool, len(filterable))
	for _, c := range filterable {
		columns[c] = true
	}
	return &BaseRepository[T]{
		db:      db,
		table:   table,
		columns: columns,
		logger:  logger,
	}
}

// conn returns the transaction in ctx, or the pool
func (r *BaseRepository[T]) conn(ctx context.Context) querier {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return r.db
}

// Exists checks if an entity with the given ID exists
func (r *BaseRepository[T]) Exists(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? LIMIT 1", r.table)

	var exists int
	err := r.executeQueryRow(ctx, "exists", query, id).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, repositories.NewRepositoryError("exists", r.table, id, err)
	}

	return exists == 1, nil
}

// buildWhereClause builds a WHERE clause from filters. Keys are sorted so the
// generated SQL is stable; unknown columns are rejected.
func (r *BaseRepository[T]) buildWhereClause(filters map[string]interface{}) (string, []interface{}, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	fields := make([]string, 0, len(filters))
	for field := range filters {
		if !r.columns[field] {
			return "", nil, repositories.NewRepositoryError("filter", r.table, "",
				fmt.Errorf("%w: %s", repositories.ErrInvalidFilter, field))
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	conditions := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields))
	for _, field := range fields {
		conditions = append(conditions, fmt.Sprintf("%s = ?", field))
		args = append(args, filters[field])
	}

	return "WHERE " + strings.Join(conditions, " AND "), args, nil
}

// logQuery logs a query with its execution time
func (r *BaseRepository[T]) logQuery(ctx context.Context, operation string, query string, args []interface{}, duration time.Duration, err error) {
	_, inTx := txFrom(ctx)
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"query":     query,
		"args":      args,
		"duration":  duration,
		"in_tx":     inTx,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *BaseRepository[T]) executeQuery(ctx context.Context, operation, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.conn(ctx).QueryContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(ctx, operation, query, args, duration, err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.table, "", err)
	}

	return rows, nil
}

// executeQueryRow executes a single-row query and logs the result
func (r *BaseRepository[T]) executeQueryRow(ctx context.Context, operation, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.conn(ctx).QueryRowContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(ctx, operation, query, args, duration, nil)

	return row
}

// executeExec executes a non-query statement and logs the result
func (r *BaseRepository[T]) executeExec(ctx context.Context, operation, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.conn(ctx).ExecContext(ctx, query, args...)
	duration := time.Since(start)

	r.logQuery(ctx, operation, query, args, duration, err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, r.table, "", err)
	}

	return result, nil
}

// checkRowsAffected checks if the expected number of rows were affected
func (r *BaseRepository[T]) checkRowsAffected(result sql.Result, operation, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return repositories.NewRepositoryError(operation, r.table, id, err)
	}

	if rowsAffected == 0 {
		return repositories.NotFoundError(r.table, id)
	}

	return nil
}

// validateID validates that an ID is not empty
func (r *BaseRepository[T]) validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return repositories.NewRepositoryError("validate", r.table, id, repositories.ErrInvalidID)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// likePattern wraps a search term for a LIKE comparison
func likePattern(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "%", `\%`)
	term = strings.ReplaceAll(term, "_", `\_`)
	return "%" + strings.TrimSpace(term) + "%"
}

// inTx runs fn inside the transaction carried by ctx, or inside a new one
// committed when fn succeeds
func (r *BaseRepository[T]) inTx(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return repositories.TransactionError("begin", err)
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.WithError(rbErr).WithField("operation", operation).Error("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return repositories.TransactionError("commit", err)
	}
	return nil
}

// documentWhere builds the WHERE clause shared by invoice and purchase listings
func documentWhere(filter repositories.DocumentFilter, dateColumn, partyColumn string) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.InvoiceType != "" {
		conditions = append(conditions, "invoice_type = ?")
		args = append(args, string(filter.InvoiceType))
	}
	if filter.PartyID != "" {
		conditions = append(conditions, partyColumn+" = ?")
		args = append(args, filter.PartyID)
	}
	if filter.StartDate != nil {
		conditions = append(conditions, dateColumn+" >= ?")
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		conditions = append(conditions, dateColumn+" <= ?")
		args = append(args, filter.EndDate.UTC())
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// pageClause renders LIMIT/OFFSET for a filter; a zero limit means no limit
func pageClause(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}
