package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kacperborowieckb/gen-records/shared/records"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// TableWriter stores record sets in a Postgres table, one TEXT column per
// field of the set's first record.
type TableWriter struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewTableWriter(db *sql.DB, logger *zap.Logger) *TableWriter {
	return &TableWriter{db: db, logger: logger}
}

// Write creates table if needed and inserts every record in one transaction.
// Fields missing from a record are stored as NULL.
func (w *TableWriter) Write(ctx context.Context, table string, set records.Set) (int, error) {
	if set.Len() == 0 {
		return 0, fmt.Errorf("no records to insert")
	}

	header := set.Header()
	if len(header) == 0 {
		return 0, fmt.Errorf("first record has no fields")
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, CreateTableSQL(table, header)); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	insertSQL := InsertSQL(table, header)
	for i, rec := range set.Records {
		if _, err := tx.ExecContext(ctx, insertSQL, rowArgs(rec, header)...); err != nil {
			return 0, fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Debug("inserted records", zap.String("table", table), zap.Int("rows", set.Len()))

	return set.Len(), nil
}

func CreateTableSQL(table string, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pq.QuoteIdentifier(c) + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pq.QuoteIdentifier(table), strings.Join(defs, ", "))
}

func InsertSQL(table string, columns []string) string {
	names := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		names[i] = pq.QuoteIdentifier(c)
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(table), strings.Join(names, ", "), strings.Join(params, ", "))
}

func rowArgs(rec *records.Record, header []string) []any {
	args := make([]any, len(header))
	for i, k := range header {
		if v, ok := rec.Get(k); ok && v != nil {
			args[i] = records.FormatValue(v)
		}
	}
	return args
}
