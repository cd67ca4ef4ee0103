package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/bankcap-dev/bankcap/internal/model"
)

// IndexColumn holds the 0-based row position, like the CSV index column.
const IndexColumn = "index"

// ErrInvalidTableName is returned for table names that are not plain identifiers.
var ErrInvalidTableName = errors.New("invalid table name")

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store is a SQLite file holding bank tables.
type Store struct {
	db   *sql.DB
	path string
}

// Result is the outcome of a read query: column names and raw row values
// as returned by the driver (int64, float64, string or nil).
type Result struct {
	Columns []string
	Rows    [][]any
}

// Open opens the SQLite file at path, creating it if absent.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	// A single connection keeps SQLite from reporting "database is locked".
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ValidateTableName checks that name can be used as an unquoted SQL identifier.
func ValidateTableName(name string) error {
	if !identRE.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, name)
	}
	return nil
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func createTableSQL(name string) string {
	cols := []string{quote(IndexColumn) + " INTEGER", quote(model.ColName) + " TEXT"}
	for _, c := range model.Columns[1:] {
		cols = append(cols, quote(c)+" REAL")
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quote(name), strings.Join(cols, ", "))
}

func insertSQL(name string) string {
	cols := []string{quote(IndexColumn)}
	marks := []string{"?"}
	for _, c := range model.Columns {
		cols = append(cols, quote(c))
		marks = append(marks, "?")
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(name), strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// ReplaceTable drops the table name if it exists, recreates it and inserts
// records in order, all in one transaction.
func (s *Store) ReplaceTable(ctx context.Context, name string, records []model.BankRecord) error {
	if err := ValidateTableName(name); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(name)); err != nil {
		return fmt.Errorf("dropping table %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, createTableSQL(name)); err != nil {
		return fmt.Errorf("creating table %s: %w", name, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(name))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		_, err := stmt.ExecContext(ctx,
			i,
			rec.Name,
			rec.MCUSBillion.InexactFloat64(),
			rec.MCGBPBillion.InexactFloat64(),
			rec.MCEURBillion.InexactFloat64(),
			rec.MCINRBillion.InexactFloat64(),
		)
		if err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing table %s: %w", name, err)
	}
	return nil
}

// Records reads a table written by ReplaceTable in index order.
func (s *Store) Records(ctx context.Context, name string) ([]model.BankRecord, error) {
	if err := ValidateTableName(name); err != nil {
		return nil, err
	}

	cols := make([]string, len(model.Columns))
	for i, c := range model.Columns {
		cols[i] = quote(c)
	}
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", strings.Join(cols, ", "), quote(name), quote(IndexColumn))

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", name, err)
	}
	defer rows.Close()

	var out []model.BankRecord
	for rows.Next() {
		var rec model.BankRecord
		var us, gbp, eur, inr float64
		if err := rows.Scan(&rec.Name, &us, &gbp, &eur, &inr); err != nil {
			return nil, fmt.Errorf("scanning table %s: %w", name, err)
		}
		rec.MCUSBillion = decimal.NewFromFloat(us)
		rec.MCGBPBillion = decimal.NewFromFloat(gbp)
		rec.MCEURBillion = decimal.NewFromFloat(eur)
		rec.MCINRBillion = decimal.NewFromFloat(inr)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Query runs a read-only statement and returns every row.
func (s *Store) Query(ctx context.Context, query string, args ...any) (Result, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Result{}, fmt.Errorf("running query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("reading columns: %w", err)
	}

	res := Result{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, fmt.Errorf("scanning row: %w", err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("iterating rows: %w", err)
	}
	return res, nil
}
