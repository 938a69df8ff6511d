package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// toJSON encodes v for a JSONB parameter. lib/pq sends []byte as bytea, so
// the encoding is passed as a string; nil slices become [].
func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func fromJSON(raw []byte, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

// execResult maps a write that touched no row to ErrNotFound and a unique
// violation to ErrDuplicate.
func execResult(res sql.Result, err error) error {
	if err != nil {
		return pgError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func pgError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func ensureCreatedAt(t *time.Time) {
	if t.IsZero() {
		*t = time.Now().UTC()
	}
}

func collectRows[T any](rows *sql.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func firstRow[T any](row *sql.Row, scan func(rowScanner) (T, error)) (*T, error) {
	v, err := scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// NewPostgresStore binds every collection to conn. The schema comes from
// db/migrations.
func NewPostgresStore(conn *sql.DB) *Store {
	return &Store{
		Bills:        NewPostgresBillRepo(conn),
		Memos:        NewPostgresMemoRepo(conn),
		BankEntries:  NewPostgresBankEntryRepo(conn),
		Parties:      NewPostgresPartyRepo(conn),
		Suppliers:    NewPostgresSupplierRepo(conn),
		LoadingSlips: NewPostgresLoadingSlipRepo(conn),
		Ledgers:      NewPostgresLedgerRepo(conn),
		Initial:      NewPostgresInitialRepo(conn),
	}
}
