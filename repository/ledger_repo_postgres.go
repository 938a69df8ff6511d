package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/hariomtransport/books/models"
)

// PostgresLedgerRepo keeps each ledger projection as one JSONB document.
type PostgresLedgerRepo struct {
	DB *sql.DB
}

func NewPostgresLedgerRepo(db *sql.DB) *PostgresLedgerRepo {
	return &PostgresLedgerRepo{DB: db}
}

func scanLedger(row rowScanner) (models.Ledger, error) {
	var l models.Ledger
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		return l, err
	}
	err := json.Unmarshal(doc, &l)
	return l, err
}

func (r *PostgresLedgerRepo) GetAll(ctx context.Context) ([]models.Ledger, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT doc FROM ledgers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanLedger)
}

func (r *PostgresLedgerRepo) Get(ctx context.Context, id string) (*models.Ledger, error) {
	return firstRow(r.DB.QueryRowContext(ctx, `SELECT doc FROM ledgers WHERE id=$1`, id), scanLedger)
}

func (r *PostgresLedgerRepo) Create(ctx context.Context, l *models.Ledger) error {
	if l.ID == "" {
		l.ID = models.LedgerID(l.OwnerKind, l.OwnerID)
	}
	doc, err := json.Marshal(l)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO ledgers(id, owner_kind, owner_id, doc, updated_at)
		VALUES($1,$2,$3,$4,now())
	`, l.ID, l.OwnerKind, l.OwnerID, string(doc))
	return pgError(err)
}

func (r *PostgresLedgerRepo) Update(ctx context.Context, l *models.Ledger) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return execResult(r.DB.ExecContext(ctx, `
		UPDATE ledgers SET owner_kind=$1, owner_id=$2, doc=$3, updated_at=now()
		WHERE id=$4
	`, l.OwnerKind, l.OwnerID, string(doc), l.ID))
}

func (r *PostgresLedgerRepo) Delete(ctx context.Context, id string) error {
	return execResult(r.DB.ExecContext(ctx, `DELETE FROM ledgers WHERE id=$1`, id))
}
