package repository

import (
	"context"
	"database/sql"

	"github.com/hariomtransport/books/models"
)

type PostgresPartyRepo struct {
	DB *sql.DB
}

func NewPostgresPartyRepo(db *sql.DB) *PostgresPartyRepo {
	return &PostgresPartyRepo{DB: db}
}

const partyColumns = `id, name, mobile, address, gst, balance, active_trips, created_at`

func scanParty(row rowScanner) (models.Party, error) {
	var p models.Party
	err := row.Scan(&p.ID, &p.Name, &p.Mobile, &p.Address, &p.GST, &p.Balance, &p.ActiveTrips, &p.CreatedAt)
	return p, err
}

func (r *PostgresPartyRepo) GetAll(ctx context.Context) ([]models.Party, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+partyColumns+` FROM parties ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanParty)
}

func (r *PostgresPartyRepo) Get(ctx context.Context, id string) (*models.Party, error) {
	return firstRow(r.DB.QueryRowContext(ctx, `SELECT `+partyColumns+` FROM parties WHERE id=$1`, id), scanParty)
}

func (r *PostgresPartyRepo) GetByName(ctx context.Context, name string) (*models.Party, error) {
	return firstRow(r.DB.QueryRowContext(ctx,
		`SELECT `+partyColumns+` FROM parties WHERE lower(btrim(name)) = lower(btrim($1)) LIMIT 1`, name), scanParty)
}

func (r *PostgresPartyRepo) Create(ctx context.Context, p *models.Party) error {
	ensureID(&p.ID)
	ensureCreatedAt(&p.CreatedAt)
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO parties(id, name, mobile, address, gst, balance, active_trips, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8)
	`, p.ID, p.Name, p.Mobile, p.Address, p.GST, p.Balance, p.ActiveTrips, p.CreatedAt)
	return pgError(err)
}

func (r *PostgresPartyRepo) Update(ctx context.Context, p *models.Party) error {
	return execResult(r.DB.ExecContext(ctx, `
		UPDATE parties SET name=$1, mobile=$2, address=$3, gst=$4, balance=$5, active_trips=$6
		WHERE id=$7
	`, p.Name, p.Mobile, p.Address, p.GST, p.Balance, p.ActiveTrips, p.ID))
}

func (r *PostgresPartyRepo) Delete(ctx context.Context, id string) error {
	return execResult(r.DB.ExecContext(ctx, `DELETE FROM parties WHERE id=$1`, id))
}

type PostgresSupplierRepo struct {
	DB *sql.DB
}

func NewPostgresSupplierRepo(db *sql.DB) *PostgresSupplierRepo {
	return &PostgresSupplierRepo{DB: db}
}

const supplierColumns = `id, name, mobile, address, balance, active_trips, created_at`

func scanSupplier(row rowScanner) (models.Supplier, error) {
	var s models.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Mobile, &s.Address, &s.Balance, &s.ActiveTrips, &s.CreatedAt)
	return s, err
}

func (r *PostgresSupplierRepo) GetAll(ctx context.Context) ([]models.Supplier, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanSupplier)
}

func (r *PostgresSupplierRepo) Get(ctx context.Context, id string) (*models.Supplier, error) {
	return firstRow(r.DB.QueryRowContext(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id=$1`, id), scanSupplier)
}

func (r *PostgresSupplierRepo) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	return firstRow(r.DB.QueryRowContext(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE lower(btrim(name)) = lower(btrim($1)) LIMIT 1`, name), scanSupplier)
}

func (r *PostgresSupplierRepo) Create(ctx context.Context, s *models.Supplier) error {
	ensureID(&s.ID)
	ensureCreatedAt(&s.CreatedAt)
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO suppliers(id, name, mobile, address, balance, active_trips, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7)
	`, s.ID, s.Name, s.Mobile, s.Address, s.Balance, s.ActiveTrips, s.CreatedAt)
	return pgError(err)
}

func (r *PostgresSupplierRepo) Update(ctx context.Context, s *models.Supplier) error {
	return execResult(r.DB.ExecContext(ctx, `
		UPDATE suppliers SET name=$1, mobile=$2, address=$3, balance=$4, active_trips=$5
		WHERE id=$6
	`, s.Name, s.Mobile, s.Address, s.Balance, s.ActiveTrips, s.ID))
}

func (r *PostgresSupplierRepo) Delete(ctx context.Context, id string) error {
	return execResult(r.DB.ExecContext(ctx, `DELETE FROM suppliers WHERE id=$1`, id))
}
