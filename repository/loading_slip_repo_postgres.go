package repository

import (
	"context"
	"database/sql"

	"github.com/hariomtransport/books/models"
)

type PostgresLoadingSlipRepo struct {
	DB *sql.DB
}

func NewPostgresLoadingSlipRepo(db *sql.DB) *PostgresLoadingSlipRepo {
	return &PostgresLoadingSlipRepo{DB: db}
}

const loadingSlipColumns = `
	id, slip_no, to_char(slip_date, 'YYYY-MM-DD'), vehicle, from_location, to_location,
	party_name, supplier_id, supplier_name, freight, advance, memo_id, bill_id, created_at`

func scanLoadingSlip(row rowScanner) (models.LoadingSlip, error) {
	var s models.LoadingSlip
	err := row.Scan(&s.ID, &s.SlipNo, &s.Date, &s.Vehicle, &s.From, &s.To,
		&s.PartyName, &s.SupplierID, &s.SupplierName, &s.Freight, &s.Advance,
		&s.MemoID, &s.BillID, &s.CreatedAt)
	return s, err
}

func (r *PostgresLoadingSlipRepo) GetAll(ctx context.Context) ([]models.LoadingSlip, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+loadingSlipColumns+` FROM loading_slips ORDER BY slip_date, created_at`)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanLoadingSlip)
}

func (r *PostgresLoadingSlipRepo) Get(ctx context.Context, id string) (*models.LoadingSlip, error) {
	return firstRow(r.DB.QueryRowContext(ctx, `SELECT `+loadingSlipColumns+` FROM loading_slips WHERE id=$1`, id), scanLoadingSlip)
}

func (r *PostgresLoadingSlipRepo) Create(ctx context.Context, s *models.LoadingSlip) error {
	ensureID(&s.ID)
	ensureCreatedAt(&s.CreatedAt)
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO loading_slips(
			id, slip_no, slip_date, vehicle, from_location, to_location, party_name,
			supplier_id, supplier_name, freight, advance, memo_id, bill_id, created_at
		)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`, s.ID, s.SlipNo, s.Date, s.Vehicle, s.From, s.To, s.PartyName,
		s.SupplierID, s.SupplierName, s.Freight, s.Advance, s.MemoID, s.BillID, s.CreatedAt)
	return pgError(err)
}

func (r *PostgresLoadingSlipRepo) Update(ctx context.Context, s *models.LoadingSlip) error {
	return execResult(r.DB.ExecContext(ctx, `
		UPDATE loading_slips SET
			slip_no=$1, slip_date=$2, vehicle=$3, from_location=$4, to_location=$5,
			party_name=$6, supplier_id=$7, supplier_name=$8, freight=$9, advance=$10,
			memo_id=$11, bill_id=$12
		WHERE id=$13
	`, s.SlipNo, s.Date, s.Vehicle, s.From, s.To,
		s.PartyName, s.SupplierID, s.SupplierName, s.Freight, s.Advance,
		s.MemoID, s.BillID, s.ID))
}

func (r *PostgresLoadingSlipRepo) Delete(ctx context.Context, id string) error {
	return execResult(r.DB.ExecContext(ctx, `DELETE FROM loading_slips WHERE id=$1`, id))
}
