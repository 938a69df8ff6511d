package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
)

type PostgresMemoRepo struct {
	DB *sql.DB
}

func NewPostgresMemoRepo(db *sql.DB) *PostgresMemoRepo {
	return &PostgresMemoRepo{DB: db}
}

const memoColumns = `
	id, memo_no, to_char(loading_date, 'YYYY-MM-DD'), supplier_id, supplier_name,
	vehicle, from_location, to_location, freight, commission, mamul, detention,
	rto_amount, extra_charge, advances, payments, paid_amount, balance, status,
	to_char(paid_date, 'YYYY-MM-DD'), loading_slip_id, created_at, updated_at`

func scanMemo(row rowScanner) (models.Memo, error) {
	var m models.Memo
	var advances, payments []byte
	err := row.Scan(
		&m.ID, &m.MemoNo, &m.LoadingDate, &m.SupplierID, &m.SupplierName,
		&m.Vehicle, &m.From, &m.To, &m.Freight, &m.Commission, &m.Mamul, &m.Detention,
		&m.RTOAmount, &m.ExtraCharge, &advances, &payments, &m.PaidAmount, &m.Balance, &m.Status,
		&m.PaidDate, &m.LoadingSlipID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return m, err
	}
	if err := fromJSON(advances, &m.Advances); err != nil {
		return m, err
	}
	if err := fromJSON(payments, &m.Payments); err != nil {
		return m, err
	}
	return m, nil
}

func (r *PostgresMemoRepo) GetAll(ctx context.Context) ([]models.Memo, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+memoColumns+` FROM memos ORDER BY loading_date, created_at`)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanMemo)
}

func (r *PostgresMemoRepo) GetBySupplier(ctx context.Context, supplier models.Supplier) ([]models.Memo, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+memoColumns+`
		FROM memos
		WHERE supplier_id = $1
		   OR (supplier_id = '' AND lower(btrim(supplier_name)) = lower(btrim($2)) AND btrim($2) <> '')
		ORDER BY loading_date, created_at
	`, supplier.ID, supplier.Name)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanMemo)
}

func (r *PostgresMemoRepo) GetByNo(ctx context.Context, memoNo string) (*models.Memo, error) {
	return firstRow(r.DB.QueryRowContext(ctx, `
		SELECT `+memoColumns+`
		FROM memos
		WHERE upper(regexp_replace(memo_no, '\s', '', 'g')) = $1
		ORDER BY created_at
		LIMIT 1
	`, ledger.NormalizeNo(memoNo)), scanMemo)
}

func (r *PostgresMemoRepo) Get(ctx context.Context, id string) (*models.Memo, error) {
	return firstRow(r.DB.QueryRowContext(ctx, `SELECT `+memoColumns+` FROM memos WHERE id = $1`, id), scanMemo)
}

func (r *PostgresMemoRepo) Create(ctx context.Context, m *models.Memo) error {
	ensureID(&m.ID)
	ensureCreatedAt(&m.CreatedAt)
	advances, err := toJSON(m.Advances)
	if err != nil {
		return err
	}
	payments, err := toJSON(m.Payments)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO memos(
			id, memo_no, loading_date, supplier_id, supplier_name, vehicle,
			from_location, to_location, freight, commission, mamul, detention,
			rto_amount, extra_charge, advances, payments, paid_amount, balance,
			status, paid_date, loading_slip_id, created_at, updated_at
		)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	`,
		m.ID, m.MemoNo, m.LoadingDate, m.SupplierID, m.SupplierName, m.Vehicle,
		m.From, m.To, m.Freight, m.Commission, m.Mamul, m.Detention,
		m.RTOAmount, m.ExtraCharge, advances, payments, m.PaidAmount, m.Balance,
		m.Status, m.PaidDate, m.LoadingSlipID, m.CreatedAt, m.UpdatedAt,
	)
	return pgError(err)
}

func (r *PostgresMemoRepo) Update(ctx context.Context, m *models.Memo) error {
	advances, err := toJSON(m.Advances)
	if err != nil {
		return err
	}
	payments, err := toJSON(m.Payments)
	if err != nil {
		return err
	}
	if m.UpdatedAt == nil {
		now := time.Now().UTC()
		m.UpdatedAt = &now
	}
	return execResult(r.DB.ExecContext(ctx, `
		UPDATE memos SET
			memo_no=$1, loading_date=$2, supplier_id=$3, supplier_name=$4, vehicle=$5,
			from_location=$6, to_location=$7, freight=$8, commission=$9, mamul=$10,
			detention=$11, rto_amount=$12, extra_charge=$13, advances=$14, payments=$15,
			paid_amount=$16, balance=$17, status=$18, paid_date=$19, loading_slip_id=$20,
			updated_at=$21
		WHERE id=$22
	`,
		m.MemoNo, m.LoadingDate, m.SupplierID, m.SupplierName, m.Vehicle,
		m.From, m.To, m.Freight, m.Commission, m.Mamul,
		m.Detention, m.RTOAmount, m.ExtraCharge, advances, payments,
		m.PaidAmount, m.Balance, m.Status, m.PaidDate, m.LoadingSlipID,
		m.UpdatedAt, m.ID,
	))
}

func (r *PostgresMemoRepo) Delete(ctx context.Context, id string) error {
	return execResult(r.DB.ExecContext(ctx, `DELETE FROM memos WHERE id=$1`, id))
}
