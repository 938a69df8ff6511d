package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hariomtransport/books/ledger"
	"github.com/hariomtransport/books/models"
)

type PostgresBillRepo struct {
	DB *sql.DB
}

func NewPostgresBillRepo(db *sql.DB) *PostgresBillRepo {
	return &PostgresBillRepo{DB: db}
}

const billColumns = `
	id, bill_no, to_char(bill_date, 'YYYY-MM-DD'), party_id, party_name, trips,
	total_freight, mamul, detention, rto_amount, extra_charges, advances,
	balance, status, payments, total_deductions, net_amount_received,
	to_char(received_date, 'YYYY-MM-DD'), received_narration, created_at, updated_at`

func scanBill(row rowScanner) (models.Bill, error) {
	var b models.Bill
	var trips, advances, payments []byte
	err := row.Scan(
		&b.ID, &b.BillNo, &b.BillDate, &b.PartyID, &b.PartyName, &trips,
		&b.TotalFreight, &b.Mamul, &b.Detention, &b.RTOAmount, &b.ExtraCharges, &advances,
		&b.Balance, &b.Status, &payments, &b.TotalDeductions, &b.NetAmountReceived,
		&b.ReceivedDate, &b.ReceivedNarration, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return b, err
	}
	if err := fromJSON(trips, &b.Trips); err != nil {
		return b, err
	}
	if err := fromJSON(advances, &b.Advances); err != nil {
		return b, err
	}
	if err := fromJSON(payments, &b.Payments); err != nil {
		return b, err
	}
	return b, nil
}

// billJSON encodes the nested collections stored as JSONB.
func billJSON(b *models.Bill) (trips, advances, payments string, err error) {
	if trips, err = toJSON(b.Trips); err != nil {
		return
	}
	if advances, err = toJSON(b.Advances); err != nil {
		return
	}
	payments, err = toJSON(b.Payments)
	return
}

func (r *PostgresBillRepo) GetAll(ctx context.Context) ([]models.Bill, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+billColumns+` FROM bills ORDER BY bill_date, created_at`)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanBill)
}

func (r *PostgresBillRepo) GetByParty(ctx context.Context, party models.Party) ([]models.Bill, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+billColumns+`
		FROM bills
		WHERE party_id = $1
		   OR (party_id = '' AND lower(btrim(party_name)) = lower(btrim($2)) AND btrim($2) <> '')
		ORDER BY bill_date, created_at
	`, party.ID, party.Name)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanBill)
}

func (r *PostgresBillRepo) GetByNo(ctx context.Context, billNo string) (*models.Bill, error) {
	return firstRow(r.DB.QueryRowContext(ctx, `
		SELECT `+billColumns+`
		FROM bills
		WHERE upper(regexp_replace(bill_no, '\s', '', 'g')) = $1
		ORDER BY created_at
		LIMIT 1
	`, ledger.NormalizeNo(billNo)), scanBill)
}

func (r *PostgresBillRepo) Get(ctx context.Context, id string) (*models.Bill, error) {
	return firstRow(r.DB.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id), scanBill)
}

func (r *PostgresBillRepo) Create(ctx context.Context, b *models.Bill) error {
	ensureID(&b.ID)
	ensureCreatedAt(&b.CreatedAt)
	trips, advances, payments, err := billJSON(b)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO bills(
			id, bill_no, bill_date, party_id, party_name, trips,
			total_freight, mamul, detention, rto_amount, extra_charges, advances,
			balance, status, payments, total_deductions, net_amount_received,
			received_date, received_narration, created_at, updated_at
		)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`,
		b.ID, b.BillNo, b.BillDate, b.PartyID, b.PartyName, trips,
		b.TotalFreight, b.Mamul, b.Detention, b.RTOAmount, b.ExtraCharges, advances,
		b.Balance, b.Status, payments, b.TotalDeductions, b.NetAmountReceived,
		b.ReceivedDate, b.ReceivedNarration, b.CreatedAt, b.UpdatedAt,
	)
	return pgError(err)
}

func (r *PostgresBillRepo) Update(ctx context.Context, b *models.Bill) error {
	trips, advances, payments, err := billJSON(b)
	if err != nil {
		return err
	}
	if b.UpdatedAt == nil {
		now := time.Now().UTC()
		b.UpdatedAt = &now
	}
	return execResult(r.DB.ExecContext(ctx, `
		UPDATE bills SET
			bill_no=$1, bill_date=$2, party_id=$3, party_name=$4, trips=$5,
			total_freight=$6, mamul=$7, detention=$8, rto_amount=$9, extra_charges=$10,
			advances=$11, balance=$12, status=$13, payments=$14, total_deductions=$15,
			net_amount_received=$16, received_date=$17, received_narration=$18, updated_at=$19
		WHERE id=$20
	`,
		b.BillNo, b.BillDate, b.PartyID, b.PartyName, trips,
		b.TotalFreight, b.Mamul, b.Detention, b.RTOAmount, b.ExtraCharges,
		advances, b.Balance, b.Status, payments, b.TotalDeductions,
		b.NetAmountReceived, b.ReceivedDate, b.ReceivedNarration, b.UpdatedAt,
		b.ID,
	))
}

func (r *PostgresBillRepo) Delete(ctx context.Context, id string) error {
	return execResult(r.DB.ExecContext(ctx, `DELETE FROM bills WHERE id=$1`, id))
}
