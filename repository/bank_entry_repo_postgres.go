package repository

import (
	"context"
	"database/sql"

	"github.com/hariomtransport/books/models"
)

type PostgresBankEntryRepo struct {
	DB *sql.DB
}

func NewPostgresBankEntryRepo(db *sql.DB) *PostgresBankEntryRepo {
	return &PostgresBankEntryRepo{DB: db}
}

const bankEntryColumns = `
	id, to_char(entry_date, 'YYYY-MM-DD'), entry_type, amount, category,
	related_id, related_name, narration, created_at`

func scanBankEntry(row rowScanner) (models.BankEntry, error) {
	var e models.BankEntry
	err := row.Scan(&e.ID, &e.Date, &e.Type, &e.Amount, &e.Category,
		&e.RelatedID, &e.RelatedName, &e.Narration, &e.CreatedAt)
	return e, err
}

func (r *PostgresBankEntryRepo) GetAll(ctx context.Context) ([]models.BankEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+bankEntryColumns+` FROM bank_entries ORDER BY entry_date, created_at`)
	if err != nil {
		return nil, err
	}
	return collectRows(rows, scanBankEntry)
}

func (r *PostgresBankEntryRepo) Get(ctx context.Context, id string) (*models.BankEntry, error) {
	return firstRow(r.DB.QueryRowContext(ctx, `SELECT `+bankEntryColumns+` FROM bank_entries WHERE id=$1`, id), scanBankEntry)
}

func (r *PostgresBankEntryRepo) Create(ctx context.Context, e *models.BankEntry) error {
	ensureID(&e.ID)
	ensureCreatedAt(&e.CreatedAt)
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO bank_entries(id, entry_date, entry_type, amount, category, related_id, related_name, narration, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, e.ID, e.Date, e.Type, e.Amount, e.Category, e.RelatedID, e.RelatedName, e.Narration, e.CreatedAt)
	return pgError(err)
}

func (r *PostgresBankEntryRepo) Update(ctx context.Context, e *models.BankEntry) error {
	return execResult(r.DB.ExecContext(ctx, `
		UPDATE bank_entries SET
			entry_date=$1, entry_type=$2, amount=$3, category=$4,
			related_id=$5, related_name=$6, narration=$7
		WHERE id=$8
	`, e.Date, e.Type, e.Amount, e.Category, e.RelatedID, e.RelatedName, e.Narration, e.ID))
}

func (r *PostgresBankEntryRepo) Delete(ctx context.Context, id string) error {
	return execResult(r.DB.ExecContext(ctx, `DELETE FROM bank_entries WHERE id=$1`, id))
}
