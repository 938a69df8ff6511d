package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/hariomtransport/books/models"
)

type PostgresInitialRepo struct {
	DB *sql.DB
}

func NewPostgresInitialRepo(db *sql.DB) *PostgresInitialRepo {
	return &PostgresInitialRepo{DB: db}
}

// SaveInitial inserts a new company header, or updates it when ID is set.
func (r *PostgresInitialRepo) SaveInitial(ctx context.Context, initial *models.InitialSetup) error {
	if initial.CreatedAt.IsZero() {
		initial.CreatedAt = time.Now().UTC()
	}

	mobileJSON, err := toJSON(initial.Mobile)
	if err != nil {
		return err
	}
	footnoteJSON, err := json.Marshal(initial.Footnote)
	if err != nil {
		return err
	}

	if initial.ID > 0 {
		return execResult(r.DB.ExecContext(ctx, `
			UPDATE initial_setup
			SET company_name=$1, gstin=$2, address=$3, city=$4, state=$5,
				pincode=$6, mobile=$7, footnote=$8
			WHERE id=$9
		`, initial.CompanyName, initial.GSTIN, initial.Address, initial.City, initial.State,
			initial.Pincode, mobileJSON, string(footnoteJSON), initial.ID))
	}

	return r.DB.QueryRowContext(ctx, `
		INSERT INTO initial_setup
		(company_name, gstin, address, city, state, pincode, mobile, footnote, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`, initial.CompanyName, initial.GSTIN, initial.Address, initial.City, initial.State,
		initial.Pincode, mobileJSON, string(footnoteJSON), initial.CreatedAt).Scan(&initial.ID)
}

// GetInitial fetches the latest company header.
func (r *PostgresInitialRepo) GetInitial(ctx context.Context) (*models.InitialSetup, error) {
	initial := &models.InitialSetup{}
	var mobileJSON, footnoteJSON []byte

	err := r.DB.QueryRowContext(ctx, `
		SELECT id, company_name, address, city, state, pincode, gstin, footnote, mobile, created_at
		FROM initial_setup
		ORDER BY id DESC LIMIT 1
	`).Scan(&initial.ID, &initial.CompanyName, &initial.Address, &initial.City, &initial.State,
		&initial.Pincode, &initial.GSTIN, &footnoteJSON, &mobileJSON, &initial.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := fromJSON(mobileJSON, &initial.Mobile); err != nil {
		return nil, err
	}
	if err := fromJSON(footnoteJSON, &initial.Footnote); err != nil {
		return nil, err
	}
	return initial, nil
}
