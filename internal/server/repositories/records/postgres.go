package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avramovs/clientbook/internal/common"
	"github.com/avramovs/clientbook/internal/dbx"
	"github.com/avramovs/clientbook/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const recordColumns = `id, iban, full_name, city, email, phone, secret, owner_id, created_at, updated_at`

func (r *PostgresRepository) List(ctx context.Context, query string) ([]models.Record, error) {
	q :=
		`SELECT ` + recordColumns + ` FROM records
		 WHERE $1 = ''
		    OR iban ILIKE '%' || $1 || '%'
		    OR full_name ILIKE '%' || $1 || '%'
		    OR city ILIKE '%' || $1 || '%'
		    OR email ILIKE '%' || $1 || '%'
		    OR phone ILIKE '%' || $1 || '%'
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, q, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		var rec models.Record
		if err := scanRecord(rows.Scan, &rec); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Record, error) {
	q :=
		`SELECT ` + recordColumns + ` FROM records
		 WHERE id = $1
		 `

	rec := &models.Record{}
	err := scanRecord(r.db.QueryRowContext(ctx, q, id).Scan, rec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ownerID string, fields models.RecordFields) (*models.Record, error) {
	q :=
		`INSERT INTO records (` + recordColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 `

	now := time.Now().UTC()
	rec := &models.Record{
		ID:           uuid.NewString(),
		RecordFields: fields,
		OwnerID:      ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.IBAN, rec.FullName, rec.City, rec.Email, rec.Phone, rec.Secret,
		rec.OwnerID, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, fields models.RecordFields) (*models.Record, error) {
	q :=
		`UPDATE records
		 SET iban = $2, full_name = $3, city = $4, email = $5, phone = $6, secret = $7,
		     updated_at = $8
		 WHERE id = $1
		 RETURNING ` + recordColumns + `
		 `

	rec := &models.Record{}
	err := scanRecord(r.db.QueryRowContext(ctx, q,
		id, fields.IBAN, fields.FullName, fields.City, fields.Email, fields.Phone, fields.Secret,
		time.Now().UTC()).Scan, rec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// scanRecord feeds a record through any Scan-shaped function, so one
// column list serves both *sql.Row and *sql.Rows.
func scanRecord(scan func(dest ...any) error, rec *models.Record) error {
	return scan(
		&rec.ID, &rec.IBAN, &rec.FullName, &rec.City, &rec.Email, &rec.Phone, &rec.Secret,
		&rec.OwnerID, &rec.CreatedAt, &rec.UpdatedAt)
}
