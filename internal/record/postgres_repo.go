package record

import (
	"context"
	"errors"
	"time"

	"journalapi/internal/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo stores each record as a row of the reviews table. Insertion
// order is kept by the position column.
type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) Append(ctx context.Context, key Key, rec entity.Record) error {
	const insertSQL = `
		INSERT INTO reviews (session_id, storage_key, id, title, body, subject_title, subject_info, consumed_on_label, cover_image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, insertSQL,
		key.SessionID, key.Domain.StorageKey(), rec.ID, rec.Title, rec.Body,
		rec.SubjectTitle, rec.SubjectInfo, rec.ConsumedOnLabel, rec.CoverImageURL)
	return err
}

const selectColumns = `id, title, body, subject_title, subject_info, consumed_on_label, COALESCE(cover_image_url, '')`

func scanRecord(row pgx.Row) (entity.Record, error) {
	var rec entity.Record
	err := row.Scan(&rec.ID, &rec.Title, &rec.Body, &rec.SubjectTitle, &rec.SubjectInfo, &rec.ConsumedOnLabel, &rec.CoverImageURL)
	return rec, err
}

func (r *PostgresRepo) ListAll(ctx context.Context, key Key) ([]entity.Record, error) {
	const listSQL = `
		SELECT ` + selectColumns + `
		FROM reviews
		WHERE session_id = $1 AND storage_key = $2
		ORDER BY position ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, listSQL, key.SessionID, key.Domain.StorageKey())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []entity.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *PostgresRepo) FindByID(ctx context.Context, key Key, id int64) (entity.Record, error) {
	const findSQL = `
		SELECT ` + selectColumns + `
		FROM reviews
		WHERE session_id = $1 AND storage_key = $2 AND id = $3
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rec, err := scanRecord(r.db.QueryRow(timeoutCtx, findSQL, key.SessionID, key.Domain.StorageKey(), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.Record{}, ErrNotFound
	}
	return rec, err
}

func (r *PostgresRepo) Remove(ctx context.Context, key Key, id int64) error {
	const deleteSQL = `DELETE FROM reviews WHERE session_id = $1 AND storage_key = $2 AND id = $3`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, deleteSQL, key.SessionID, key.Domain.StorageKey(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
