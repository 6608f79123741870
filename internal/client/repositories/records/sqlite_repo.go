package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/dbx"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const upsertQuery = `
	INSERT INTO file_records (blob_id, uploader, recipient, file_name, file_type, file_size,
		uploaded_at, expires_at, is_public, object_id, object_version)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(blob_id) DO UPDATE SET
		file_type = excluded.file_type,
		file_size = excluded.file_size,
		expires_at = excluded.expires_at,
		object_id = excluded.object_id,
		object_version = excluded.object_version`

const selectColumns = `SELECT blob_id, uploader, recipient, file_name, file_type, file_size,
	uploaded_at, expires_at, is_public, object_id, object_version FROM file_records`

func (r *SQLiteRepository) SaveAll(ctx context.Context, recs []models.FileRecord) error {
	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			return err
		}
	}
	err := dbx.ExecBatch(ctx, r.db, upsertQuery, recs, func(rec models.FileRecord) []any {
		return []any{rec.BlobID, rec.Uploader.String(), rec.Recipient.String(), rec.FileName, rec.FileType,
			int64(rec.FileSize), int64(rec.UploadedAt), int64(rec.ExpiresAt), rec.IsPublic,
			rec.ObjectID, int64(rec.ObjectVersion)}
	}, func(rec models.FileRecord) string { return rec.BlobID })
	if err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	return nil
}

func scanRecord(s dbx.Scanner) (models.FileRecord, error) {
	var (
		rec                         models.FileRecord
		uploader, recipient         string
		size, uploaded, expires, ov int64
	)
	err := s.Scan(&rec.BlobID, &uploader, &recipient, &rec.FileName, &rec.FileType, &size,
		&uploaded, &expires, &rec.IsPublic, &rec.ObjectID, &ov)
	if err != nil {
		return rec, err
	}
	if rec.Uploader, err = ledger.ParseAddress(uploader); err != nil {
		return rec, err
	}
	if rec.Recipient, err = ledger.ParseAddress(recipient); err != nil {
		return rec, err
	}
	rec.FileSize = uint64(size)
	rec.UploadedAt = uint64(uploaded)
	rec.ExpiresAt = uint64(expires)
	rec.ObjectVersion = uint64(ov)
	return rec, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, blobID string) (*models.FileRecord, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx, selectColumns+` WHERE blob_id = ?`, blobID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", blobID, err)
	}
	return &rec, nil
}

func (r *SQLiteRepository) ListByUploader(ctx context.Context, uploader ledger.Address) ([]models.FileRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` WHERE uploader = ? ORDER BY uploaded_at DESC`, uploader.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var result []models.FileRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate record rows: %w", err)
	}
	return result, nil
}
