package orphans

import (
	"context"
	"database/sql"
	"fmt"
	"time"

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

// AddAll stores the orphans of one failed registration. A blob already
// recorded as orphaned keeps its row but takes the newest reason.
func (r *SQLiteRepository) AddAll(ctx context.Context, items []models.Orphan) error {
	query := `
		INSERT INTO orphans (blob_id, session_id, uploader, recipient, file_name, file_type,
			file_size, retention_epochs, is_public, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(blob_id) DO UPDATE SET reason = excluded.reason, session_id = excluded.session_id`

	err := dbx.ExecBatch(ctx, r.db, query, items, func(o models.Orphan) []any {
		return []any{o.BlobID, o.SessionID, o.Uploader.String(), o.Recipient.String(), o.FileName, o.FileType,
			int64(o.FileSize), int64(o.RetentionEpochs), o.IsPublic, o.Reason, o.CreatedAt.UnixMilli()}
	}, func(o models.Orphan) string { return o.BlobID })
	if err != nil {
		return fmt.Errorf("failed to add orphans: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Orphan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT blob_id, session_id, uploader, recipient, file_name, file_type,
			file_size, retention_epochs, is_public, reason, created_at
		FROM orphans ORDER BY created_at, blob_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphans: %w", err)
	}
	defer rows.Close()

	var result []models.Orphan
	for rows.Next() {
		var (
			o                   models.Orphan
			uploader, recipient string
			size, epochs, ms    int64
		)
		if err := rows.Scan(&o.BlobID, &o.SessionID, &uploader, &recipient, &o.FileName, &o.FileType,
			&size, &epochs, &o.IsPublic, &o.Reason, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan orphan row: %w", err)
		}
		if o.Uploader, err = ledger.ParseAddress(uploader); err != nil {
			return nil, fmt.Errorf("orphan %s: %w", o.BlobID, err)
		}
		if o.Recipient, err = ledger.ParseAddress(recipient); err != nil {
			return nil, fmt.Errorf("orphan %s: %w", o.BlobID, err)
		}
		o.FileSize = uint64(size)
		o.RetentionEpochs = uint64(epochs)
		o.CreatedAt = time.UnixMilli(ms)
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orphan rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, blobIDs ...string) error {
	if len(blobIDs) == 0 {
		return nil
	}
	placeholders, args := dbx.In(blobIDs)
	_, err := r.db.ExecContext(ctx, `DELETE FROM orphans WHERE blob_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete orphans: %w", err)
	}
	return nil
}
