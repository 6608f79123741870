package records

import (
	"context"

	"github.com/dmitrijs2005/sealdrop/internal/client/models"
	"github.com/dmitrijs2005/sealdrop/internal/ledger"
)

type Repository interface {
	// SaveAll upserts every record in one transaction.
	SaveAll(ctx context.Context, recs []models.FileRecord) error
	// Get returns (nil, nil) when the blob is not cached.
	Get(ctx context.Context, blobID string) (*models.FileRecord, error)
	ListByUploader(ctx context.Context, uploader ledger.Address) ([]models.FileRecord, error)
}
