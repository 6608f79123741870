// Package orphans keeps uploads that reached the blob store but were never
// registered, so the registration can be retried later.
package orphans

import (
	"context"

	"github.com/dmitrijs2005/sealdrop/internal/client/models"
)

type Repository interface {
	AddAll(ctx context.Context, items []models.Orphan) error
	List(ctx context.Context) ([]models.Orphan, error)
	Delete(ctx context.Context, blobIDs ...string) error
}
