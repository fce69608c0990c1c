package candidates

import (
	"context"

	"github.com/dmitrijs2005/erpdesk/internal/client/models"
)

// Repository persists the whole candidate list at once. Writers replace the
// stored list; the last writer wins.
type Repository interface {
	// Load returns the stored list, or an empty list if nothing is stored.
	Load(ctx context.Context) ([]models.Candidate, error)

	// Save replaces the stored list with candidates.
	Save(ctx context.Context, candidates []models.Candidate) error
}
