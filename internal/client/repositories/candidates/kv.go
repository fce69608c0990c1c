package candidates

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/erpdesk/internal/client/models"
	"github.com/dmitrijs2005/erpdesk/internal/client/repositories/kv"
	"github.com/dmitrijs2005/erpdesk/internal/common"
)

// KVRepository implements Repository on top of a kv.Repository, under
// common.CandidatesKey.
type KVRepository struct {
	store kv.Repository
}

func NewKVRepository(store kv.Repository) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) Load(ctx context.Context) ([]models.Candidate, error) {
	raw, err := r.store.Get(ctx, common.CandidatesKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []models.Candidate{}, nil
	}

	var result []models.Candidate
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode candidates: %w", err)
	}
	if result == nil {
		result = []models.Candidate{}
	}
	return result, nil
}

func (r *KVRepository) Save(ctx context.Context, candidates []models.Candidate) error {
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	raw, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("failed to encode candidates: %w", err)
	}
	return r.store.Set(ctx, common.CandidatesKey, raw, time.Time{})
}
