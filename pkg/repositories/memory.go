package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/cbodonnell/breedadventure/pkg/repositories/models"
)

// InMemoryRepository keeps everything in process memory.
type InMemoryRepository struct {
	lock      sync.RWMutex
	highScore int
	results   map[string]models.SessionResult
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		results: make(map[string]models.SessionResult),
	}
}

func (r *InMemoryRepository) Close(ctx context.Context) error {
	return nil
}

func (r *InMemoryRepository) GetHighScore(ctx context.Context) (int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.highScore, nil
}

func (r *InMemoryRepository) SaveHighScore(ctx context.Context, score int) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if score > r.highScore {
		r.highScore = score
	}
	return nil
}

func (r *InMemoryRepository) SaveSessionResult(ctx context.Context, result *models.SessionResult) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.results[result.SessionID] = *result
	return nil
}

func (r *InMemoryRepository) GetSessionResult(ctx context.Context, sessionID string) (*models.SessionResult, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	result, ok := r.results[sessionID]
	if !ok {
		return nil, &ErrNotFound{}
	}
	return &result, nil
}

func (r *InMemoryRepository) ListSessionResults(ctx context.Context, limit int) ([]*models.SessionResult, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	results := make([]*models.SessionResult, 0, len(r.results))
	for _, result := range r.results {
		result := result
		results = append(results, &result)
	}
	return sortAndLimit(results, limit), nil
}

func sortAndLimit(results []*models.SessionResult, limit int) []*models.SessionResult {
	sort.Slice(results, func(i, j int) bool {
		return results[i].EndedAt.After(results[j].EndedAt)
	})
	limit = normalizeLimit(limit)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
