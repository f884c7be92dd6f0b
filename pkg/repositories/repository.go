package repositories

import (
	"context"

	"github.com/cbodonnell/breedadventure/pkg/repositories/models"
)

// HighScoreRepository stores the best score across sessions.
type HighScoreRepository interface {
	Close(ctx context.Context) error
	// GetHighScore returns 0 when no score has been saved.
	GetHighScore(ctx context.Context) (int, error)
	// SaveHighScore stores score if it beats the stored one.
	SaveHighScore(ctx context.Context, score int) error
}

// HistoryRepository stores the results of finished sessions.
type HistoryRepository interface {
	SaveSessionResult(ctx context.Context, result *models.SessionResult) error
	GetSessionResult(ctx context.Context, sessionID string) (*models.SessionResult, error)
	// ListSessionResults returns the most recent results first.
	ListSessionResults(ctx context.Context, limit int) ([]*models.SessionResult, error)
}

type Repository interface {
	HighScoreRepository
	HistoryRepository
}
