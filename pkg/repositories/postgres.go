package repositories

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/cbodonnell/breedadventure/pkg/log"
	"github.com/cbodonnell/breedadventure/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to connStr and applies migrations.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations fs.FS) (Repository, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = pool.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to query database: %v", err)
	}
	log.Info("Connected to %s as %s", database, username)

	if err := applyMigrations(ctx, migrations, func(ctx context.Context, q string) error {
		_, err := pool.Exec(ctx, q)
		return err
	}); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) GetHighScore(ctx context.Context) (int, error) {
	var score int
	err := r.pool.QueryRow(ctx, "SELECT score FROM high_scores WHERE id = 1").Scan(&score)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan high score: %v", err)
	}
	return score, nil
}

func (r *PostgresRepository) SaveHighScore(ctx context.Context, score int) error {
	q := `
	INSERT INTO high_scores (id, score, updated_at) VALUES (1, $1, NOW())
	ON CONFLICT (id) DO UPDATE SET score = EXCLUDED.score, updated_at = NOW()
	WHERE EXCLUDED.score > high_scores.score;
	`
	if _, err := r.pool.Exec(ctx, q, score); err != nil {
		return fmt.Errorf("failed to save high score: %v", err)
	}
	return nil
}

func (r *PostgresRepository) SaveSessionResult(ctx context.Context, result *models.SessionResult) error {
	q := `
	INSERT INTO session_results (session_id, score, correct_answers, total_questions, phase, started_at, ended_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (session_id) DO UPDATE SET score = $2, correct_answers = $3, total_questions = $4, phase = $5, ended_at = $7;
	`
	_, err := r.pool.Exec(ctx, q,
		result.SessionID,
		result.Score,
		result.CorrectAnswers,
		result.TotalQuestions,
		result.Phase,
		result.StartedAt,
		result.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session result: %v", err)
	}
	return nil
}

func (r *PostgresRepository) GetSessionResult(ctx context.Context, sessionID string) (*models.SessionResult, error) {
	q := `
	SELECT session_id::text, score, correct_answers, total_questions, phase, started_at, ended_at
	FROM session_results WHERE session_id = $1;
	`
	result, err := scanPostgresResult(r.pool.QueryRow(ctx, q, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan session result: %v", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListSessionResults(ctx context.Context, limit int) ([]*models.SessionResult, error) {
	q := `
	SELECT session_id::text, score, correct_answers, total_questions, phase, started_at, ended_at
	FROM session_results ORDER BY ended_at DESC LIMIT $1;
	`
	rows, err := r.pool.Query(ctx, q, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query session results: %v", err)
	}
	defer rows.Close()

	results := []*models.SessionResult{}
	for rows.Next() {
		result, err := scanPostgresResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session result: %v", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session results: %v", err)
	}
	return results, nil
}

func scanPostgresResult(row pgx.Row) (*models.SessionResult, error) {
	result := &models.SessionResult{}
	err := row.Scan(
		&result.SessionID,
		&result.Score,
		&result.CorrectAnswers,
		&result.TotalQuestions,
		&result.Phase,
		&result.StartedAt,
		&result.EndedAt,
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}
