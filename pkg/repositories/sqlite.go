package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/cbodonnell/breedadventure/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at dbPath and applies every .sql
// file in migrations in name order.
func NewSQLiteRepository(ctx context.Context, dbPath string, migrations fs.FS) (Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := applyMigrations(ctx, migrations, func(ctx context.Context, q string) error {
		_, err := db.ExecContext(ctx, q)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func applyMigrations(ctx context.Context, migrations fs.FS, exec func(ctx context.Context, q string) error) error {
	names, err := fs.Glob(migrations, "*/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %v", err)
	}
	root, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %v", err)
	}
	names = append(names, root...)
	sort.Slice(names, func(i, j int) bool {
		return path.Base(names[i]) < path.Base(names[j])
	})

	for _, name := range names {
		migration, err := fs.ReadFile(migrations, name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %v", name, err)
		}
		if err := exec(ctx, string(migration)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %v", name, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) GetHighScore(ctx context.Context) (int, error) {
	q := `
	SELECT score FROM high_scores WHERE id = 1;
	`
	var score int
	if err := r.db.QueryRowContext(ctx, q).Scan(&score); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan high score: %v", err)
	}
	return score, nil
}

func (r *SQLiteRepository) SaveHighScore(ctx context.Context, score int) error {
	q := `
	INSERT INTO high_scores (id, score, updated_at)
	VALUES (1, ?, ?)
	ON CONFLICT(id) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at
	WHERE excluded.score > high_scores.score;
	`
	if _, err := r.db.ExecContext(ctx, q, score, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to save high score: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveSessionResult(ctx context.Context, result *models.SessionResult) error {
	q := `
	INSERT OR REPLACE INTO session_results (session_id, score, correct_answers, total_questions, phase, started_at, ended_at)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q,
		result.SessionID,
		result.Score,
		result.CorrectAnswers,
		result.TotalQuestions,
		result.Phase,
		result.StartedAt.UnixMilli(),
		result.EndedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session result: %v", err)
	}
	return nil
}

func (r *SQLiteRepository) GetSessionResult(ctx context.Context, sessionID string) (*models.SessionResult, error) {
	q := `
	SELECT session_id, score, correct_answers, total_questions, phase, started_at, ended_at
	FROM session_results WHERE session_id = ?;
	`
	result, err := scanSQLiteResult(r.db.QueryRowContext(ctx, q, sessionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan session result: %v", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ListSessionResults(ctx context.Context, limit int) ([]*models.SessionResult, error) {
	q := `
	SELECT session_id, score, correct_answers, total_questions, phase, started_at, ended_at
	FROM session_results ORDER BY ended_at DESC LIMIT ?;
	`
	rows, err := r.db.QueryContext(ctx, q, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query session results: %v", err)
	}
	defer rows.Close()

	results := []*models.SessionResult{}
	for rows.Next() {
		result, err := scanSQLiteResult(rows)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteResult(row rowScanner) (*models.SessionResult, error) {
	result := &models.SessionResult{}
	var startedAt, endedAt int64
	err := row.Scan(
		&result.SessionID,
		&result.Score,
		&result.CorrectAnswers,
		&result.TotalQuestions,
		&result.Phase,
		&startedAt,
		&endedAt,
	)
	if err != nil {
		return nil, err
	}
	result.StartedAt = time.UnixMilli(startedAt).UTC()
	result.EndedAt = time.UnixMilli(endedAt).UTC()
	return result, nil
}
