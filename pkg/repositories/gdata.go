package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/cbodonnell/breedadventure/pkg/repositories/models"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	gdataObject         = "breedadventure"
	gdataHighScoreProp  = "highscore"
	gdataHistoryProp    = "history"
	gdataHistoryMaxSize = 100
)

// GDataRepository stores data on the device through gdata, the way a
// standalone client keeps its progress.
type GDataRepository struct {
	lock    sync.Mutex
	manager *gdata.Manager
}

type gdataHighScore struct {
	Score int `yaml:"score"`
}

func NewGDataRepository(appName string) (Repository, error) {
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gdata storage: %v", err)
	}
	return &GDataRepository{
		manager: manager,
	}, nil
}

func (r *GDataRepository) Close(ctx context.Context) error {
	return nil
}

func (r *GDataRepository) GetHighScore(ctx context.Context) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	hs := gdataHighScore{}
	if err := r.load(gdataHighScoreProp, &hs); err != nil {
		return 0, err
	}
	return hs.Score, nil
}

func (r *GDataRepository) SaveHighScore(ctx context.Context, score int) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	hs := gdataHighScore{}
	if err := r.load(gdataHighScoreProp, &hs); err != nil {
		return err
	}
	if score <= hs.Score {
		return nil
	}
	hs.Score = score
	return r.save(gdataHighScoreProp, hs)
}

func (r *GDataRepository) SaveSessionResult(ctx context.Context, result *models.SessionResult) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	history := []models.SessionResult{}
	if err := r.load(gdataHistoryProp, &history); err != nil {
		return err
	}
	replaced := false
	for i := range history {
		if history[i].SessionID == result.SessionID {
			history[i] = *result
			replaced = true
		}
	}
	if !replaced {
		history = append(history, *result)
	}
	if len(history) > gdataHistoryMaxSize {
		history = history[len(history)-gdataHistoryMaxSize:]
	}
	return r.save(gdataHistoryProp, history)
}

func (r *GDataRepository) GetSessionResult(ctx context.Context, sessionID string) (*models.SessionResult, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	history := []models.SessionResult{}
	if err := r.load(gdataHistoryProp, &history); err != nil {
		return nil, err
	}
	for _, result := range history {
		if result.SessionID == sessionID {
			result := result
			return &result, nil
		}
	}
	return nil, &ErrNotFound{}
}

func (r *GDataRepository) ListSessionResults(ctx context.Context, limit int) ([]*models.SessionResult, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	history := []models.SessionResult{}
	if err := r.load(gdataHistoryProp, &history); err != nil {
		return nil, err
	}
	results := make([]*models.SessionResult, 0, len(history))
	for _, result := range history {
		result := result
		results = append(results, &result)
	}
	return sortAndLimit(results, limit), nil
}

// load leaves out untouched when nothing has been saved yet.
func (r *GDataRepository) load(prop string, out interface{}) error {
	if !r.manager.ObjectPropExists(gdataObject, prop) {
		return nil
	}
	data, err := r.manager.LoadObjectProp(gdataObject, prop)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", prop, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", prop, err)
	}
	return nil
}

func (r *GDataRepository) save(prop string, in interface{}) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", prop, err)
	}
	if err := r.manager.SaveObjectProp(gdataObject, prop, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", prop, err)
	}
	return nil
}
