package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/breedadventure/pkg/challenges"
	"github.com/cbodonnell/breedadventure/pkg/game"
	"github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/cbodonnell/breedadventure/pkg/images"
	"github.com/cbodonnell/breedadventure/pkg/repositories"
	"github.com/cbodonnell/breedadventure/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*httptest.Server, *repositories.InMemoryRepository) {
	t.Helper()
	catalog, err := challenges.NewCatalog([]challenges.Entry{
		{Label: "Beagle", Image: "local://beagle.jpg", Phase: types.PhaseBeginner},
		{Label: "Boxer", Image: "local://boxer.jpg", Phase: types.PhaseBeginner},
		{Label: "Collie", Image: "local://collie.jpg", Phase: types.PhaseBeginner},
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	cache, err := images.NewCache(images.NewCacheOptions{})
	require.NoError(t, err)

	repository := repositories.NewInMemoryRepository()
	gm := game.NewGameManager(game.NewGameManagerOptions{
		Template: game.NewSessionOptions{
			Generator: catalog,
			Images:    cache,
			Scores:    repository,
		},
		GameLoopInterval: 5 * time.Millisecond,
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go gm.Start(ctx)

	server := httptest.NewServer(NewRouter(NewAPIServerOptions{
		Games:   gm,
		History: repository,
	}))
	t.Cleanup(server.Close)
	return server, repository
}

func do(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestAPI_playSession(t *testing.T) {
	server, _ := newTestAPI(t)

	created := types.Snapshot{}
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, server.URL+"/sessions", "", &created))
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, types.StatusInitialized, created.Status)
	base := server.URL + "/sessions/" + created.SessionID

	started := types.Snapshot{}
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, base+"/start", "", &started))
	assert.Equal(t, types.StatusActive, started.Status)
	require.NotNil(t, started.Challenge)

	body := fmt.Sprintf(`{"slot": %d}`, started.Challenge.CorrectSlot)
	answered := types.Snapshot{}
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, base+"/select", body, &answered))
	assert.Equal(t, types.FeedbackCorrect, answered.Feedback)
	assert.Equal(t, 1, answered.State.CorrectAnswers)

	// the answer is still on screen
	failed := map[string]any{}
	assert.Equal(t, http.StatusConflict, do(t, http.MethodPost, base+"/select?slot=0", "", &failed))
	assert.Contains(t, failed["error"], game.ErrFeedbackPending.Error())

	fetched := types.Snapshot{}
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, base, "", &fetched))
	assert.Equal(t, answered.Sequence, fetched.Sequence)

	ended := types.Snapshot{}
	require.Equal(t, http.StatusOK, do(t, http.MethodPost, base+"/end", "", &ended))
	assert.Equal(t, types.StatusEnded, ended.Status)

	highScore := map[string]int{}
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, server.URL+"/highscore", "", &highScore))
	assert.Equal(t, answered.State.Score, highScore["score"])

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, base, "", nil))
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, base, "", nil))
}

func TestAPI_commandErrors(t *testing.T) {
	server, _ := newTestAPI(t)

	created := types.Snapshot{}
	require.Equal(t, http.StatusCreated, do(t, http.MethodPost, server.URL+"/sessions", "", &created))
	base := server.URL + "/sessions/" + created.SessionID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "select before start", method: http.MethodPost, path: "/select", body: `{"slot": 0}`, status: http.StatusConflict},
		{name: "unknown power-up", method: http.MethodPost, path: "/powerups/teleport", status: http.StatusBadRequest},
		{name: "inert power-up", method: http.MethodPost, path: "/powerups/hint", status: http.StatusConflict},
		{name: "unknown recovery kind", method: http.MethodPost, path: "/recover/cosmic", status: http.StatusBadRequest},
		{name: "recover", method: http.MethodPost, path: "/recover/storage", status: http.StatusOK},
		{name: "bad body", method: http.MethodPost, path: "/select", body: `{`, status: http.StatusBadRequest},
		{name: "unknown route", method: http.MethodPost, path: "/dance", status: http.StatusNotFound},
		{name: "preflight", method: http.MethodOptions, path: "/start", status: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, do(t, tt.method, base+tt.path, tt.body, nil))
		})
	}

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodPost, server.URL+"/sessions/missing/start", "", nil))
}

func TestAPI_history(t *testing.T) {
	server, repository := newTestAPI(t)
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second"} {
		require.NoError(t, repository.SaveSessionResult(ctx, &models.SessionResult{
			SessionID: id,
			Score:     100 * (i + 1),
			Phase:     string(types.PhaseBeginner),
			StartedAt: now,
			EndedAt:   now.Add(time.Duration(i+1) * time.Minute),
		}))
	}

	results := []*models.SessionResult{}
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, server.URL+"/history?limit=1", "", &results))
	require.Len(t, results, 1)
	assert.Equal(t, "second", results[0].SessionID)

	result := models.SessionResult{}
	require.Equal(t, http.StatusOK, do(t, http.MethodGet, server.URL+"/history/first", "", &result))
	assert.Equal(t, 100, result.Score)

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, server.URL+"/history/missing", "", nil))
	assert.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, server.URL+"/history?limit=zero", "", nil))
}
