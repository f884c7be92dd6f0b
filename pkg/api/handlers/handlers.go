package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/cbodonnell/breedadventure/pkg/challenges"
	"github.com/cbodonnell/breedadventure/pkg/game"
	"github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/cbodonnell/breedadventure/pkg/log"
	"github.com/cbodonnell/breedadventure/pkg/messages"
	"github.com/cbodonnell/breedadventure/pkg/powerups"
	"github.com/cbodonnell/breedadventure/pkg/repositories"
	"github.com/cbodonnell/breedadventure/pkg/repositories/models"
	"github.com/cbodonnell/breedadventure/pkg/resilience"
	"github.com/gorilla/mux"
)

// DefaultHistoryLimit is used when a history request has no limit.
const DefaultHistoryLimit = 20

// Games is the part of the game manager the API drives.
type Games interface {
	Create(ctx context.Context) (types.Snapshot, error)
	Execute(ctx context.Context, sessionID string, command *messages.Command) (types.Snapshot, error)
	Snapshot(ctx context.Context, sessionID string) (types.Snapshot, error)
	Sessions() []string
	Delete(ctx context.Context, sessionID string) error
	HighScore(ctx context.Context) (int, error)
}

// Feed streams a session's snapshots over a websocket.
type Feed interface {
	ServeSession(w http.ResponseWriter, r *http.Request, sessionID string)
}

type errorResponse struct {
	Error    string          `json:"error"`
	Snapshot *types.Snapshot `json:"snapshot,omitempty"`
}

type sessionsResponse struct {
	Sessions []string `json:"sessions"`
}

func HandleListSessions(games Games) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, &sessionsResponse{Sessions: games.Sessions()})
	}
}

// HandleCreateSession creates and initializes a session. A session whose
// initialization failed still exists; its snapshot comes back with the error
// so the client can recover and retry.
func HandleCreateSession(games Games) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := games.Create(r.Context())
		if err != nil {
			if snapshot.SessionID == "" {
				log.Error("failed to create session: %v", err)
				http.Error(w, "Failed to create session", http.StatusServiceUnavailable)
				return
			}
			log.Warn("Session %s failed to initialize: %v", snapshot.SessionID, err)
			writeJSON(w, http.StatusServiceUnavailable, &errorResponse{Error: err.Error(), Snapshot: &snapshot})
			return
		}
		writeJSON(w, http.StatusCreated, &snapshot)
	}
}

func HandleGetSession(games Games) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := games.Snapshot(r.Context(), mux.Vars(r)["sessionID"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &snapshot)
	}
}

func HandleDeleteSession(games Games) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := games.Delete(r.Context(), mux.Vars(r)["sessionID"]); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleCommand runs action on the session named in the path. The select
// action reads the slot from a JSON body; power-up and recover actions take
// their kind from the path.
func HandleCommand(games Games, action messages.CommandAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		command := &messages.Command{}
		if action == messages.CommandSelect {
			if err := json.NewDecoder(r.Body).Decode(command); err != nil && !errors.Is(err, io.EOF) {
				http.Error(w, "Failed to decode command", http.StatusBadRequest)
				return
			}
			if raw := r.URL.Query().Get("slot"); raw != "" {
				slot, err := strconv.Atoi(raw)
				if err != nil {
					http.Error(w, "Failed to parse slot", http.StatusBadRequest)
					return
				}
				command.Slot = slot
			}
		}
		command.Action = action
		if kind, ok := mux.Vars(r)["kind"]; ok {
			command.Kind = kind
		}

		snapshot, err := games.Execute(r.Context(), mux.Vars(r)["sessionID"], command)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &snapshot)
	}
}

// HandleFeed upgrades to a websocket streaming the session's snapshots.
func HandleFeed(games Games, feed Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := mux.Vars(r)["sessionID"]
		if _, err := games.Snapshot(r.Context(), sessionID); err != nil {
			writeError(w, err)
			return
		}
		feed.ServeSession(w, r, sessionID)
	}
}

func HandleGetHighScore(games Games) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		score, err := games.HighScore(r.Context())
		if err != nil {
			log.Error("failed to get high score: %v", err)
			http.Error(w, "Failed to get high score", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, &models.HighScore{Score: score})
	}
}

func HandleListHistory(history repositories.HistoryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := DefaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				http.Error(w, "Limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = parsed
		}
		results, err := history.ListSessionResults(r.Context(), limit)
		if err != nil {
			log.Error("failed to list session results: %v", err)
			http.Error(w, "Failed to list session results", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func HandleGetHistory(history repositories.HistoryRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := history.GetSessionResult(r.Context(), mux.Vars(r)["sessionID"])
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Session result not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get session result: %v", err)
			http.Error(w, "Failed to get session result", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// statusFor maps engine errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidSlot),
		errors.Is(err, game.ErrUnknownCommand),
		errors.Is(err, powerups.ErrUnsupported),
		errors.Is(err, types.ErrUnknownPowerUpKind),
		errors.Is(err, resilience.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotInitialized),
		errors.Is(err, game.ErrInProgress),
		errors.Is(err, game.ErrNotActive),
		errors.Is(err, game.ErrNoChallenge),
		errors.Is(err, game.ErrFeedbackPending),
		errors.Is(err, powerups.ErrEmpty),
		errors.Is(err, powerups.ErrTimerNotRunning):
		return http.StatusConflict
	case errors.Is(err, challenges.ErrInsufficientContent):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, game.ErrLoopStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed: %v", err)
	}
	writeJSON(w, status, &errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
