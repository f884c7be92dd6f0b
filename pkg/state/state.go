package state

import (
	"context"

	gametypes "github.com/cbodonnell/breedadventure/pkg/game/types"
)

// StateManager provides shared access to the latest snapshot of each session.
// Implementations must be thread-safe.
type StateManager interface {
	// Get returns the latest snapshot for sessionID.
	Get(ctx context.Context, sessionID string) (gametypes.Snapshot, error)
	// Set stores snapshot unless a newer one is already held.
	Set(ctx context.Context, snapshot gametypes.Snapshot) error
	Delete(ctx context.Context, sessionID string) error
	// List returns the ids of every stored session.
	List(ctx context.Context) ([]string, error)
}
