package state

import (
	"context"
	"errors"
	"testing"

	gametypes "github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStateManager(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryStateManager()

	_, err := m.Get(ctx, "a")
	var notFound *ErrSessionNotFound
	assert.True(t, errors.As(err, &notFound))

	require.Error(t, m.Set(ctx, gametypes.Snapshot{}))

	require.NoError(t, m.Set(ctx, gametypes.Snapshot{SessionID: "a", Sequence: 2, Status: gametypes.StatusActive}))
	require.NoError(t, m.Set(ctx, gametypes.Snapshot{SessionID: "a", Sequence: 1, Status: gametypes.StatusInitialized}))
	require.NoError(t, m.Set(ctx, gametypes.Snapshot{SessionID: "b", Sequence: 1}))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Sequence)
	assert.Equal(t, gametypes.StatusActive, got.Status)

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, m.Delete(ctx, "a"))
	_, err = m.Get(ctx, "a")
	assert.Error(t, err)
}
