package challenges

import (
	"context"
	"math/rand"
	"testing"

	"github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEntries() []Entry {
	return []Entry{
		{Label: "Pug", Image: "pug.jpg", Phase: types.PhaseBeginner},
		{Label: "Beagle", Image: "beagle.jpg", Phase: types.PhaseBeginner},
		{Label: "Borzoi", Image: "borzoi.jpg", Phase: types.PhaseExpert},
	}
}

func TestCatalog_GenerateNeverRepeatsUsedLabels(t *testing.T) {
	ctx := context.Background()
	c, err := NewCatalog(testEntries(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	used := types.NewLabelSet()
	for i := 0; i < 2; i++ {
		challenge, err := c.Generate(ctx, types.PhaseBeginner, used)
		require.NoError(t, err)
		assert.False(t, used.Has(challenge.CorrectLabel))
		assert.NoError(t, challenge.Validate())
		assert.Equal(t, types.PhaseBeginner, challenge.Phase)
		used = used.With(challenge.CorrectLabel)
	}

	_, err = c.Generate(ctx, types.PhaseBeginner, used)
	assert.ErrorIs(t, err, ErrExhausted)

	has, err := c.HasAvailable(ctx, types.PhaseBeginner, used)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestCatalog_distractorFallsBackToOtherPhases(t *testing.T) {
	c, err := NewCatalog(testEntries(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	challenge, err := c.Generate(context.Background(), types.PhaseExpert, types.NewLabelSet())
	require.NoError(t, err)
	assert.Equal(t, "Borzoi", challenge.CorrectLabel)
	assert.Contains(t, []string{"pug.jpg", "beagle.jpg"}, challenge.IncorrectImage)
}

func TestCatalog_insufficientContent(t *testing.T) {
	c, err := NewCatalog(testEntries()[2:], nil)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), types.PhaseExpert, types.NewLabelSet())
	assert.ErrorIs(t, err, ErrInsufficientContent)
}

func TestNewCatalog_rejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{name: "missing image", entries: []Entry{{Label: "Pug", Phase: types.PhaseBeginner}}},
		{name: "unknown phase", entries: []Entry{{Label: "Pug", Image: "p.jpg", Phase: "legendary"}}},
		{name: "duplicate", entries: []Entry{
			{Label: "Pug", Image: "p.jpg", Phase: types.PhaseBeginner},
			{Label: "Pug", Image: "q.jpg", Phase: types.PhaseBeginner},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.entries, nil)
			assert.Error(t, err)
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog(nil)
	require.NoError(t, err)

	for _, phase := range types.AllPhases() {
		entries, err := c.ListByPhase(context.Background(), phase)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(entries), 2, "phase %s", phase)
	}
}
