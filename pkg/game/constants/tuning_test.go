package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTuningWithDefaults(t *testing.T) {
	tests := []struct {
		name   string
		tuning Tuning
		check  func(t *testing.T, got Tuning)
	}{
		{
			name:   "defaults are kept",
			tuning: DefaultTuning(),
			check: func(t *testing.T, got Tuning) {
				assert.Equal(t, DefaultTuning(), got)
			},
		},
		{
			name:   "unusable values are replaced",
			tuning: Tuning{ChallengeSeconds: -1, StartingSkip: -3, LookaheadImages: -1},
			check: func(t *testing.T, got Tuning) {
				assert.Equal(t, ChallengeSeconds, got.ChallengeSeconds)
				assert.Equal(t, TickInterval, got.TickInterval)
				assert.Equal(t, StartingSkip, got.StartingSkip)
				assert.Equal(t, LookaheadImages, got.LookaheadImages)
			},
		},
		{
			name:   "zero starting counts are kept",
			tuning: Tuning{SkipDelay: time.Second},
			check: func(t *testing.T, got Tuning) {
				assert.Equal(t, 0, got.StartingExtraTime)
				assert.Equal(t, 0, got.StartingSkip)
				assert.Equal(t, 0, got.LookaheadImages)
				assert.Equal(t, time.Second, got.SkipDelay)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.tuning.WithDefaults())
		})
	}
}
