package game

import (
	"github.com/cbodonnell/breedadventure/pkg/game/constants"
	"github.com/cbodonnell/breedadventure/pkg/game/types"
)

// Points returns the score for a correct answer. streakBefore is the number
// of consecutive correct answers before this one.
func Points(phase types.Phase, timeRemaining int, streakBefore int) int {
	if timeRemaining < 0 {
		timeRemaining = 0
	}
	points := constants.BaseScore*phase.ScoreMultiplier() + timeRemaining*constants.TimeBonusPerSecond
	if streakBefore >= constants.StreakBonusThreshold {
		points += constants.StreakBonus
	}
	return points
}
