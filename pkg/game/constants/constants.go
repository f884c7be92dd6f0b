package constants

import "time"

const (

	// BaseScore is awarded for every correct answer before the phase multiplier
	BaseScore int = 100
	// TimeBonusPerSecond is awarded per second left on the countdown
	TimeBonusPerSecond int = 10
	// StreakBonus is awarded when the answer extends a streak
	StreakBonus int = 50
	// StreakBonusThreshold is the streak length (before the answer) that earns the bonus
	StreakBonusThreshold int = 2

	// MaxLives is the number of incorrect answers or timeouts that ends a session
	MaxLives int = 3

	// ChallengeSeconds is the countdown length of each challenge
	ChallengeSeconds int = 10
	// TickInterval is the countdown resolution
	TickInterval = time.Second

	// AnswerFeedbackDelay is the feedback window after a manual pick
	AnswerFeedbackDelay = 1500 * time.Millisecond
	// TimeoutFeedbackDelay is the feedback window after the countdown runs out
	TimeoutFeedbackDelay = 2500 * time.Millisecond
	// SkipDelay is the pause between a skip and the next challenge
	SkipDelay = 300 * time.Millisecond

	// ExtraTimeSeconds is added to the countdown by the extra time power-up
	ExtraTimeSeconds int = 5
	// PowerUpRewardStreak awards one power-up every this many consecutive correct answers
	PowerUpRewardStreak int = 5
	// StartingExtraTime is the initial extra time inventory
	StartingExtraTime int = 2
	// StartingSkip is the initial skip inventory
	StartingSkip int = 1

	// InitMaxAttempts is the number of setup attempts per dependency
	InitMaxAttempts int = 3
	// InitBackoffStep is multiplied by the attempt number between setup attempts
	InitBackoffStep = 500 * time.Millisecond
	// FailureThreshold is the consecutive failure count that enters recovery mode
	FailureThreshold int = 3
	// FailedImageHistory bounds the queue of recently failed image references
	FailedImageHistory int = 10

	// LookaheadImages is the number of upcoming images prefetched in the background
	LookaheadImages int = 4
)
