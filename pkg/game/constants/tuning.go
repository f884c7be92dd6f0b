package constants

import "time"

// Tuning holds the engine values that deployments may override.
type Tuning struct {
	ChallengeSeconds     int           `yaml:"challengeSeconds"`
	TickInterval         time.Duration `yaml:"tickInterval"`
	AnswerFeedbackDelay  time.Duration `yaml:"answerFeedbackDelay"`
	TimeoutFeedbackDelay time.Duration `yaml:"timeoutFeedbackDelay"`
	SkipDelay            time.Duration `yaml:"skipDelay"`
	ExtraTimeSeconds     int           `yaml:"extraTimeSeconds"`
	PowerUpRewardStreak  int           `yaml:"powerUpRewardStreak"`
	StartingExtraTime    int           `yaml:"startingExtraTime"`
	StartingSkip         int           `yaml:"startingSkip"`
	InitMaxAttempts      int           `yaml:"initMaxAttempts"`
	InitBackoffStep      time.Duration `yaml:"initBackoffStep"`
	FailureThreshold     int           `yaml:"failureThreshold"`
	FailedImageHistory   int           `yaml:"failedImageHistory"`
	LookaheadImages      int           `yaml:"lookaheadImages"`
}

func DefaultTuning() Tuning {
	return Tuning{
		ChallengeSeconds:     ChallengeSeconds,
		TickInterval:         TickInterval,
		AnswerFeedbackDelay:  AnswerFeedbackDelay,
		TimeoutFeedbackDelay: TimeoutFeedbackDelay,
		SkipDelay:            SkipDelay,
		ExtraTimeSeconds:     ExtraTimeSeconds,
		PowerUpRewardStreak:  PowerUpRewardStreak,
		StartingExtraTime:    StartingExtraTime,
		StartingSkip:         StartingSkip,
		InitMaxAttempts:      InitMaxAttempts,
		InitBackoffStep:      InitBackoffStep,
		FailureThreshold:     FailureThreshold,
		FailedImageHistory:   FailedImageHistory,
		LookaheadImages:      LookaheadImages,
	}
}

// WithDefaults replaces unusable values with the defaults. Starting counts
// and the lookahead may legitimately be zero; only negatives are replaced.
func (t Tuning) WithDefaults() Tuning {
	d := DefaultTuning()
	if t.ChallengeSeconds <= 0 {
		t.ChallengeSeconds = d.ChallengeSeconds
	}
	if t.TickInterval <= 0 {
		t.TickInterval = d.TickInterval
	}
	if t.AnswerFeedbackDelay <= 0 {
		t.AnswerFeedbackDelay = d.AnswerFeedbackDelay
	}
	if t.TimeoutFeedbackDelay <= 0 {
		t.TimeoutFeedbackDelay = d.TimeoutFeedbackDelay
	}
	if t.SkipDelay <= 0 {
		t.SkipDelay = d.SkipDelay
	}
	if t.ExtraTimeSeconds <= 0 {
		t.ExtraTimeSeconds = d.ExtraTimeSeconds
	}
	if t.PowerUpRewardStreak <= 0 {
		t.PowerUpRewardStreak = d.PowerUpRewardStreak
	}
	if t.StartingExtraTime < 0 {
		t.StartingExtraTime = d.StartingExtraTime
	}
	if t.StartingSkip < 0 {
		t.StartingSkip = d.StartingSkip
	}
	if t.InitMaxAttempts <= 0 {
		t.InitMaxAttempts = d.InitMaxAttempts
	}
	if t.InitBackoffStep <= 0 {
		t.InitBackoffStep = d.InitBackoffStep
	}
	if t.FailureThreshold <= 0 {
		t.FailureThreshold = d.FailureThreshold
	}
	if t.FailedImageHistory <= 0 {
		t.FailedImageHistory = d.FailedImageHistory
	}
	if t.LookaheadImages < 0 {
		t.LookaheadImages = d.LookaheadImages
	}
	return t
}
