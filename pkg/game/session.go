package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/cbodonnell/breedadventure/pkg/audio"
	"github.com/cbodonnell/breedadventure/pkg/challenges"
	"github.com/cbodonnell/breedadventure/pkg/game/constants"
	"github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/cbodonnell/breedadventure/pkg/images"
	"github.com/cbodonnell/breedadventure/pkg/log"
	"github.com/cbodonnell/breedadventure/pkg/powerups"
	"github.com/cbodonnell/breedadventure/pkg/repositories"
	"github.com/cbodonnell/breedadventure/pkg/repositories/models"
	"github.com/cbodonnell/breedadventure/pkg/resilience"
	"github.com/cbodonnell/breedadventure/pkg/timer"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNotInitialized  = errors.New("session is not initialized")
	ErrInProgress      = errors.New("session is already in progress")
	ErrNotActive       = errors.New("session is not active")
	ErrNoChallenge     = errors.New("no current challenge")
	ErrFeedbackPending = errors.New("previous answer is still being shown")
	ErrInvalidSlot     = errors.New("invalid image slot")
)

// Observer receives every published snapshot, on the session's goroutine.
type Observer func(snapshot types.Snapshot)

// ResultRecorder accepts finished sessions for saving. Submit must not block.
type ResultRecorder interface {
	Submit(result *models.SessionResult) bool
}

// Session is one game of breed adventure. It is not safe for concurrent use:
// every method, and every callback it hands to its Scheduler, must run on a
// single goroutine. Loop provides that goroutine in production.
type Session struct {
	id           string
	ctx          context.Context
	tuning       constants.Tuning
	generator    challenges.Generator
	images       images.Prefetcher
	scores       repositories.HighScoreRepository
	history      ResultRecorder
	player       audio.Player
	sink         resilience.ErrorSink
	tracker      *resilience.Tracker
	synth        *resilience.Synthesizer
	retrier      *resilience.Retrier
	initializers []Initializer
	scheduler    timer.Scheduler
	timer        *timer.Timer
	economy      *powerups.Economy
	observers    []Observer
	tracer       trace.Tracer
	now          func() time.Time
	logger       *log.Logger

	status          types.SessionStatus
	state           types.GameState
	challenge       *types.Challenge
	challengeSeq    uint64
	feedback        types.Feedback
	pickedSlot      int
	feedbackPending bool
	pending         func()
	cancelPrefetch  context.CancelFunc
	highScore       int
	persistence     bool
	audioEnabled    bool
	sequence        uint64
}

type NewSessionOptions struct {
	// ID defaults to a random UUID.
	ID string
	// Context is handed to scheduled callbacks. It defaults to Background.
	Context   context.Context
	Generator challenges.Generator
	Images    images.Prefetcher
	// Scores may be nil, in which case high scores live in memory only.
	Scores repositories.HighScoreRepository
	// History may be nil.
	History ResultRecorder
	// Audio defaults to Silent.
	Audio audio.Player
	// Sink defaults to a LogSink.
	Sink resilience.ErrorSink
	// Scheduler drives the countdown and delayed transitions.
	Scheduler    timer.Scheduler
	Initializers []Initializer
	// Tuning defaults to constants.DefaultTuning.
	Tuning *constants.Tuning
	// StartingInventory overrides the tuned starting counts.
	StartingInventory types.Inventory
	RewardPolicy      powerups.RewardPolicy
	Rand              *rand.Rand
	// Sleep is used between initialization attempts.
	Sleep     resilience.SleepFunc
	Tracer    trace.Tracer
	Now       func() time.Time
	Observers []Observer
}

func NewSession(opts NewSessionOptions) (*Session, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("session requires a challenge generator")
	}
	if opts.Images == nil {
		return nil, fmt.Errorf("session requires an image prefetcher")
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("session requires a scheduler")
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	tuning := constants.DefaultTuning()
	if opts.Tuning != nil {
		tuning = opts.Tuning.WithDefaults()
	}
	if opts.Audio == nil {
		opts.Audio = audio.Silent{}
	}
	if opts.Sink == nil {
		opts.Sink = resilience.NewLogSink(nil)
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("github.com/cbodonnell/breedadventure/pkg/game")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	starting := opts.StartingInventory
	if starting == nil {
		starting = powerups.StartingInventory()
		starting[types.PowerUpExtraTime] = tuning.StartingExtraTime
		starting[types.PowerUpSkip] = tuning.StartingSkip
	}

	retrier := resilience.NewRetrier(opts.Sink)
	retrier.MaxAttempts = tuning.InitMaxAttempts
	retrier.Step = tuning.InitBackoffStep
	if opts.Sleep != nil {
		retrier.Sleep = opts.Sleep
	}

	economy := powerups.NewEconomy(powerups.NewEconomyOptions{
		Starting:         starting,
		ExtraTimeSeconds: tuning.ExtraTimeSeconds,
		RewardStreak:     tuning.PowerUpRewardStreak,
		Policy:           opts.RewardPolicy,
	})

	s := &Session{
		id:        opts.ID,
		ctx:       opts.Context,
		tuning:    tuning,
		generator: opts.Generator,
		images:    opts.Images,
		scores:    opts.Scores,
		history:   opts.History,
		player:    opts.Audio,
		sink:      opts.Sink,
		tracker: resilience.NewTracker(resilience.NewTrackerOptions{
			Threshold:   tuning.FailureThreshold,
			HistorySize: tuning.FailedImageHistory,
			Sink:        opts.Sink,
			Cache:       opts.Images,
		}),
		synth:        resilience.NewSynthesizer(opts.Generator, opts.Rand),
		retrier:      retrier,
		initializers: opts.Initializers,
		scheduler:    opts.Scheduler,
		timer:        timer.New(tuning.ChallengeSeconds, tuning.TickInterval, opts.Scheduler),
		economy:      economy,
		observers:    opts.Observers,
		tracer:       opts.Tracer,
		now:          opts.Now,
		logger:       log.With("session"),
		status:       types.StatusUninitialized,
		feedback:     types.FeedbackNone,
		pickedSlot:   types.NoSlot,
		persistence:  true,
		audioEnabled: true,
	}
	s.state = types.NewGameState(tuning.ChallengeSeconds, economy.Inventory())
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Status() types.SessionStatus {
	return s.status
}

// Subscribe adds an observer for every later snapshot.
func (s *Session) Subscribe(observer Observer) {
	s.observers = append(s.observers, observer)
}

// Snapshot returns the current observable state.
func (s *Session) Snapshot() types.Snapshot {
	return types.Snapshot{
		SessionID:      s.id,
		Sequence:       s.sequence,
		Status:         s.status,
		State:          s.state.Copy(),
		Challenge:      s.challenge,
		Feedback:       s.feedback,
		PickedSlot:     s.pickedSlot,
		LivesRemaining: s.state.LivesRemaining(),
		HighScore:      s.highScore,
		Resilience:     s.tracker.State(),
		Persistence:    s.persistence,
		Audio:          s.audioEnabled,
	}
}

func (s *Session) publish() {
	s.sequence++
	snapshot := s.Snapshot()
	for _, observer := range s.observers {
		observer(snapshot)
	}
}

// Initialize prepares every dependency, retrying each with backoff. When a
// dependency cannot be prepared the session enters recovery mode and stays
// uninitialized; calling Initialize again retries.
func (s *Session) Initialize(ctx context.Context) error {
	if s.status != types.StatusUninitialized {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "session.Initialize", trace.WithAttributes(attribute.String("session.id", s.id)))
	defer span.End()

	for _, initializer := range s.initializers {
		if err := s.retrier.Do(ctx, initializer.Name(), initializer.Initialize); err != nil {
			s.tracker.Fail(resilience.KindInitialization, fmt.Sprintf("failed to initialize %s", initializer.Name()), err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "initialization failed")
			s.publish()
			return fmt.Errorf("failed to initialize session: %w", err)
		}
	}

	s.highScore = s.loadHighScore(ctx)
	s.status = types.StatusInitialized
	s.logger.Debug("Session %s initialized", s.id)
	s.publish()
	return nil
}

func (s *Session) loadHighScore(ctx context.Context) int {
	if s.scores == nil || !s.persistence {
		return s.highScore
	}
	score, err := s.scores.GetHighScore(ctx)
	if err != nil {
		s.sink.Record(resilience.KindStorage, "failed to load high score", resilience.SeverityLow, err)
		return s.highScore
	}
	return score
}

// StartGame begins a new game from the initialized or ended state and shows
// the first challenge. The high score is reloaded, since other sessions may
// have beaten it.
func (s *Session) StartGame(ctx context.Context) error {
	switch s.status {
	case types.StatusInitialized, types.StatusEnded:
	case types.StatusUninitialized:
		return ErrNotInitialized
	default:
		return ErrInProgress
	}
	ctx, span := s.tracer.Start(ctx, "session.StartGame", trace.WithAttributes(attribute.String("session.id", s.id)))
	defer span.End()

	s.clearRound()
	s.economy.Reset()
	s.highScore = s.loadHighScore(ctx)
	s.state = types.NewGameState(s.tuning.ChallengeSeconds, s.economy.Inventory()).Started(s.now())
	s.status = types.StatusActive
	s.logger.Info("Session %s started", s.id)

	s.nextChallenge(ctx)
	return nil
}

// SelectImage resolves the current challenge with the picked slot. A pick
// while the previous answer is still shown is rejected with
// ErrFeedbackPending and changes nothing.
func (s *Session) SelectImage(ctx context.Context, slot int) error {
	if s.status != types.StatusActive {
		return ErrNotActive
	}
	if s.challenge == nil {
		return ErrNoChallenge
	}
	if s.feedbackPending {
		return ErrFeedbackPending
	}
	if slot != 0 && slot != 1 {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	s.resolve(ctx, slot, slot == s.challenge.CorrectSlot, false)
	return nil
}

// HandleTimeExpired resolves the current challenge as a timeout.
func (s *Session) HandleTimeExpired(ctx context.Context) error {
	if s.status != types.StatusActive {
		return ErrNotActive
	}
	if s.challenge == nil {
		return ErrNoChallenge
	}
	if s.feedbackPending {
		return ErrFeedbackPending
	}
	s.resolve(ctx, types.NoSlot, false, true)
	return nil
}

func (s *Session) resolve(ctx context.Context, slot int, correct bool, timedOut bool) {
	s.feedbackPending = true
	remaining := s.timer.Remaining()
	s.timer.Stop()

	label := s.challenge.CorrectLabel
	delay := s.tuning.AnswerFeedbackDelay
	if correct {
		points := Points(s.state.CurrentPhase, remaining, s.state.ConsecutiveCorrect)
		s.state = s.state.WithCorrectAnswer(points)
		s.feedback = types.FeedbackCorrect
		s.play(ctx, audio.CueCorrect)
		if kind, ok := s.economy.Reward(s.state.ConsecutiveCorrect); ok {
			s.logger.Debug("Session %s earned %s after %d correct answers", s.id, kind, s.state.ConsecutiveCorrect)
			s.play(ctx, audio.CuePowerUp)
		}
	} else {
		s.state = s.state.WithIncorrectAnswer()
		s.feedback = types.FeedbackIncorrect
		if timedOut {
			delay = s.tuning.TimeoutFeedbackDelay
			s.play(ctx, audio.CueTimeout)
		} else {
			s.play(ctx, audio.CueIncorrect)
		}
	}
	s.pickedSlot = slot
	s.state = s.state.
		WithLabelUsed(label).
		WithTimeRemaining(remaining).
		WithPowerUps(s.economy.Inventory())

	s.publish()
	s.schedule(delay, s.afterFeedback)
}

func (s *Session) afterFeedback() {
	s.feedbackPending = false
	if !s.state.IsGameActive {
		return
	}
	if s.state.LivesRemaining() == 0 {
		s.endGame(s.ctx)
		return
	}
	s.nextChallenge(s.ctx)
}

func (s *Session) onTick(tick timer.Tick) {
	if !s.state.IsGameActive {
		return
	}
	s.state = s.state.WithTimeRemaining(tick.Remaining)
	if tick.Expired {
		if err := s.HandleTimeExpired(s.ctx); err != nil {
			s.logger.Warn("Session %s ignored expired timer: %v", s.id, err)
			s.publish()
		}
		return
	}
	s.publish()
}

// UsePowerUp spends one power-up of kind on the current challenge.
func (s *Session) UsePowerUp(ctx context.Context, kind types.PowerUpKind) error {
	if s.status != types.StatusActive {
		return ErrNotActive
	}
	if s.feedbackPending {
		return ErrFeedbackPending
	}

	switch kind {
	case types.PowerUpExtraTime:
		if err := s.economy.ApplyExtraTime(s.timer); err != nil {
			return fmt.Errorf("failed to use %s: %w", kind, err)
		}
		s.state = s.state.
			WithTimeRemaining(s.timer.Remaining()).
			WithPowerUps(s.economy.Inventory())
		s.play(ctx, audio.CuePowerUp)
		s.publish()
	case types.PowerUpSkip:
		if err := s.economy.ApplySkip(s.challenge != nil); err != nil {
			return fmt.Errorf("failed to use %s: %w", kind, err)
		}
		s.feedbackPending = true
		s.timer.Stop()
		s.state = s.state.
			WithLabelUsed(s.challenge.CorrectLabel).
			WithPowerUps(s.economy.Inventory())
		s.play(ctx, audio.CuePowerUp)
		s.publish()
		s.schedule(s.tuning.SkipDelay, s.afterFeedback)
	default:
		return fmt.Errorf("failed to use %s: %w", kind, powerups.ErrUnsupported)
	}
	return nil
}

// PauseGame suspends the countdown. It reports whether anything changed.
func (s *Session) PauseGame() bool {
	if s.status != types.StatusActive {
		return false
	}
	s.status = types.StatusPaused
	s.timer.Pause()
	s.publish()
	return true
}

// ResumeGame continues a paused countdown. It reports whether anything changed.
func (s *Session) ResumeGame() bool {
	if s.status != types.StatusPaused {
		return false
	}
	s.status = types.StatusActive
	s.timer.Resume()
	s.publish()
	return true
}

// EndGame stops an active or paused game.
func (s *Session) EndGame(ctx context.Context) error {
	if s.status != types.StatusActive && s.status != types.StatusPaused {
		return ErrNotActive
	}
	s.endGame(ctx)
	return nil
}

func (s *Session) endGame(ctx context.Context) {
	s.clearRound()
	s.state = s.state.Ended()
	s.status = types.StatusEnded
	s.play(ctx, audio.CueGameOver)
	s.logger.Info("Session %s ended with score %d (%d/%d correct)", s.id, s.state.Score, s.state.CorrectAnswers, s.state.TotalQuestions)

	if s.state.Score > s.highScore {
		s.highScore = s.state.Score
		s.saveHighScore(ctx)
	}
	s.recordResult()
	s.publish()
}

func (s *Session) saveHighScore(ctx context.Context) {
	if s.scores == nil || !s.persistence {
		return
	}
	ctx, span := s.tracer.Start(ctx, "session.SaveHighScore", trace.WithAttributes(attribute.Int("score", s.highScore)))
	defer span.End()
	if err := s.scores.SaveHighScore(ctx, s.highScore); err != nil {
		span.RecordError(err)
		s.sink.Record(resilience.KindStorage, "failed to save high score", resilience.SeverityLow, err)
	}
}

func (s *Session) recordResult() {
	if s.history == nil || !s.persistence {
		return
	}
	s.history.Submit(&models.SessionResult{
		SessionID:      s.id,
		Score:          s.state.Score,
		CorrectAnswers: s.state.CorrectAnswers,
		TotalQuestions: s.state.TotalQuestions,
		Phase:          string(s.state.CurrentPhase),
		StartedAt:      s.state.SessionStart,
		EndedAt:        s.now(),
	})
}

// Reset abandons the current game and restores the initial state. An
// uninitialized session stays uninitialized.
func (s *Session) Reset() {
	s.clearRound()
	s.economy.Reset()
	s.state = types.NewGameState(s.tuning.ChallengeSeconds, s.economy.Inventory())
	if s.status != types.StatusUninitialized {
		s.status = types.StatusInitialized
	}
	s.publish()
}

// clearRound stops everything tied to the current challenge.
func (s *Session) clearRound() {
	s.timer.Stop()
	if s.pending != nil {
		s.pending()
		s.pending = nil
	}
	if s.cancelPrefetch != nil {
		s.cancelPrefetch()
		s.cancelPrefetch = nil
	}
	s.challenge = nil
	s.challengeSeq++
	s.feedbackPending = false
	s.feedback = types.FeedbackNone
	s.pickedSlot = types.NoSlot
}

// RecoverFromError clears recovery mode and applies the recovery that fits
// kind.
func (s *Session) RecoverFromError(ctx context.Context, kind resilience.Kind) {
	s.tracker.Recover(kind)
	switch kind {
	case resilience.KindNetwork:
	case resilience.KindGameLogic:
		if s.status != types.StatusActive && s.status != types.StatusPaused {
			s.Reset()
			return
		}
	case resilience.KindStorage:
		s.persistence = false
	case resilience.KindAudio:
		s.player = audio.Silent{}
		s.audioEnabled = false
	case resilience.KindInitialization:
	default:
		// the tracker already cleared every error field and the caches;
		// the game itself carries on
	}
	s.logger.Info("Session %s recovered from %s error", s.id, kind)
	s.publish()
}

func (s *Session) play(ctx context.Context, cue audio.Cue) {
	if err := s.player.Play(ctx, cue); err != nil {
		s.sink.Record(resilience.KindAudio, fmt.Sprintf("failed to play %s", cue), resilience.SeverityLow, err)
	}
}

// schedule runs fn after d unless the round is cleared first. Only one
// delayed transition is pending at a time.
func (s *Session) schedule(d time.Duration, fn func()) {
	if s.pending != nil {
		s.pending()
	}
	s.pending = s.scheduler.AfterFunc(d, func() {
		s.pending = nil
		fn()
	})
}
