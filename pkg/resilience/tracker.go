package resilience

import (
	"fmt"

	"github.com/cbodonnell/breedadventure/pkg/game/constants"
	"github.com/cbodonnell/breedadventure/pkg/game/types"
)

// CacheController is the part of the image cache recovery needs.
type CacheController interface {
	ResetFailedRefs()
	ClearCache()
}

// Tracker counts runtime failures and owns the recovery mode flag. The
// counter is only cleared by Recover.
type Tracker struct {
	consecutiveFailures int
	inRecovery          bool
	lastError           string
	failedImages        []string
	threshold           int
	historySize         int
	sink                ErrorSink
	cache               CacheController
}

type NewTrackerOptions struct {
	Threshold   int
	HistorySize int
	Sink        ErrorSink
	Cache       CacheController
}

func NewTracker(opts NewTrackerOptions) *Tracker {
	if opts.Threshold <= 0 {
		opts.Threshold = constants.FailureThreshold
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = constants.FailedImageHistory
	}
	return &Tracker{
		threshold:   opts.Threshold,
		historySize: opts.HistorySize,
		sink:        opts.Sink,
		cache:       opts.Cache,
	}
}

// State returns a copy of the observable state.
func (t *Tracker) State() types.ResilienceState {
	return types.ResilienceState{
		ConsecutiveFailures: t.consecutiveFailures,
		IsInRecoveryMode:    t.inRecovery,
		LastError:           t.lastError,
		FailedImages:        append([]string(nil), t.failedImages...),
	}
}

func (t *Tracker) InRecoveryMode() bool {
	return t.inRecovery
}

// RecordImageFailure counts a failed image load and remembers the reference.
func (t *Tracker) RecordImageFailure(ref string, err error) {
	t.failedImages = append(t.failedImages, ref)
	if len(t.failedImages) > t.historySize {
		t.failedImages = t.failedImages[len(t.failedImages)-t.historySize:]
	}
	t.recordFailure(fmt.Sprintf("image %s failed to load", ref), err)
}

// RecordNetworkFailure counts a failed service call.
func (t *Tracker) RecordNetworkFailure(message string, err error) {
	t.recordFailure(message, err)
}

// RecordGameLogicFailure reports missing or inconsistent game content. It
// is shown as the last error but does not count toward recovery mode.
func (t *Tracker) RecordGameLogicFailure(message string, err error) {
	if err != nil {
		t.lastError = err.Error()
	} else {
		t.lastError = message
	}
	t.sink.Record(KindGameLogic, message, SeverityMedium, err)
}

func (t *Tracker) recordFailure(message string, err error) {
	t.consecutiveFailures++
	if err != nil {
		t.lastError = err.Error()
	} else {
		t.lastError = message
	}
	t.sink.Record(KindNetwork, message, SeverityLow, err)
	if t.consecutiveFailures >= t.threshold {
		t.EnterRecoveryMode(fmt.Sprintf("%d consecutive failures", t.consecutiveFailures), err)
	}
}

// EnterRecoveryMode sets the recovery flag and lets the image cache retry
// blocked references. Entering again while recovering is a no-op.
func (t *Tracker) EnterRecoveryMode(reason string, cause error) {
	if t.inRecovery {
		return
	}
	t.inRecovery = true
	if t.cache != nil {
		t.cache.ResetFailedRefs()
	}
	t.sink.Record(KindNetwork, "entering recovery mode: "+reason, SeverityHigh, cause)
}

// Fail records a fatal failure of kind and enters recovery mode.
func (t *Tracker) Fail(kind Kind, message string, cause error) {
	if cause != nil {
		t.lastError = cause.Error()
	} else {
		t.lastError = message
	}
	t.sink.Record(kind, message, SeverityCritical, cause)
	t.inRecovery = true
}

// Recover runs the error-state part of a typed recovery. Session-level
// effects are the caller's. Every kind ends with recovery mode cleared.
func (t *Tracker) Recover(kind Kind) {
	switch kind {
	case KindNetwork:
		t.resetCache()
		t.consecutiveFailures = 0
	case KindGameLogic, KindStorage, KindAudio, KindInitialization:
	default:
		t.resetCache()
		t.consecutiveFailures = 0
		t.failedImages = nil
	}
	t.inRecovery = false
	t.lastError = ""
}

func (t *Tracker) resetCache() {
	if t.cache == nil {
		return
	}
	t.cache.ClearCache()
	t.cache.ResetFailedRefs()
}
