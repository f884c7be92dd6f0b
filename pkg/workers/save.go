package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/breedadventure/pkg/log"
	"github.com/cbodonnell/breedadventure/pkg/repositories"
	"github.com/cbodonnell/breedadventure/pkg/repositories/models"
	"github.com/cbodonnell/breedadventure/pkg/resilience"
)

// SaveResultChannelSize is the number of finished sessions buffered for saving
const SaveResultChannelSize = 64

type SaveResultWorker struct {
	repository     repositories.HistoryRepository
	saveResultChan chan *models.SessionResult
	sink           resilience.ErrorSink
	timeout        time.Duration
}

type NewSaveResultWorkerOptions struct {
	Repository repositories.HistoryRepository
	// Sink receives save failures; they never reach the game.
	Sink resilience.ErrorSink
	// Timeout bounds each save. Zero means no bound.
	Timeout time.Duration
}

// NewSaveResultWorker creates a new SaveResultWorker.
// The worker saves finished sessions submitted by the game loop so that
// storage latency never stalls gameplay.
func NewSaveResultWorker(opts NewSaveResultWorkerOptions) *SaveResultWorker {
	return &SaveResultWorker{
		repository:     opts.Repository,
		saveResultChan: make(chan *models.SessionResult, SaveResultChannelSize),
		sink:           opts.Sink,
		timeout:        opts.Timeout,
	}
}

// Submit queues result for saving. It never blocks and reports false when
// the buffer is full.
func (w *SaveResultWorker) Submit(result *models.SessionResult) bool {
	select {
	case w.saveResultChan <- result:
		return true
	default:
		log.Warn("Dropping session result %s: save queue is full", result.SessionID)
		return false
	}
}

func (w *SaveResultWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case result := <-w.saveResultChan:
			w.saveResult(ctx, result)
		}
	}
}

func (w *SaveResultWorker) saveResult(ctx context.Context, result *models.SessionResult) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	if err := w.repository.SaveSessionResult(ctx, result); err != nil {
		if w.sink != nil {
			w.sink.Record(resilience.KindStorage, "failed to save session result", resilience.SeverityLow, err)
			return
		}
		log.Error("Failed to save session result %s: %v", result.SessionID, err)
	}
}
