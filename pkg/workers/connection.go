package workers

import (
	"context"

	gametypes "github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/cbodonnell/breedadventure/pkg/log"
	"github.com/cbodonnell/breedadventure/pkg/messages"
	"github.com/cbodonnell/breedadventure/pkg/network"
)

// SnapshotSource returns the latest snapshot of a session.
type SnapshotSource interface {
	Snapshot(ctx context.Context, sessionID string) (gametypes.Snapshot, error)
}

type ConnectionEventWorker struct {
	clientEventChan <-chan network.ClientEvent
	snapshots       SnapshotSource
	sender          MessageSender
}

type NewConnectionEventWorkerOptions struct {
	ClientEventChan <-chan network.ClientEvent
	Snapshots       SnapshotSource
	Sender          MessageSender
}

// NewConnectionEventWorker creates a new ConnectionEventWorker.
// The worker processes client events like connect and disconnect and sends
// a newly subscribed feed the session's current snapshot, so it does not
// wait for the next transition to render.
func NewConnectionEventWorker(opts NewConnectionEventWorkerOptions) *ConnectionEventWorker {
	return &ConnectionEventWorker{
		clientEventChan: opts.ClientEventChan,
		snapshots:       opts.Snapshots,
		sender:          opts.Sender,
	}
}

func (w *ConnectionEventWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.clientEventChan:
			switch event.Type {
			case network.ClientEventTypeConnect:
				w.handleClientConnect(ctx, event)
			case network.ClientEventTypeDisconnect:
				log.Debug("Client %d left session %s", event.ClientID, event.SessionID)
			default:
				log.Error("Unknown client event type: %v", event.Type)
			}
		}
	}
}

func (w *ConnectionEventWorker) handleClientConnect(ctx context.Context, event network.ClientEvent) {
	log.Debug("Client %d joined session %s", event.ClientID, event.SessionID)
	snapshot, err := w.snapshots.Snapshot(ctx, event.SessionID)
	if err != nil {
		log.Warn("Failed to get snapshot of session %s for client %d: %v", event.SessionID, event.ClientID, err)
		return
	}
	msg, err := messages.NewSnapshotMessage(snapshot)
	if err != nil {
		log.Error("Failed to build snapshot message: %v", err)
		return
	}
	if _, err := w.sender.SendMessageToSession(msg); err != nil {
		log.Error("Failed to send snapshot of session %s: %v", event.SessionID, err)
	}
}
