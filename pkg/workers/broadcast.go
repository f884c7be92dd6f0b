package workers

import (
	"context"

	gametypes "github.com/cbodonnell/breedadventure/pkg/game/types"
	"github.com/cbodonnell/breedadventure/pkg/log"
	"github.com/cbodonnell/breedadventure/pkg/messages"
)

// BroadcastChannelSize is the number of snapshots buffered for broadcast
const BroadcastChannelSize = 256

// MessageSender delivers a message to the subscribers of its session.
type MessageSender interface {
	SendMessageToSession(msg *messages.Message) (int, error)
}

type BroadcastMessageWorker struct {
	sender       MessageSender
	snapshotChan chan gametypes.Snapshot
	outgoingChan chan *messages.Message
}

type NewBroadcastMessageWorkerOptions struct {
	Sender MessageSender
}

// NewBroadcastMessageWorker creates a worker that encodes snapshots and
// messages published by the game loop and sends them to the network.
func NewBroadcastMessageWorker(opts NewBroadcastMessageWorkerOptions) *BroadcastMessageWorker {
	return &BroadcastMessageWorker{
		sender:       opts.Sender,
		snapshotChan: make(chan gametypes.Snapshot, BroadcastChannelSize),
		outgoingChan: make(chan *messages.Message, BroadcastChannelSize),
	}
}

// Publish queues a snapshot for broadcast. It is safe to use as a session
// observer; it never blocks.
func (w *BroadcastMessageWorker) Publish(snapshot gametypes.Snapshot) {
	select {
	case w.snapshotChan <- snapshot:
	default:
		log.Warn("Dropping snapshot %d of session %s: broadcast queue is full", snapshot.Sequence, snapshot.SessionID)
	}
}

// Send queues an already built message for broadcast.
func (w *BroadcastMessageWorker) Send(msg *messages.Message) {
	select {
	case w.outgoingChan <- msg:
	default:
		log.Warn("Dropping %s message for session %s: broadcast queue is full", msg.Type, msg.SessionID)
	}
}

func (w *BroadcastMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot := <-w.snapshotChan:
			msg, err := messages.NewSnapshotMessage(snapshot)
			if err != nil {
				log.Error("Failed to build snapshot message: %v", err)
				continue
			}
			w.send(msg)
		case msg := <-w.outgoingChan:
			w.send(msg)
		}
	}
}

func (w *BroadcastMessageWorker) send(msg *messages.Message) {
	if _, err := w.sender.SendMessageToSession(msg); err != nil {
		log.Error("Failed to send %s message to session %s: %v", msg.Type, msg.SessionID, err)
	}
}
