package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cbodonnell/breedadventure/pkg/log"
	"github.com/cbodonnell/breedadventure/pkg/messages"
	"github.com/cbodonnell/breedadventure/pkg/queue"
	"nhooyr.io/websocket"
)

const (
	// DefaultWriteTimeout bounds a single websocket write
	DefaultWriteTimeout = 5 * time.Second
)

// NetworkManager serves session feeds over websocket. Snapshots flow out to
// every subscriber of a session; commands flow in onto MessageQueue.
type NetworkManager struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue[*messages.Message]
	writeTimeout  time.Duration
	logger        *log.Logger
}

type NewNetworkManagerOptions struct {
	ClientManager *ClientManager
	MessageQueue  queue.Queue[*messages.Message]
	WriteTimeout  time.Duration
}

func NewNetworkManager(opts NewNetworkManagerOptions) *NetworkManager {
	if opts.ClientManager == nil {
		opts.ClientManager = NewClientManager()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	return &NetworkManager{
		ClientManager: opts.ClientManager,
		MessageQueue:  opts.MessageQueue,
		writeTimeout:  opts.WriteTimeout,
		logger:        log.With("network"),
	}
}

// ServeSession upgrades the request and subscribes the connection to
// sessionID until either side closes it.
func (n *NetworkManager) ServeSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		n.logger.Error("Failed to upgrade to WebSocket: %v", err)
		return
	}
	conn.SetReadLimit(messages.MessageBufferSize)

	client, err := n.ClientManager.ConnectClient(sessionID, conn)
	if err != nil {
		n.logger.Error("Failed to connect client: %v", err)
		conn.Close(websocket.StatusInternalError, "failed to register client")
		return
	}
	n.logger.Info("Client %d subscribed to session %s", client.ID, sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer func() {
		cancel()
		n.ClientManager.DisconnectClient(client.ID)
		conn.Close(websocket.StatusNormalClosure, "")
		n.logger.Info("Client %d disconnected", client.ID)
	}()

	go n.writeLoop(ctx, client)
	n.readLoop(ctx, client)
}

func (n *NetworkManager) readLoop(ctx context.Context, client *Client) {
	for {
		message, err := ReadMessageFromWS(ctx, client.WSConn)
		if err != nil {
			if !isNormalClose(err) && !errors.Is(err, context.Canceled) {
				n.logger.Debug("Error reading WebSocket message from client %d: %v", client.ID, err)
			}
			return
		}
		n.handleMessage(ctx, client, message)
	}
}

func (n *NetworkManager) writeLoop(ctx context.Context, client *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case b, ok := <-client.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, n.writeTimeout)
			err := client.WSConn.Write(writeCtx, websocket.MessageBinary, b)
			cancel()
			if err != nil {
				n.logger.Warn("Failed to write to client %d: %v", client.ID, err)
				client.WSConn.Close(websocket.StatusPolicyViolation, "write failed")
				return
			}
		}
	}
}

func (n *NetworkManager) handleMessage(ctx context.Context, client *Client, message *messages.Message) {
	// clients only ever talk about the session they subscribed to
	message.SessionID = client.SessionID

	switch message.Type {
	case messages.MessageTypeClientPing:
		pong := &messages.Message{
			SessionID: client.SessionID,
			Type:      messages.MessageTypeServerPong,
		}
		if err := n.sendToClient(client, pong); err != nil {
			n.logger.Warn("Failed to send pong to client %d: %v", client.ID, err)
		}
	case messages.MessageTypeClientCommand:
		if n.MessageQueue == nil {
			n.logger.Warn("Dropping command from client %d: no message queue", client.ID)
			return
		}
		if !n.MessageQueue.Enqueue(message) {
			n.logger.Error("Failed to enqueue command from client %d: queue full", client.ID)
		}
	default:
		n.logger.Warn("Unexpected message type %s from client %d", message.Type, client.ID)
	}
}

func (n *NetworkManager) sendToClient(client *Client, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return err
	}
	select {
	case client.send <- b:
		return nil
	default:
		return fmt.Errorf("send buffer full")
	}
}

// SendMessageToSession delivers msg to every subscriber of its session and
// returns the number of clients it was queued for.
func (n *NetworkManager) SendMessageToSession(msg *messages.Message) (int, error) {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize message: %v", err)
	}
	return n.ClientManager.Enqueue(msg.SessionID, b), nil
}
