package network

import (
	"fmt"
	"math/rand"
	"sync"

	"nhooyr.io/websocket"
)

const (
	// ClientIDMaxRetries represents the maximum number of retries when generating a unique ID
	ClientIDMaxRetries = 1024
	// ClientEventChannelSize represents the size of the client event channel
	ClientEventChannelSize = 1024
	// ClientSendBufferSize is the number of encoded messages buffered per client
	ClientSendBufferSize = 64
)

// Client is a websocket subscriber of one session.
type Client struct {
	ID        uint32
	SessionID string
	WSConn    *websocket.Conn
	send      chan []byte
}

// ClientEvent represents an event that happened to a client
type ClientEvent struct {
	ClientID  uint32
	SessionID string
	Type      ClientEventType
}

// ClientEventType represents the type of a client event
type ClientEventType int

const (
	ClientEventTypeConnect ClientEventType = iota
	ClientEventTypeDisconnect
)

// ClientManager manages connected clients
type ClientManager struct {
	clients         map[uint32]*Client
	clientsLock     sync.RWMutex
	clientEventChan chan ClientEvent
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:         make(map[uint32]*Client),
		clientEventChan: make(chan ClientEvent, ClientEventChannelSize),
	}
}

// GetClientEventChan returns a one-way channel for receiving client events
func (cm *ClientManager) GetClientEventChan() <-chan ClientEvent {
	return cm.clientEventChan
}

// ConnectClient registers conn as a subscriber of sessionID.
func (cm *ClientManager) ConnectClient(sessionID string, conn *websocket.Conn) (*Client, error) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	clientID, err := cm.generateUniqueID(ClientIDMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate a unique ID: %v", err)
	}
	client := &Client{
		ID:        clientID,
		SessionID: sessionID,
		WSConn:    conn,
		send:      make(chan []byte, ClientSendBufferSize),
	}
	cm.clients[clientID] = client
	cm.emit(ClientEvent{ClientID: clientID, SessionID: sessionID, Type: ClientEventTypeConnect})

	return client, nil
}

// DisconnectClient removes a client. Its send channel is closed so the
// writer stops.
func (cm *ClientManager) DisconnectClient(clientID uint32) {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()

	client, ok := cm.clients[clientID]
	if !ok {
		return
	}
	delete(cm.clients, clientID)
	close(client.send)
	cm.emit(ClientEvent{ClientID: clientID, SessionID: client.SessionID, Type: ClientEventTypeDisconnect})
}

// emit never blocks; events are dropped when nobody drains the channel.
func (cm *ClientManager) emit(event ClientEvent) {
	select {
	case cm.clientEventChan <- event:
	default:
	}
}

// Enqueue hands b to every client of sessionID and returns how many clients
// had room for it.
func (cm *ClientManager) Enqueue(sessionID string, b []byte) int {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()

	sent := 0
	for _, client := range cm.clients {
		if client.SessionID != sessionID {
			continue
		}
		select {
		case client.send <- b:
			sent++
		default:
		}
	}
	return sent
}

// CountForSession returns the number of subscribers of sessionID.
func (cm *ClientManager) CountForSession(sessionID string) int {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()

	count := 0
	for _, client := range cm.clients {
		if client.SessionID == sessionID {
			count++
		}
	}
	return count
}

func (cm *ClientManager) Exists(clientID uint32) bool {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	_, ok := cm.clients[clientID]
	return ok
}

func (cm *ClientManager) generateUniqueID(maxRetries int) (uint32, error) {
	for i := 0; i < maxRetries; i++ {
		id := rand.Uint32()
		if id == 0 {
			continue
		}
		if _, ok := cm.clients[id]; !ok {
			return id, nil
		}
	}
	return 0, fmt.Errorf("failed to generate a unique ID after %d retries", maxRetries)
}
