package messages

import (
	"encoding/json"
	"fmt"

	gametypes "github.com/cbodonnell/breedadventure/pkg/game/types"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 64 * 1024
)

type MessageType byte

// Message types
const (
	MessageTypeServerSnapshot MessageType = iota + 1
	MessageTypeServerError
	MessageTypeClientCommand
	MessageTypeClientPing
	MessageTypeServerPong
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeServerSnapshot:
		return "snapshot"
	case MessageTypeServerError:
		return "error"
	case MessageTypeClientCommand:
		return "command"
	case MessageTypeClientPing:
		return "ping"
	case MessageTypeServerPong:
		return "pong"
	default:
		return fmt.Sprintf("unknown(%d)", byte(t))
	}
}

// Message represents a generic message for serialization/deserialization
type Message struct {
	SessionID string          `json:"sessionID"`
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

// CommandAction names a player command on a session.
type CommandAction string

const (
	CommandInitialize CommandAction = "initialize"
	CommandStart      CommandAction = "start"
	CommandSelect     CommandAction = "select"
	CommandPowerUp    CommandAction = "powerUp"
	CommandPause      CommandAction = "pause"
	CommandResume     CommandAction = "resume"
	CommandReset      CommandAction = "reset"
	CommandEnd        CommandAction = "end"
	CommandRecover    CommandAction = "recover"
)

// Command is the payload of a client command message and the body of the
// matching HTTP requests.
type Command struct {
	Action CommandAction `json:"action"`
	// Slot is the picked image for select
	Slot int `json:"slot,omitempty"`
	// Kind is the power-up kind or the error kind to recover from
	Kind string `json:"kind,omitempty"`
}

// ServerError is the payload of an error message.
type ServerError struct {
	Action CommandAction `json:"action,omitempty"`
	Reason string        `json:"reason"`
}

// NewSnapshotMessage wraps snapshot into a message for its session.
func NewSnapshotMessage(snapshot gametypes.Snapshot) (*Message, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %v", err)
	}
	return &Message{
		SessionID: snapshot.SessionID,
		Type:      MessageTypeServerSnapshot,
		Payload:   payload,
	}, nil
}

// NewErrorMessage reports a failed command to a session's clients.
func NewErrorMessage(sessionID string, action CommandAction, cause error) (*Message, error) {
	payload, err := json.Marshal(&ServerError{Action: action, Reason: cause.Error()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal server error: %v", err)
	}
	return &Message{
		SessionID: sessionID,
		Type:      MessageTypeServerError,
		Payload:   payload,
	}, nil
}

func NewCommandMessage(sessionID string, command *Command) (*Message, error) {
	payload, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %v", err)
	}
	return &Message{
		SessionID: sessionID,
		Type:      MessageTypeClientCommand,
		Payload:   payload,
	}, nil
}

// DecodeSnapshot reads the snapshot carried by a snapshot message.
func DecodeSnapshot(m *Message) (gametypes.Snapshot, error) {
	snapshot := gametypes.Snapshot{}
	if m.Type != MessageTypeServerSnapshot {
		return snapshot, fmt.Errorf("message type %s is not a snapshot", m.Type)
	}
	if err := json.Unmarshal(m.Payload, &snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to unmarshal snapshot: %v", err)
	}
	return snapshot, nil
}

// DecodeCommand reads the command carried by a client command message.
func DecodeCommand(m *Message) (*Command, error) {
	if m.Type != MessageTypeClientCommand {
		return nil, fmt.Errorf("message type %s is not a command", m.Type)
	}
	command := &Command{}
	if err := json.Unmarshal(m.Payload, command); err != nil {
		return nil, fmt.Errorf("failed to unmarshal command: %v", err)
	}
	return command, nil
}
