package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/breedadventure/pkg/messages"
	"github.com/cbodonnell/breedadventure/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

func newTestServer(t *testing.T) (*NetworkManager, *queue.InMemoryQueue[*messages.Message], string) {
	t.Helper()
	q := queue.NewInMemoryQueue[*messages.Message](16)
	n := NewNetworkManager(NewNetworkManagerOptions{
		MessageQueue: q,
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.ServeSession(w, r, strings.TrimPrefix(r.URL.Path, "/"))
	}))
	t.Cleanup(server.Close)
	return n, q, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close(websocket.StatusNormalClosure, "")
	})
	return conn
}

func TestPingPong(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, _, url := newTestServer(t)
	conn := dial(t, ctx, url+"/s1")

	require.NoError(t, WriteMessageToWS(ctx, conn, &messages.Message{Type: messages.MessageTypeClientPing}))
	got, err := ReadMessageFromWS(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, messages.MessageTypeServerPong, got.Type)
	assert.Equal(t, "s1", got.SessionID)
}

func TestCommandsAreQueuedForTheSubscribedSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, q, url := newTestServer(t)
	conn := dial(t, ctx, url+"/s1")

	payload, err := json.Marshal(&messages.Command{Action: messages.CommandSelect, Slot: 1})
	require.NoError(t, err)
	require.NoError(t, WriteMessageToWS(ctx, conn, &messages.Message{
		SessionID: "someone-else",
		Type:      messages.MessageTypeClientCommand,
		Payload:   payload,
	}))

	require.Eventually(t, func() bool { return q.Size() == 1 }, 2*time.Second, 10*time.Millisecond)
	queued, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, "s1", queued.SessionID)

	command, err := messages.DecodeCommand(queued)
	require.NoError(t, err)
	assert.Equal(t, messages.CommandSelect, command.Action)
	assert.Equal(t, 1, command.Slot)
}

func TestSendMessageToSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, _, url := newTestServer(t)
	subscriber := dial(t, ctx, url+"/s1")
	dial(t, ctx, url+"/s2")

	require.Eventually(t, func() bool {
		return n.ClientManager.CountForSession("s1") == 1 && n.ClientManager.CountForSession("s2") == 1
	}, 2*time.Second, 10*time.Millisecond)

	sent, err := n.SendMessageToSession(&messages.Message{
		SessionID: "s1",
		Type:      messages.MessageTypeServerSnapshot,
		Payload:   json.RawMessage(`{"sessionId":"s1","sequence":3}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	got, err := ReadMessageFromWS(ctx, subscriber)
	require.NoError(t, err)
	snapshot, err := messages.DecodeSnapshot(got)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), snapshot.Sequence)
}

func TestDisconnectRemovesClient(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, _, url := newTestServer(t)
	conn := dial(t, ctx, url+"/s1")
	require.Eventually(t, func() bool { return n.ClientManager.CountForSession("s1") == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close(websocket.StatusNormalClosure, "")
	require.Eventually(t, func() bool { return n.ClientManager.CountForSession("s1") == 0 }, 2*time.Second, 10*time.Millisecond)
}
