package connectionhub

import (
	wsmodels "esign-backend/models/ws"
	"testing"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/require"
)

func TestSessions(t *testing.T) {
	t.Run("несколько вкладок пользователя", func(t *testing.T) {
		hub := NewInstance().(*impl)
		first, second := &websocket.Conn{}, &websocket.Conn{}
		hub.AddClient("user-1", first)
		hub.AddClient("user-1", second)
		require.Len(t, hub.clients["user-1"], 2)

		hub.DeleteClient("user-1", first)
		require.Len(t, hub.clients["user-1"], 1)
		require.Contains(t, hub.clients["user-1"], second)

		// повторное закрытие не трогает оставшуюся сессию
		hub.DeleteClient("user-1", first)
		require.Len(t, hub.clients["user-1"], 1)

		hub.DeleteClient("user-1", second)
		require.NotContains(t, hub.clients, "user-1")
		require.False(t, hub.IsConnected("user-1"))
	})

	t.Run("событие доставляется во все сессии", func(t *testing.T) {
		session := func(conn *websocket.Conn) clientSession {
			return clientSession{conn: conn, sendCh: make(chan any, 1), stop: func() {}}
		}
		first, second, other := &websocket.Conn{}, &websocket.Conn{}, &websocket.Conn{}
		hub := &impl{clients: map[string]map[*websocket.Conn]clientSession{
			"user-1": {first: session(first), second: session(second)},
			"user-2": {other: session(other)},
		}}

		hub.Publish("requestStatusUpdate", wsmodels.RequestStatusUpdate{RequestID: "r1", Status: "signed"})

		for _, sessions := range hub.clients {
			for _, sess := range sessions {
				require.Len(t, sess.sendCh, 1)
				msg := (<-sess.sendCh).(wsmodels.ServerMessage)
				require.Equal(t, "requestStatusUpdate", msg.Event)
			}
		}

		// переполненный буфер одной сессии не мешает остальным
		hub.clients["user-1"][first].sendCh <- "занято"
		hub.Publish("signingProgress", nil)
		require.Len(t, hub.clients["user-1"][second].sendCh, 1)
		require.Len(t, hub.clients["user-2"][other].sendCh, 1)
	})
}
