package notify_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RishithaRamesh/wolfcafeplus/internal/notify"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/contracts"
)

func TestHubScopedDelivery(t *testing.T) {
	hub := notify.NewHub()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wc, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.HandleConn(wc, strings.Split(r.URL.Query().Get("scopes"), ","))
	}))
	defer srv.Close()

	dial := func(scopes string) *websocket.Conn {
		t.Helper()
		u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?scopes=" + url.QueryEscape(scopes)
		c, _, err := websocket.DefaultDialer.Dial(u, nil)
		require.NoError(t, err)
		return c
	}
	userConn := dial(contracts.UserScope("u1"))
	defer userConn.Close()
	staffConn := dial(contracts.ScopeStaff)
	defer staffConn.Close()

	// Registration happens on the server goroutine right after the upgrade;
	// give it a moment before emitting.
	time.Sleep(200 * time.Millisecond)

	read := func(c *websocket.Conn) contracts.Event {
		t.Helper()
		require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := c.ReadMessage()
		require.NoError(t, err)
		var evt contracts.Event
		require.NoError(t, json.Unmarshal(data, &evt))
		return evt
	}

	require.NoError(t, hub.Emit(contracts.UserScope("u1"), contracts.Event{EventID: "e1", Type: contracts.EventOrderReady, OrderID: "ord-1"}))
	evt := read(userConn)
	assert.Equal(t, contracts.EventOrderReady, evt.Type)
	assert.Equal(t, "ord-1", evt.OrderID)

	require.NoError(t, hub.Emit(contracts.ScopeStaff, contracts.Event{EventID: "e2", Type: contracts.EventNewOrder, OrderID: "ord-2"}))
	evt = read(staffConn)
	// The staff connection sees the broadcast but not the user-scoped push.
	assert.Equal(t, "e2", evt.EventID)
	assert.Equal(t, contracts.EventNewOrder, evt.Type)
}
