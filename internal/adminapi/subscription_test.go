package adminapi

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/proxycraft/gqlproxy/internal/adminstate"
	"github.com/proxycraft/gqlproxy/internal/model"
)

func TestSubscriptionStreamsFilteredMessages(t *testing.T) {
	state := adminstate.New("http://upstream", "ws://upstream", false, nil, nil)
	wsHandler := NewWSHandler(state)
	server := httptest.NewServer(wsHandler)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(wsMessage{Type: msgConnectionInit}))
	var ack wsMessage
	require.NoError(t, conn.ReadJSON(&ack))
	require.Equal(t, msgConnectionAck, ack.Type)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"id":   "1",
		"type": msgSubscribe,
		"payload": map[string]interface{}{
			"query": "subscription { messages { connectionId messageDirection } }",
			"variables": map[string]interface{}{
				"messageFilters": []interface{}{},
			},
		},
	}))

	// give the subscription goroutine time to attach before publishing.
	time.Sleep(50 * time.Millisecond)

	state.Bus().Publish(model.Message{
		ConnectionID:     model.NewConnectionID(),
		ConnectionType:   model.ConnectionTypeHTTP,
		MessageDirection: model.MessageDirectionRequest,
	})

	var next wsMessage
	require.NoError(t, conn.ReadJSON(&next))
	require.Equal(t, msgNext, next.Type)
}

func TestParseMessageFiltersRejectsUnknownFilterType(t *testing.T) {
	_, err := parseMessageFilters([]interface{}{
		map[string]interface{}{"filterType": "bogus"},
	})
	require.Error(t, err)
}

func TestParseMessageFiltersEmpty(t *testing.T) {
	filters, err := parseMessageFilters(nil)
	require.NoError(t, err)
	require.Empty(t, filters)
}
