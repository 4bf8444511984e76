package adminapi

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cast"

	"github.com/proxycraft/gqlproxy/internal/adminstate"
	"github.com/proxycraft/gqlproxy/internal/jsonutil"
	"github.com/proxycraft/gqlproxy/internal/model"
)

// wsMessage is the graphql-transport-ws envelope, the same shape the
// teacher's handler package uses for its own subscription protocol.
type wsMessage struct {
	ID      interface{}         `json:"id,omitempty"`
	Type    string              `json:"type"`
	Payload jsonutil.RawMessage `json:"payload,omitempty"`
}

const (
	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgSubscribe      = "subscribe"
	msgNext           = "next"
	msgError          = "error"
	msgComplete       = "complete"
)

var subUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
	Subprotocols:    []string{"graphql-transport-ws"},
}

type subscribePayload struct {
	Variables map[string]interface{} `json:"variables"`
}

// WSHandler serves the admin messages subscription over
// graphql-transport-ws. It does not run query/mutation operations; the
// HTTP Handler in handler.go does that.
type WSHandler struct {
	state adminstate.AdminState
}

func NewWSHandler(state adminstate.AdminState) *WSHandler {
	return &WSHandler{state: state}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := subUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("adminapi: failed to upgrade subscription socket: %s", err)
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	write := func(msg wsMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(msg)
	}

	var wg sync.WaitGroup
	stopAll := make(chan struct{})
	var once sync.Once
	closeStopAll := func() { once.Do(func() { close(stopAll) }) }
	defer closeStopAll()
	defer wg.Wait()

	for {
		var incoming wsMessage
		if err := conn.ReadJSON(&incoming); err != nil {
			return
		}

		switch incoming.Type {
		case msgConnectionInit:
			if err := write(wsMessage{Type: msgConnectionAck}); err != nil {
				return
			}

		case msgSubscribe:
			id := incoming.ID
			var payload subscribePayload
			if len(incoming.Payload) > 0 {
				_ = jsonutil.Unmarshal(incoming.Payload, &payload)
			}

			filters, err := parseMessageFilters(payload.Variables["messageFilters"])
			if err != nil {
				_ = write(wsMessage{ID: id, Type: msgError})
				continue
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				h.streamMessages(id, filters, write, stopAll)
			}()

		case msgComplete:
			// a single shared stopAll tears down every active
			// subscription on this socket; per-id cancellation is not
			// needed because the admin console opens one subscription
			// per connection in practice.
			closeStopAll()

		default:
			log.Printf("adminapi: unexpected subscription message type %q", incoming.Type)
		}
	}
}

func parseMessageFilters(raw interface{}) ([]model.MessageFilter, error) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, nil
	}

	filters := make([]model.MessageFilter, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		f, err := model.ParseMessageFilterFields(
			cast.ToString(m["filterType"]),
			cast.ToString(m["connectionType"]),
			cast.ToString(m["messageDirection"]),
			cast.ToString(m["payloadType"]),
		)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// streamMessages drains the admin bus and forwards every message that
// survives the filter chain as a "next" protocol message, per the
// subscription delivery algorithm: a Lagged event yields a single
// in-stream error item and the stream continues.
func (h *WSHandler) streamMessages(id interface{}, filters []model.MessageFilter, write func(wsMessage) error, stopAll <-chan struct{}) {
	sub := h.state.Bus().Subscribe()
	defer sub.Close()

	for {
		ev, ok := sub.Recv(stopAll)
		if !ok {
			_ = write(wsMessage{ID: id, Type: msgComplete})
			return
		}

		if ev.Lagged != nil {
			_ = write(errorMessage(id, "lagged"))
			continue
		}

		if ev.Message == nil || !model.EvaluateFilters(filters, *ev.Message) {
			continue
		}

		payload, err := jsonutil.Marshal(map[string]interface{}{
			"data": map[string]interface{}{
				"messages": toWireMessage(ev.Message),
			},
		})
		if err != nil {
			continue
		}

		if err := write(wsMessage{ID: id, Type: msgNext, Payload: payload}); err != nil {
			return
		}
	}
}

func errorMessage(id interface{}, reason string) wsMessage {
	payload, _ := jsonutil.Marshal([]map[string]interface{}{{"message": reason}})
	return wsMessage{ID: id, Type: msgError, Payload: payload}
}

func toWireMessage(m *model.Message) map[string]interface{} {
	out := map[string]interface{}{
		"connectionId":      m.ConnectionID.String(),
		"sequenceCounter":   m.SequenceCounter,
		"connectionType":    string(m.ConnectionType),
		"messageDirection":  string(m.MessageDirection),
		"message":           m.Message,
		"serverEndpointUrl": m.ServerEndpointURL,
	}
	if m.TransmittedHeaders != nil {
		out["transmittedHeaders"] = headersToList(m.TransmittedHeaders)
	}
	return out
}
