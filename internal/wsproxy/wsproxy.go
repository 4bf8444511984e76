// Package wsproxy implements the WebSocket leg of the GraphQL proxy: it
// upgrades the client connection, dials a parallel upstream connection,
// and pumps frames between the two while mirroring each onto the admin
// broadcast bus.
package wsproxy

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/proxycraft/gqlproxy/internal/adminstate"
	"github.com/proxycraft/gqlproxy/internal/apperror"
	"github.com/proxycraft/gqlproxy/internal/headerutil"
	"github.com/proxycraft/gqlproxy/internal/jsonutil"
	"github.com/proxycraft/gqlproxy/internal/model"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
	Subprotocols:    []string{"graphql-transport-ws"},
}

var dialer = websocket.Dialer{
	HandshakeTimeout: 10 * time.Second,
}

// Handler serves the proxied WebSocket GraphQL endpoint.
type Handler struct {
	State adminstate.AdminState
}

func New(state adminstate.AdminState) *Handler {
	return &Handler{State: state}
}

// syncConn serializes writes to a *websocket.Conn, since gorilla allows
// only one concurrent writer per connection.
type syncConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *syncConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	endpoints := h.State.ServerEndpoints()

	// step 1: build upstream-facing headers.
	outbound := headerutil.FromHTTPHeader(r.Header)
	stripped := model.NewHeaders()
	model.MoveAndReplace(stripped, outbound, headerutil.WSRequestProhibitedToServer)
	requestOverlay := h.State.RequestHeadersSnapshot()
	model.MoveAndReplace(stripped, requestOverlay, model.ProhibitedSet())

	// step 2: mint connection id and the shared sequence counter.
	connID := model.NewConnectionID()
	var seq SequenceCounter

	// step 3: emit the synthetic REQUEST message.
	h.publish(connID, seq.Next(), model.MessageDirectionRequest, nil, stripped.Clone(), endpoints.GraphQLWSEndpoint)

	// step 4: connect upstream.
	upstreamConn, upstreamResp, err := dialer.Dial(endpoints.GraphQLWSEndpoint, headerutil.ToHTTPHeader(stripped))
	if err != nil {
		writeJSON(w, http.StatusOK, model.ErrorResponse((&apperror.ProxyTransportError{Err: err}).Error()))
		return
	}
	defer upstreamConn.Close()
	if upstreamResp != nil {
		defer upstreamResp.Body.Close()
	}

	// step 5: build the client-facing upgrade response headers.
	clientHeaders := model.NewHeaders()
	if upstreamResp != nil {
		upstreamRespHeaders := headerutil.FromHTTPHeader(upstreamResp.Header)
		model.MoveAndReplace(clientHeaders, upstreamRespHeaders, headerutil.WSResponseProhibitedToClient)
	}
	responseOverlay := h.State.ResponseHeadersSnapshot()
	model.MoveAndReplace(clientHeaders, responseOverlay, model.ProhibitedSet())

	clientConn, err := upgrader.Upgrade(w, r, headerutil.ToHTTPHeader(clientHeaders))
	if err != nil {
		log.Printf("wsproxy: failed to upgrade client connection: %s", err)
		return
	}
	defer clientConn.Close()

	// step 6: emit the synthetic RESPONSE message.
	h.publish(connID, seq.Next(), model.MessageDirectionResponse, nil, clientHeaders.Clone(), endpoints.GraphQLWSEndpoint)

	h.pump(connID, &seq, endpoints.GraphQLWSEndpoint, clientConn, upstreamConn)
}

// SequenceCounter is the per-connection, cross-direction atomic counter
// shared by both pump tasks: monotonic per direction, globally unique
// within the connection, with no ordering promise between directions.
type SequenceCounter struct {
	mu    sync.Mutex
	value uint64
}

func (c *SequenceCounter) Next() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.value
	c.value++
	return v
}

// pump runs the two directional frame-forwarding tasks and waits for
// both to finish. Either side ending closes both connections, which
// unblocks the other side's next read or write.
func (h *Handler) pump(connID model.ConnectionID, seq *SequenceCounter, endpointURL string, client, upstream *websocket.Conn) {
	clientSink := &syncConn{conn: client}
	upstreamSink := &syncConn{conn: upstream}

	done := make(chan struct{})
	var once sync.Once
	closeDone := func() {
		// closing the sockets is what actually unblocks a task parked
		// in ReadMessage; done only short-circuits the loop between reads.
		once.Do(func() {
			close(done)
			client.Close()
			upstream.Close()
		})
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		defer closeDone()
		h.forward(connID, seq, model.MessageDirectionRequest, endpointURL, client, upstreamSink, done)
	}()

	go func() {
		defer wg.Done()
		defer closeDone()
		h.forward(connID, seq, model.MessageDirectionResponse, endpointURL, upstream, clientSink, done)
	}()

	wg.Wait()
}

// forward reads frames from src, mirrors each onto the bus with
// direction, and writes it to dst, until a read error or done fires.
func (h *Handler) forward(connID model.ConnectionID, seq *SequenceCounter, direction model.MessageDirection, endpointURL string, src *websocket.Conn, dst *syncConn, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}

		typ, data, err := src.ReadMessage()
		if err != nil {
			if direction == model.MessageDirectionRequest {
				log.Printf("wsproxy: client read error: %s", err)
			} else {
				log.Printf("wsproxy: upstream read error: %s", err)
			}
			return
		}

		switch typ {
		case websocket.TextMessage:
			h.mirrorText(connID, seq, direction, endpointURL, data)
		case websocket.BinaryMessage:
			h.mirrorBinary(connID, seq, direction, endpointURL, data)
		case websocket.PingMessage, websocket.PongMessage, websocket.CloseMessage:
			// not mirrored to the bus, still forwarded below.
		default:
			log.Printf("wsproxy: unexpected frame type %d on read path, aborting task", typ)
			return
		}

		if err := dst.WriteMessage(typ, data); err != nil {
			return
		}
	}
}

func (h *Handler) mirrorText(connID model.ConnectionID, seq *SequenceCounter, direction model.MessageDirection, endpointURL string, data []byte) {
	if h.State.Bus().SubscriberCount() == 0 {
		return
	}
	var payload interface{}
	if err := jsonutil.Unmarshal(data, &payload); err != nil {
		payload = string(data)
	}
	h.publish(connID, seq.Next(), direction, payload, nil, endpointURL)
}

func (h *Handler) mirrorBinary(connID model.ConnectionID, seq *SequenceCounter, direction model.MessageDirection, endpointURL string, data []byte) {
	if h.State.Bus().SubscriberCount() == 0 {
		return
	}
	ints := make([]int, len(data))
	for i, b := range data {
		ints[i] = int(b)
	}
	h.publish(connID, seq.Next(), direction, ints, nil, endpointURL)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	b, err := jsonutil.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func (h *Handler) publish(connID model.ConnectionID, seq uint64, direction model.MessageDirection, payload interface{}, headers *model.Headers, endpointURL string) {
	if h.State.Bus().SubscriberCount() == 0 {
		return
	}
	h.State.Bus().Publish(model.Message{
		ConnectionID:       connID,
		SequenceCounter:    seq,
		ConnectionType:     model.ConnectionTypeWS,
		MessageDirection:   direction,
		Message:            payload,
		TransmittedHeaders: headers,
		ServerEndpointURL:  endpointURL,
	})
}
