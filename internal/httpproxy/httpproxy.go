// Package httpproxy implements the HTTP leg of the GraphQL proxy: it
// accepts a GraphQL-over-HTTP POST, mirrors the exchange onto the admin
// broadcast bus, enforces the mutation gate, and forwards the request to
// the configured upstream.
package httpproxy

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/proxycraft/gqlproxy/internal/adminstate"
	"github.com/proxycraft/gqlproxy/internal/apperror"
	"github.com/proxycraft/gqlproxy/internal/gqlparse"
	"github.com/proxycraft/gqlproxy/internal/headerutil"
	"github.com/proxycraft/gqlproxy/internal/jsonutil"
	"github.com/proxycraft/gqlproxy/internal/model"
)

// Handler serves the proxied HTTP GraphQL endpoint.
type Handler struct {
	State  adminstate.AdminState
	Client *http.Client
}

// New constructs a Handler with a sane default HTTP client.
func New(state adminstate.AdminState) *Handler {
	return &Handler{
		State:  state,
		Client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusOK, model.ErrorResponse((&apperror.ProxyTransportError{Err: err}).Error()))
		return
	}

	// step 1: mint connection id, sequence starts at 0.
	connID := model.NewConnectionID()
	var seq uint64

	// step 2: outbound request headers, hop-by-hop stripped then admin overlay applied.
	outbound := headerutil.FromHTTPHeader(r.Header)
	stripped := model.NewHeaders()
	model.MoveAndReplace(stripped, outbound, headerutil.HTTPRequestProhibitedToServer)
	requestOverlay := h.State.RequestHeadersSnapshot()
	model.MoveAndReplace(stripped, requestOverlay, model.ProhibitedSet())

	// step 3: resolve upstream URL.
	endpoints := h.State.ServerEndpoints()

	// step 4: emit REQUEST message, then advance the counter.
	var requestPayload interface{}
	if h.State.Bus().SubscriberCount() > 0 {
		if jsonErr := jsonutil.Unmarshal(body, &requestPayload); jsonErr != nil {
			requestPayload = string(body)
		}
	}
	h.publish(connID, seq, model.MessageDirectionRequest, requestPayload, stripped.Clone(), endpoints.GraphQLEndpoint)
	seq++

	// step 5: parse the query.
	var gqlReq model.GraphQLRequest
	if err := jsonutil.Unmarshal(body, &gqlReq); err != nil {
		writeJSON(w, http.StatusOK, model.ErrorResponse(err.Error()))
		return
	}
	doc, err := gqlparse.Parse(gqlReq.Query)
	if err != nil {
		writeJSON(w, http.StatusOK, model.ErrorResponse(err.Error()))
		return
	}

	// step 6: enforce the mutation gate.
	if h.State.ProhibitMutation() && doc.IsMutation(gqlReq.OperationName) {
		writeJSON(w, http.StatusOK, model.ErrorResponse(apperror.MutationsProhibitedError().Error()))
		return
	}

	// step 7: forward to upstream.
	upstreamReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, endpoints.GraphQLEndpoint, bytes.NewReader(body))
	if err != nil {
		writeJSON(w, http.StatusOK, model.ErrorResponse((&apperror.ProxyTransportError{Err: err}).Error()))
		return
	}
	upstreamReq.Header = headerutil.ToHTTPHeader(stripped)
	upstreamReq.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(upstreamReq)
	if err != nil {
		writeJSON(w, http.StatusOK, model.ErrorResponse((&apperror.ProxyTransportError{Err: err}).Error()))
		return
	}
	defer resp.Body.Close()

	// step 8: build client-facing headers.
	respHeaders := headerutil.FromHTTPHeader(resp.Header)
	clientHeaders := model.NewHeaders()
	model.MoveAndReplace(clientHeaders, respHeaders, headerutil.HTTPResponseProhibitedToClient)
	responseOverlay := h.State.ResponseHeadersSnapshot()
	model.MoveAndReplace(clientHeaders, responseOverlay, model.ProhibitedSet())

	// step 9: read upstream body, emit RESPONSE message.
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		writeJSON(w, http.StatusOK, model.ErrorResponse((&apperror.ProxyTransportError{Err: err}).Error()))
		return
	}

	var responsePayload interface{}
	if h.State.Bus().SubscriberCount() > 0 {
		if jsonErr := jsonutil.Unmarshal(respBody, &responsePayload); jsonErr != nil {
			responsePayload = string(respBody)
		}
	}
	h.publish(connID, seq, model.MessageDirectionResponse, responsePayload, clientHeaders.Clone(), endpoints.GraphQLEndpoint)

	// step 10: return headers + body to client.
	for _, entry := range clientHeaders.All() {
		w.Header().Add(entry.Name, entry.Value)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(respBody)
}

func (h *Handler) publish(connID model.ConnectionID, seq uint64, direction model.MessageDirection, payload interface{}, headers *model.Headers, endpointURL string) {
	if h.State.Bus().SubscriberCount() == 0 {
		return
	}
	h.State.Bus().Publish(model.Message{
		ConnectionID:       connID,
		SequenceCounter:    seq,
		ConnectionType:     model.ConnectionTypeHTTP,
		MessageDirection:   direction,
		Message:            payload,
		TransmittedHeaders: headers,
		ServerEndpointURL:  endpointURL,
	})
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
