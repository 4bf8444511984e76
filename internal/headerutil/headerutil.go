// Package headerutil bridges net/http's header representation and the
// proxy's own order-preserving model.Headers, and carries the
// hop-by-hop prohibition lists used on each proxied leg.
package headerutil

import (
	"net/http"

	"github.com/proxycraft/gqlproxy/internal/model"
)

// FromHTTPHeader copies an http.Header into an order-preserving
// model.Headers. http.Header itself does not preserve insertion order
// across distinct header names, only the order of values for a single
// name, so the snapshot reflects Go's map iteration for cross-name
// ordering; same-name multi-values keep their original order.
func FromHTTPHeader(h http.Header) *model.Headers {
	out := model.NewHeaders()
	for name, values := range h {
		for _, v := range values {
			out.Append(name, v)
		}
	}
	return out
}

// ToHTTPHeader renders a model.Headers back into an http.Header for
// use with net/http request/response plumbing.
func ToHTTPHeader(h *model.Headers) http.Header {
	out := make(http.Header)
	for _, entry := range h.All() {
		out.Add(entry.Name, entry.Value)
	}
	return out
}

// HTTPRequestProhibitedToServer are the headers stripped before a
// client's HTTP GraphQL request is forwarded to the upstream.
var HTTPRequestProhibitedToServer = model.ProhibitedSet("host", "content-length", "content-type")

// HTTPResponseProhibitedToClient is intentionally empty: the open
// question of whether hop-by-hop response headers (e.g.
// content-length) should also be stripped toward the client is
// resolved by preserving source behavior (see DESIGN.md).
var HTTPResponseProhibitedToClient = model.ProhibitedSet()

// WSRequestProhibitedToServer are the headers stripped before a
// client's WS upgrade request is forwarded to the upstream.
var WSRequestProhibitedToServer = model.ProhibitedSet(
	"host", "content-length", "connection", "upgrade",
	"sec-websocket-key", "sec-websocket-version",
)

// WSResponseProhibitedToClient are the headers stripped from the
// upstream's WS upgrade response before it is relayed to the client.
// This module follows the stricter variant noted in spec.md's Open
// Questions and includes sec-websocket-accept.
var WSResponseProhibitedToClient = model.ProhibitedSet(
	"host", "content-length", "connection", "upgrade",
	"sec-websocket-key", "sec-websocket-extensions",
	"sec-websocket-version", "sec-websocket-accept",
)
