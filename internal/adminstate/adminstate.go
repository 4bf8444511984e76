// Package adminstate holds the process-wide configuration every proxy
// handler reads and every admin GraphQL operation mutates: the
// upstream endpoints, the two header overlays, the mutation gate, and
// the broadcast bus handle.
package adminstate

import (
	"sync"
	"sync/atomic"

	"github.com/proxycraft/gqlproxy/internal/model"
)

// AdminState is cheaply cloneable: it wraps a pointer to its shared
// inner state, so handing copies to handler goroutines never copies
// the locks or the bus.
type AdminState struct {
	inner *innerState
}

type innerState struct {
	bus *Bus

	prohibitMutation atomic.Bool

	endpointsMu sync.RWMutex
	endpoints   model.GraphQLEndpoints

	requestHeadersMu sync.RWMutex
	requestHeaders   *model.Headers

	responseHeadersMu sync.RWMutex
	responseHeaders   *model.Headers
}

// New constructs an AdminState seeded with the initial endpoints,
// mutation-gate value, and header overlays.
func New(graphqlEndpoint, graphqlWSEndpoint string, prohibitMutation bool, requestHeaders, responseHeaders *model.Headers) AdminState {
	if requestHeaders == nil {
		requestHeaders = model.NewHeaders()
	}
	if responseHeaders == nil {
		responseHeaders = model.NewHeaders()
	}

	s := &innerState{
		bus: NewBus(),
		endpoints: model.GraphQLEndpoints{
			GraphQLEndpoint:   graphqlEndpoint,
			GraphQLWSEndpoint: graphqlWSEndpoint,
		},
		requestHeaders:  requestHeaders,
		responseHeaders: responseHeaders,
	}
	s.prohibitMutation.Store(prohibitMutation)

	return AdminState{inner: s}
}

// Bus returns the shared broadcast bus handle.
func (s AdminState) Bus() *Bus { return s.inner.bus }

// ProhibitMutation atomically reads the mutation gate.
func (s AdminState) ProhibitMutation() bool {
	return s.inner.prohibitMutation.Load()
}

// SetProhibitMutation atomically installs a new mutation-gate value
// and returns the value it replaced.
func (s AdminState) SetProhibitMutation(value bool) (previous bool) {
	return s.inner.prohibitMutation.Swap(value)
}

// ServerEndpoints takes a point-in-time snapshot of the current
// upstream endpoints.
func (s AdminState) ServerEndpoints() model.GraphQLEndpoints {
	s.inner.endpointsMu.RLock()
	defer s.inner.endpointsMu.RUnlock()
	return s.inner.endpoints
}

// SetServerEndpoints installs new upstream endpoints and returns the
// endpoints it replaced (swap semantics).
func (s AdminState) SetServerEndpoints(endpoints model.GraphQLEndpoints) (previous model.GraphQLEndpoints) {
	s.inner.endpointsMu.Lock()
	defer s.inner.endpointsMu.Unlock()
	previous = s.inner.endpoints
	s.inner.endpoints = endpoints
	return previous
}

// RequestHeadersSnapshot clones the current request-header overlay.
func (s AdminState) RequestHeadersSnapshot() *model.Headers {
	s.inner.requestHeadersMu.RLock()
	defer s.inner.requestHeadersMu.RUnlock()
	return s.inner.requestHeaders.Clone()
}

// ResponseHeadersSnapshot clones the current response-header overlay.
func (s AdminState) ResponseHeadersSnapshot() *model.Headers {
	s.inner.responseHeadersMu.RLock()
	defer s.inner.responseHeadersMu.RUnlock()
	return s.inner.responseHeaders.Clone()
}

// MutateRequestHeaders runs fn against the writer-locked request-header
// overlay, returning fn's result.
func (s AdminState) MutateRequestHeaders(fn func(*model.Headers) (string, bool)) (string, bool) {
	s.inner.requestHeadersMu.Lock()
	defer s.inner.requestHeadersMu.Unlock()
	return fn(s.inner.requestHeaders)
}

// MutateResponseHeaders runs fn against the writer-locked
// response-header overlay, returning fn's result.
func (s AdminState) MutateResponseHeaders(fn func(*model.Headers) (string, bool)) (string, bool) {
	s.inner.responseHeadersMu.Lock()
	defer s.inner.responseHeadersMu.Unlock()
	return fn(s.inner.responseHeaders)
}

// RequestHeaderByName reads a single request-overlay header.
func (s AdminState) RequestHeaderByName(name string) (string, bool) {
	s.inner.requestHeadersMu.RLock()
	defer s.inner.requestHeadersMu.RUnlock()
	return s.inner.requestHeaders.ByName(name)
}

// ResponseHeaderByName reads a single response-overlay header.
func (s AdminState) ResponseHeaderByName(name string) (string, bool) {
	s.inner.responseHeadersMu.RLock()
	defer s.inner.responseHeadersMu.RUnlock()
	return s.inner.responseHeaders.ByName(name)
}
