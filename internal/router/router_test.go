package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxycraft/gqlproxy/internal/adminapi"
	"github.com/proxycraft/gqlproxy/internal/adminstate"
	"github.com/proxycraft/gqlproxy/internal/httpproxy"
	"github.com/proxycraft/gqlproxy/internal/wsproxy"
)

func newTestMux(t *testing.T) http.Handler {
	t.Helper()
	state := adminstate.New("http://upstream", "ws://upstream", false, nil, nil)
	admin, err := adminapi.New(state)
	require.NoError(t, err)
	return New(admin, adminapi.NewWSHandler(state), httpproxy.New(state), wsproxy.New(state))
}

func TestIndexPageServed(t *testing.T) {
	mux := newTestMux(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin API")
}

func TestCORSPreflightOnAdminEndpoint(t *testing.T) {
	mux := newTestMux(t)
	req := httptest.NewRequest(http.MethodOptions, "/admin-api/graphql", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownPathIsNotFound(t *testing.T) {
	mux := newTestMux(t)
	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
