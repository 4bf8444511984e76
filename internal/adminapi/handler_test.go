package adminapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxycraft/gqlproxy/internal/adminstate"
)

func TestQueryProhibitMutation(t *testing.T) {
	state := adminstate.New("http://upstream", "ws://upstream", true, nil, nil)
	h, err := New(state)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin-api/graphql", bytes.NewBufferString(`{"query":"{ prohibitMutation }"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	data := got["data"].(map[string]interface{})
	assert.Equal(t, true, data["prohibitMutation"])
}

func TestMutationSetProhibitMutationReturnsPrevious(t *testing.T) {
	state := adminstate.New("http://upstream", "ws://upstream", false, nil, nil)
	h, err := New(state)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin-api/graphql",
		bytes.NewBufferString(`{"query":"mutation { setProhibitMutation(value: true) }"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	data := got["data"].(map[string]interface{})
	assert.Equal(t, false, data["setProhibitMutation"])
	assert.True(t, state.ProhibitMutation())
}

func TestMutationSetServerEndpointsReturnsPrevious(t *testing.T) {
	state := adminstate.New("http://old", "ws://old", false, nil, nil)
	h, err := New(state)
	require.NoError(t, err)

	query := `mutation {
		setServerEndpoints(graphQlEndpoint: "http://new", graphQlWsEndpoint: "ws://new") {
			graphQlEndpoint
			graphQlWsEndpoint
		}
	}`
	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin-api/graphql", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	data := got["data"].(map[string]interface{})["setServerEndpoints"].(map[string]interface{})
	assert.Equal(t, "http://old", data["graphQlEndpoint"])
	assert.Equal(t, "ws://old", data["graphQlWsEndpoint"])

	endpoints := state.ServerEndpoints()
	assert.Equal(t, "http://new", endpoints.GraphQLEndpoint)
}
