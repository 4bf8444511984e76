package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServeRequiresGraphQLEndpoint(t *testing.T) {
	t.Setenv("DEFAULT_SERVER_GRAPHQL_ENDPOINT", "")
	t.Setenv("DEFAULT_SERVER_GRAPHQL_WS_ENDPOINT", "")
	_, err := ParseServe([]string{})
	require.Error(t, err)
}

func TestParseServeResolvesFromFlags(t *testing.T) {
	cfg, err := ParseServe([]string{"-s", "http://upstream", "-w", "ws://upstream", "-m"})
	require.NoError(t, err)
	assert.Equal(t, "http://upstream", cfg.GraphQLEndpoint)
	assert.Equal(t, "ws://upstream", cfg.GraphQLWSEndpoint)
	assert.True(t, cfg.ProhibitMutation)
}

func TestParseServeResolvesFromEnvironment(t *testing.T) {
	t.Setenv("DEFAULT_SERVER_GRAPHQL_ENDPOINT", "http://env-upstream")
	t.Setenv("DEFAULT_SERVER_GRAPHQL_WS_ENDPOINT", "ws://env-upstream")
	t.Setenv("DEFAULT_PROHIBIT_MUTATION", "true")

	cfg, err := ParseServe([]string{})
	require.NoError(t, err)
	assert.Equal(t, "http://env-upstream", cfg.GraphQLEndpoint)
	assert.True(t, cfg.ProhibitMutation)
}

func TestParseServeRejectsMalformedBooleanEnv(t *testing.T) {
	t.Setenv("DEFAULT_SERVER_GRAPHQL_ENDPOINT", "http://upstream")
	t.Setenv("DEFAULT_SERVER_GRAPHQL_WS_ENDPOINT", "ws://upstream")
	t.Setenv("DEFAULT_PROHIBIT_MUTATION", "not-a-bool")

	_, err := ParseServe([]string{})
	require.Error(t, err)
}

func TestParseServeHeaderFlags(t *testing.T) {
	cfg, err := ParseServe([]string{
		"-s", "http://upstream", "-w", "ws://upstream",
		"--request-header", "x-a:1",
		"--request-header", "x-b:2",
	})
	require.NoError(t, err)
	v, ok := cfg.RequestHeaders.ByName("x-a")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}
