package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateFiltersLastMatchingWins(t *testing.T) {
	ws := ConnectionTypeWS
	req := MessageDirectionRequest

	filters := []MessageFilter{
		{FilterType: FilterTypeAllow, ConnectionType: &ws},
		{FilterType: FilterTypeProhibit, ConnectionType: &ws, MessageDirection: &req},
	}

	prohibited := Message{
		ConnectionType:   ConnectionTypeWS,
		MessageDirection: MessageDirectionRequest,
		Message:          map[string]interface{}{"type": "subscribe"},
	}
	assert.False(t, EvaluateFilters(filters, prohibited))

	allowed := Message{
		ConnectionType:   ConnectionTypeWS,
		MessageDirection: MessageDirectionResponse,
		Message:          map[string]interface{}{"type": "next"},
	}
	assert.True(t, EvaluateFilters(filters, allowed))
}

func TestEvaluateFiltersDefaultsToAllowedWhenNoneMatch(t *testing.T) {
	http := ConnectionTypeHTTP
	filters := []MessageFilter{{FilterType: FilterTypeProhibit, ConnectionType: &http}}

	msg := Message{ConnectionType: ConnectionTypeWS, Message: map[string]interface{}{}}
	assert.True(t, EvaluateFilters(filters, msg))
}

func TestMessageFilterablePayloadUnwrapsWSEnvelope(t *testing.T) {
	msg := Message{
		ConnectionType: ConnectionTypeWS,
		Message: map[string]interface{}{
			"type":    "next",
			"payload": map[string]interface{}{"data": 1},
		},
	}
	assert.Equal(t, PayloadTypeOnlyData, ClassifyPayload(msg.FilterablePayload()))
}

func TestMessageFilterablePayloadHTTPIsNotUnwrapped(t *testing.T) {
	msg := Message{
		ConnectionType: ConnectionTypeHTTP,
		Message:        map[string]interface{}{"data": 1, "payload": map[string]interface{}{"errors": 1}},
	}
	assert.Equal(t, msg.Message, msg.FilterablePayload())
}

func TestParseMessageFilterGrammar(t *testing.T) {
	f, err := ParseMessageFilter("allow:any,any,any")
	require.NoError(t, err)
	assert.Equal(t, FilterTypeAllow, f.FilterType)
	assert.Nil(t, f.ConnectionType)
	assert.Nil(t, f.MessageDirection)
	assert.Nil(t, f.PayloadType)

	f, err = ParseMessageFilter("prohibit:ws,request,only-data")
	require.NoError(t, err)
	assert.Equal(t, FilterTypeProhibit, f.FilterType)
	require.NotNil(t, f.ConnectionType)
	assert.Equal(t, ConnectionTypeWS, *f.ConnectionType)
	require.NotNil(t, f.MessageDirection)
	assert.Equal(t, MessageDirectionRequest, *f.MessageDirection)
	require.NotNil(t, f.PayloadType)
	assert.Equal(t, PayloadTypeOnlyData, *f.PayloadType)
}

func TestParseMessageFilterRejectsMalformedInput(t *testing.T) {
	_, err := ParseMessageFilter("allow:any,any,any,any")
	assert.Error(t, err)

	_, err = ParseMessageFilter("bogus:any,any,any")
	assert.Error(t, err)

	_, err = ParseMessageFilter("allow:bogus,any,any")
	assert.Error(t, err)
}
