package model

// Message is a single captured request or response leg, published once
// to the broadcast bus and immutable thereafter. Multiple admin
// subscribers may hold the same Message concurrently.
type Message struct {
	ConnectionID       ConnectionID
	SequenceCounter    uint64
	ConnectionType     ConnectionType
	MessageDirection   MessageDirection
	Message            interface{}
	TransmittedHeaders *Headers
	ServerEndpointURL  string
}

// FilterablePayload returns the JSON value a MessageFilter's
// payload_type discriminator should be evaluated against. For WS
// messages shaped as a graphql-transport-ws envelope
// (`{"type": ..., "payload": {...}}`), the check unwraps one level into
// the inner "payload" field; everything else is inspected as-is.
func (m Message) FilterablePayload() interface{} {
	if m.ConnectionType != ConnectionTypeWS {
		return m.Message
	}

	obj, ok := m.Message.(map[string]interface{})
	if !ok {
		return m.Message
	}
	if inner, ok := obj["payload"]; ok {
		return inner
	}
	return m.Message
}
