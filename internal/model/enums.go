package model

// ConnectionType distinguishes the transport a captured Message
// travelled over.
type ConnectionType string

const (
	ConnectionTypeHTTP ConnectionType = "HTTP"
	ConnectionTypeWS    ConnectionType = "WS"
)

// MessageDirection distinguishes client-originated traffic from
// upstream-originated traffic.
type MessageDirection string

const (
	MessageDirectionRequest  MessageDirection = "REQUEST"
	MessageDirectionResponse MessageDirection = "RESPONSE"
)

// FilterType is the polarity of a MessageFilter: whether a match opens
// or closes the gate for a message reaching an admin subscriber.
type FilterType string

const (
	FilterTypeAllow    FilterType = "ALLOW"
	FilterTypeProhibit FilterType = "PROHIBIT"
)

// PayloadType classifies a captured JSON payload by shape, per the
// precedence rule: query > (data AND errors) > data > errors > other.
type PayloadType string

const (
	PayloadTypeRequest             PayloadType = "REQUEST"
	PayloadTypePartialDataAndError PayloadType = "PARTIAL_DATA_AND_ERROR"
	PayloadTypeOnlyData            PayloadType = "ONLY_DATA"
	PayloadTypeOnlyError           PayloadType = "ONLY_ERROR"
	PayloadTypeNonGraphQL          PayloadType = "NON_GRAPHQL"
)

// ClassifyPayload computes the PayloadType of an arbitrary decoded JSON
// value. Only JSON objects can be anything other than NON_GRAPHQL.
func ClassifyPayload(payload interface{}) PayloadType {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return PayloadTypeNonGraphQL
	}

	_, hasQuery := obj["query"]
	_, hasData := obj["data"]
	_, hasErrors := obj["errors"]

	switch {
	case hasQuery:
		return PayloadTypeRequest
	case hasData && hasErrors:
		return PayloadTypePartialDataAndError
	case hasData:
		return PayloadTypeOnlyData
	case hasErrors:
		return PayloadTypeOnlyError
	default:
		return PayloadTypeNonGraphQL
	}
}
