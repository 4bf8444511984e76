package model

import (
	"fmt"
	"strings"
)

// filterTypeVariants, connectionTypeVariants, etc. list the CLI-facing
// spellings accepted by ParseMessageFilter and ParseMessageFilterFields:
// lower-case and kebab-cased, matched case-insensitively.
var (
	filterTypeVariants       = map[string]FilterType{"allow": FilterTypeAllow, "prohibit": FilterTypeProhibit}
	connectionTypeVariants   = map[string]ConnectionType{"http": ConnectionTypeHTTP, "ws": ConnectionTypeWS}
	messageDirectionVariants = map[string]MessageDirection{"request": MessageDirectionRequest, "response": MessageDirectionResponse}
	payloadTypeVariants      = map[string]PayloadType{
		"request":                PayloadTypeRequest,
		"only-data":              PayloadTypeOnlyData,
		"only-error":             PayloadTypeOnlyError,
		"partial-data-and-error": PayloadTypePartialDataAndError,
		"non-graph-ql":           PayloadTypeNonGraphQL,
	}
)

func joinVariants[V any](m map[string]V) string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	return strings.Join(names, ", ")
}

// messageFilterUsage is the single-line error message returned for any
// malformed filter grammar string, listing every acceptable variant.
func messageFilterUsage() string {
	return fmt.Sprintf(
		"Invalid message filter format. Expected <filter_type>:<connection_type>,<message_direction>,<payload_type>; "+
			"<filter_type> variants: [%s]; <connection_type> variants: [%s]; <message_direction> variants: [%s]; <payload_type> variants: [%s]",
		joinVariants(filterTypeVariants),
		joinVariants(connectionTypeVariants),
		joinVariants(messageDirectionVariants),
		joinVariants(payloadTypeVariants),
	)
}

// ParseMessageFilter parses the CLI/admin grammar
// "<filter_type>:<connection_type>,<message_direction>,<payload_type>",
// where each slot after the colon also accepts the literal "any".
func ParseMessageFilter(value string) (MessageFilter, error) {
	filterTypeStr, remainder, ok := strings.Cut(value, ":")
	if !ok {
		return MessageFilter{}, fmt.Errorf("%s", messageFilterUsage())
	}

	filterType, ok := filterTypeVariants[strings.ToLower(filterTypeStr)]
	if !ok {
		return MessageFilter{}, fmt.Errorf("%s", messageFilterUsage())
	}

	parts := strings.Split(remainder, ",")
	if len(parts) != 3 {
		return MessageFilter{}, fmt.Errorf("%s", messageFilterUsage())
	}

	var connType *ConnectionType
	if !isAny(parts[0]) {
		v, ok := connectionTypeVariants[strings.ToLower(parts[0])]
		if !ok {
			return MessageFilter{}, fmt.Errorf("%s", messageFilterUsage())
		}
		connType = &v
	}

	var direction *MessageDirection
	if !isAny(parts[1]) {
		v, ok := messageDirectionVariants[strings.ToLower(parts[1])]
		if !ok {
			return MessageFilter{}, fmt.Errorf("%s", messageFilterUsage())
		}
		direction = &v
	}

	var payload *PayloadType
	if !isAny(parts[2]) {
		v, ok := payloadTypeVariants[strings.ToLower(parts[2])]
		if !ok {
			return MessageFilter{}, fmt.Errorf("%s", messageFilterUsage())
		}
		payload = &v
	}

	return MessageFilter{
		FilterType:       filterType,
		ConnectionType:   connType,
		MessageDirection: direction,
		PayloadType:      payload,
	}, nil
}

func isAny(s string) bool {
	return s == "" || strings.EqualFold(s, "any")
}

// ParseMessageFilterFields builds a MessageFilter from already-split
// fields, as delivered by the admin API's MessageFilterInput (as
// opposed to the colon/comma CLI grammar ParseMessageFilter parses). An
// empty string in any field but filterType means "any".
func ParseMessageFilterFields(filterType, connectionType, messageDirection, payloadType string) (MessageFilter, error) {
	ft, ok := filterTypeVariants[strings.ToLower(filterType)]
	if !ok {
		return MessageFilter{}, fmt.Errorf("%s", messageFilterUsage())
	}

	var connType *ConnectionType
	if !isAny(connectionType) {
		v, ok := connectionTypeVariants[strings.ToLower(connectionType)]
		if !ok {
			return MessageFilter{}, fmt.Errorf("%s", messageFilterUsage())
		}
		connType = &v
	}

	var direction *MessageDirection
	if !isAny(messageDirection) {
		v, ok := messageDirectionVariants[strings.ToLower(messageDirection)]
		if !ok {
			return MessageFilter{}, fmt.Errorf("%s", messageFilterUsage())
		}
		direction = &v
	}

	var payload *PayloadType
	if !isAny(payloadType) {
		v, ok := payloadTypeVariants[strings.ToLower(payloadType)]
		if !ok {
			return MessageFilter{}, fmt.Errorf("%s", messageFilterUsage())
		}
		payload = &v
	}

	return MessageFilter{
		FilterType:       ft,
		ConnectionType:   connType,
		MessageDirection: direction,
		PayloadType:      payload,
	}, nil
}
