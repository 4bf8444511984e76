package model

// MessageFilter is one entry of an admin subscription's filter list.
// Any discriminator left nil matches any value of that attribute.
type MessageFilter struct {
	FilterType       FilterType
	ConnectionType   *ConnectionType
	MessageDirection *MessageDirection
	PayloadType      *PayloadType
}

// IsMatching reports whether every discriminator set on the filter
// agrees with the message's corresponding attribute.
func (f MessageFilter) IsMatching(msg Message) bool {
	if f.ConnectionType != nil && *f.ConnectionType != msg.ConnectionType {
		return false
	}
	if f.MessageDirection != nil && *f.MessageDirection != msg.MessageDirection {
		return false
	}
	if f.PayloadType != nil {
		if ClassifyPayload(msg.FilterablePayload()) != *f.PayloadType {
			return false
		}
	}
	return true
}

// EvaluateFilters folds a filter list over a message, per the
// subscription delivery algorithm: start allowed, and for every
// matching filter (in order) set allowed to true for ALLOW or false
// for PROHIBIT. Filters that don't match leave allowed untouched. The
// final value is the filter_type of the last matching filter, or true
// if none match.
func EvaluateFilters(filters []MessageFilter, msg Message) bool {
	allowed := true
	for _, f := range filters {
		if !f.IsMatching(msg) {
			continue
		}
		switch f.FilterType {
		case FilterTypeAllow:
			allowed = true
		case FilterTypeProhibit:
			allowed = false
		}
	}
	return allowed
}
