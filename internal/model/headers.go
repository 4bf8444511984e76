package model

import "strings"

// Header is a single name/value pair as transmitted on the wire. Names
// keep their original casing for display; comparisons are always done
// on the lower-cased form.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered, case-insensitive, multi-valued header
// collection. Unlike net/http.Header (a map, which cannot preserve
// per-name insertion order across distinct names) it is backed by a
// plain slice, because the spec requires "insertion order preserved
// per name" snapshots to show up verbatim in captured messages.
type Headers struct {
	entries []Header
}

// NewHeaders builds an empty header collection.
func NewHeaders() *Headers {
	return &Headers{}
}

// Clone returns a deep copy so a snapshot can be handed to a Message
// without aliasing mutable state.
func (h *Headers) Clone() *Headers {
	if h == nil {
		return NewHeaders()
	}
	clone := make([]Header, len(h.entries))
	copy(clone, h.entries)
	return &Headers{entries: clone}
}

// Append adds a value without removing any existing entry of the same
// name.
func (h *Headers) Append(name, value string) {
	h.entries = append(h.entries, Header{Name: name, Value: value})
}

// Set removes every existing entry named name and appends value,
// returning the first previously-set value, if any.
func (h *Headers) Set(name, value string) (previous string, hadPrevious bool) {
	previous, hadPrevious = h.removeAll(name)
	h.Append(name, value)
	return previous, hadPrevious
}

// Remove deletes every entry named name, returning the first removed
// value, if any.
func (h *Headers) Remove(name string) (removed string, existed bool) {
	return h.removeAll(name)
}

func (h *Headers) removeAll(name string) (first string, existed bool) {
	lower := strings.ToLower(name)
	kept := h.entries[:0:0]
	for _, e := range h.entries {
		if strings.ToLower(e.Name) == lower {
			if !existed {
				first, existed = e.Value, true
			}
			continue
		}
		kept = append(kept, e)
	}
	h.entries = kept
	return first, existed
}

// ByName returns the first value stored under name, case-insensitively.
func (h *Headers) ByName(name string) (string, bool) {
	if h == nil {
		return "", false
	}
	lower := strings.ToLower(name)
	for _, e := range h.entries {
		if strings.ToLower(e.Name) == lower {
			return e.Value, true
		}
	}
	return "", false
}

// All returns every entry in insertion order.
func (h *Headers) All() []Header {
	if h == nil {
		return nil
	}
	return h.entries
}

// MoveAndReplace drains src into dest: for every (name, value) pair in
// src, if the lower-cased name is not in prohibited, every existing
// dest entry of that name is removed and the pair is appended to dest.
// src is left empty. This is used three times per proxied leg: to
// strip hop-by-hop headers crossing the proxy/upstream boundary, to
// overlay admin-configured headers, and to propagate headers back to
// the client.
func MoveAndReplace(dest, src *Headers, prohibited map[string]struct{}) {
	drained := src.entries
	src.entries = nil

	for _, e := range drained {
		if _, blocked := prohibited[strings.ToLower(e.Name)]; blocked {
			continue
		}
		dest.removeAll(e.Name)
		dest.Append(e.Name, e.Value)
	}
}

// ProhibitedSet builds a lookup set of lower-cased header names from a
// literal list, for use with MoveAndReplace.
func ProhibitedSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}
