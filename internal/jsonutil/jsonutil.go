// Package jsonutil centralizes the JSON codec used across the proxy so
// every package marshals and unmarshals the same way.
package jsonutil

import (
	jsoniter "github.com/json-iterator/go"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	Marshal   = api.Marshal
	Unmarshal = api.Unmarshal
)

// RawMessage re-exports jsoniter's delayed-decode type so callers never
// need to import jsoniter directly.
type RawMessage = jsoniter.RawMessage
