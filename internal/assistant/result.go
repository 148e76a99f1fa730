package assistant

import "encoding/json"

// Result is the outcome of one feature. A feature either produced a value or
// is unavailable for a stated reason; callers decide how to show either.
type Result[T any] struct {
	Value  T
	Reason string
	ok     bool
}

// Ok wraps a produced value
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, ok: true}
}

// Unavailable reports why a feature could not run
func Unavailable[T any](reason string) Result[T] {
	return Result[T]{Reason: reason}
}

// Available reports whether the feature produced a value
func (r Result[T]) Available() bool {
	return r.ok
}

// MarshalJSON renders {"available":true,"data":...} or {"available":false,"reason":...}
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if !r.ok {
		return json.Marshal(struct {
			Available bool   `json:"available"`
			Reason    string `json:"reason"`
		}{false, r.Reason})
	}
	return json.Marshal(struct {
		Available bool `json:"available"`
		Data      T    `json:"data"`
	}{true, r.Value})
}
