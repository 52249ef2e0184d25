// Package models holds the resource records served by the API together with
// their request payloads, partial update payloads and list filters.
package models

import "net/url"

func ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// eq matches when no criterion is set or the criterion equals got.
func eq[T comparable](want *T, got T) bool {
	return want == nil || *want == got
}

// eqPtr is eq for optional record fields; an unset field never matches a
// set criterion.
func eqPtr[T comparable](want *T, got *T) bool {
	if want == nil {
		return true
	}
	return got != nil && *want == *got
}

func queryString(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}
