// Package genai adapts hosted text-generation APIs to a single prompt-in,
// text-out call.
package genai

import "errors"

var (
	ErrMissingKey    = errors.New("genai: api key not configured")
	ErrEmptyResponse = errors.New("genai: empty response")
)
