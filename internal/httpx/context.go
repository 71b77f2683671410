package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	sessionIDKey contextKey = "sessionID"
	requestIDKey contextKey = "requestID"
)

// SessionIDFrom retrieves the browser session id from the request context.
func SessionIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithSession returns a new context carrying the browser session id.
func ContextWithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// RequestIDFrom retrieves the request id from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
