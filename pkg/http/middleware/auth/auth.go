package auth

import (
	"context"
	"net/http"
	"strconv"
)

type contextKey struct{}

// actorHeader carries the authenticated user id, set by the upstream
// authenticating proxy. This service performs no authentication itself;
// a missing or malformed id simply yields no actor and the order path
// rejects with its not-authenticated reason.
const actorHeader = "X-User-ID"

// NewActorMiddleware extracts the actor identity into the request context.
func NewActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if raw := r.Header.Get(actorHeader); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				ctx = context.WithValue(ctx, contextKey{}, id)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorID returns the authenticated actor id, or 0 if none is present.
func ActorID(ctx context.Context) int64 {
	id, _ := ctx.Value(contextKey{}).(int64)

	return id
}
