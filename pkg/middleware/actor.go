package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

type actorKey struct{}

// Actor is the staff member performing the request, as asserted by the
// upstream gateway.
type Actor struct {
	ID   string
	Role string
}

// ActorMiddleware copies the actor headers into the request context.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor{
			ID:   strings.TrimSpace(c.GetHeader(HeaderActorID)),
			Role: strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderActorRole))),
		}
		if actor.Role == "" {
			actor.Role = "anonymous"
		}
		c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the actor, or an anonymous one when the request
// did not carry any.
func ActorFromContext(ctx context.Context) Actor {
	a, ok := ctx.Value(actorKey{}).(Actor)
	if !ok {
		return Actor{Role: "anonymous"}
	}
	return a
}

func ActorID(ctx context.Context) string {
	return ActorFromContext(ctx).ID
}
