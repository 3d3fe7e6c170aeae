package testutil

import (
	"context"
	"time"

	"missionsuivi/pkg/requestcontext"
)

// ActorContext returns a context carrying what the request middlewares would
// have set: actor, role and request id, and a fixed clock when now is non-zero.
func ActorContext(actorID, role, requestID string, now time.Time) context.Context {
	ctx := requestcontext.WithActor(context.Background(), actorID, role)
	ctx = requestcontext.WithRequestID(ctx, requestID)
	if !now.IsZero() {
		ctx = requestcontext.WithTime(ctx, now)
	}
	return ctx
}
