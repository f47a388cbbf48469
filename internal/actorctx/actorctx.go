// Package actorctx carries the acting principal on a context.Context so that
// layers below the transport (services, the observer) can attribute work.
package actorctx

import (
	"context"
)

type ctxKey string

const keyUserID ctxKey = "user_id"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, keyUserID, userID)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyUserID).(string)

	return v, ok && v != ""
}
