package transport

import (
	"context"
)

type ctxKey string

const cartOwnerKey ctxKey = "cartOwner"

// CartSessionHeader carries the guest cart id between requests.
const CartSessionHeader = "X-Cart-Session"

// WithCartOwner stores the owner whose cart the request operates on.
func WithCartOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, cartOwnerKey, owner)
}

func CartOwner(ctx context.Context) string {
	owner, _ := ctx.Value(cartOwnerKey).(string)
	return owner
}
