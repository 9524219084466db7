package httpapi

import (
	"net/http"

	"storefront-be/internal/cart"
	"storefront-be/internal/logger"
	"storefront-be/internal/transport"
	"storefront-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartSession resolves which cart a request operates on. Authenticated
// callers use their user cart and any guest cart named by the session
// header is merged into it. Anonymous callers use the guest cart from the
// header, or a new one whose id is echoed back.
func CartSession(carts cart.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			guest := ""
			if id, err := uuid.Parse(r.Header.Get(transport.CartSessionHeader)); err == nil {
				guest = cart.GuestOwner(id)
			}

			userID, ok := utils.GetUserIDFromContext(ctx)
			if !ok {
				if guest == "" {
					id := uuid.New()
					guest = cart.GuestOwner(id)
					w.Header().Set(transport.CartSessionHeader, id.String())
				}
				next.ServeHTTP(w, r.WithContext(transport.WithCartOwner(ctx, guest)))
				return
			}

			owner := cart.UserOwner(userID)
			if guest != "" {
				if _, err := carts.Merge(ctx, guest, owner); err != nil {
					logger.FromCtx(ctx).Warn("guest cart merge failed",
						zap.String("guest", guest),
						zap.String("owner", owner),
						zap.Error(err),
					)
				}
			}
			next.ServeHTTP(w, r.WithContext(transport.WithCartOwner(ctx, owner)))
		})
	}
}
