package httpapi

import (
	"net/http"
	"time"

	"storefront-be/internal/address"
	"storefront-be/internal/cart"
	"storefront-be/internal/coupon"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/review"
	"storefront-be/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const defaultRequestTimeout = 30 * time.Second

type Services struct {
	Carts     cart.Service
	Orders    order.Service
	Reviews   review.Service
	Addresses address.Service
	Coupons   coupon.Service
}

// DeliveryStats is implemented by the notification dispatcher.
type DeliveryStats interface {
	Stats() metrics.DeliverySnapshot
}

type Options struct {
	CORSOrigin     string
	Tokens         middleware.TokenParser
	Limiter        *middleware.RateLimiter
	Notifications  DeliveryStats
	RequestTimeout time.Duration
}

type healthResponse struct {
	Status        string                    `json:"status"`
	Notifications *metrics.DeliverySnapshot `json:"notifications,omitempty"`
}

func NewRouter(svc Services, opts Options) http.Handler {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	carts := NewCartHandler(svc.Carts)
	orders := NewOrderHandler(svc.Orders)
	reviews := NewReviewHandler(svc.Reviews)
	addresses := NewAddressHandler(svc.Addresses)
	coupons := NewCouponHandler(svc.Coupons)

	r := chi.NewRouter()
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.CORSOrigin))
	r.Use(middleware.AuthMiddleware(opts.Tokens))
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}
	r.Use(chimw.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		res := healthResponse{Status: "ok"}
		if opts.Notifications != nil {
			stats := opts.Notifications.Stats()
			res.Notifications = &stats
		}
		utils.WriteJSON(w, http.StatusOK, res)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Use(CartSession(svc.Carts))

			r.Get("/", carts.Get)
			r.Delete("/", carts.Clear)
			r.Post("/lines", carts.AddLine)
			r.Patch("/lines/{productId}", carts.UpdateQuantity)
			r.Delete("/lines/{productId}", carts.RemoveLine)
			r.Post("/coupon", carts.ApplyCoupon)
			r.Delete("/coupon", carts.RemoveCoupon)
		})

		r.Get("/products/{id}/reviews", reviews.ListForProduct)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.With(CartSession(svc.Carts)).Post("/orders/checkout", orders.Checkout)
			r.Get("/orders", orders.List)
			r.Get("/orders/{id}", orders.Get)
			r.Post("/orders/{id}/cancel", orders.Cancel)

			r.Get("/products/{id}/reviews/eligibility", reviews.Eligibility)
			r.Post("/products/{id}/reviews", reviews.Submit)
			r.Put("/reviews/{id}", reviews.Update)
			r.Delete("/reviews/{id}", reviews.Delete)
			r.Post("/reviews/{id}/helpful", reviews.MarkHelpful)

			r.Get("/addresses", addresses.List)
			r.Post("/addresses", addresses.Create)
			r.Put("/addresses/{id}", addresses.Update)
			r.Delete("/addresses/{id}", addresses.Delete)
			r.Post("/addresses/{id}/default", addresses.SetDefault)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/orders", orders.ListAll)
			r.Post("/orders/{id}/status", orders.Transition)

			r.Get("/coupons", coupons.List)
			r.Post("/coupons", coupons.Create)
			r.Put("/coupons/{id}", coupons.Update)
			r.Delete("/coupons/{id}", coupons.Delete)

			r.Post("/reviews/{id}/verify", reviews.SetVerified)
		})
	})

	return r
}
