package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront-be/internal/auth"
	"storefront-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCors(t *testing.T) {
	handler := CORS("http://localhost:3000")(okHandler())

	t.Run("OPTIONS request", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/test", nil))

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Cart-Session")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Normal request", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuth(t *testing.T) {
	verifier := auth.NewVerifier("test-secret")
	mw := AuthMiddleware(verifier)

	t.Run("Missing Token", func(t *testing.T) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := utils.GetUserIDFromContext(r.Context())
			assert.False(t, ok)
			w.WriteHeader(http.StatusOK)
		})

		w := httptest.NewRecorder()
		mw(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Invalid Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		mw(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid Token", func(t *testing.T) {
		tok, err := verifier.Sign(1, "a@b.c", "", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, uint(1), userID)
			assert.Equal(t, utils.RoleCustomer, utils.GetUserRoleFromContext(r.Context()))
			w.WriteHeader(http.StatusOK)
		})

		mw(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Expired Token", func(t *testing.T) {
		tok, err := verifier.Sign(1, "", "customer", -time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()

		mw(http.NotFoundHandler()).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAuthAndAdmin(t *testing.T) {
	anon := httptest.NewRequest(http.MethodGet, "/", nil)

	customer := anon.WithContext(utils.SetUserContext(anon.Context(), 3, "", utils.RoleCustomer))
	admin := anon.WithContext(utils.SetUserContext(anon.Context(), 4, "", utils.RoleAdmin))

	tests := []struct {
		name    string
		handler http.Handler
		req     *http.Request
		want    int
	}{
		{"auth anonymous", RequireAuth(okHandler()), anon, http.StatusUnauthorized},
		{"auth customer", RequireAuth(okHandler()), customer, http.StatusOK},
		{"admin anonymous", RequireAdmin(okHandler()), anon, http.StatusUnauthorized},
		{"admin customer", RequireAdmin(okHandler()), customer, http.StatusForbidden},
		{"admin admin", RequireAdmin(okHandler()), admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler.ServeHTTP(w, tt.req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("Strict tier exhausts after burst", func(t *testing.T) {
		limiter := NewRateLimiter()
		handler := limiter.Middleware(okHandler())

		codes := make([]int, 0, burstStrict+1)
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}

		for i := 0; i < burstStrict; i++ {
			assert.Equal(t, http.StatusOK, codes[i])
		}
		assert.Equal(t, http.StatusTooManyRequests, codes[burstStrict])
	})

	t.Run("Separate identities have separate buckets", func(t *testing.T) {
		limiter := NewRateLimiter()
		handler := limiter.Middleware(okHandler())

		for i := 0; i < burstStrict; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/cart/coupon", nil)
			req.RemoteAddr = "10.0.0.2:1"
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/cart/coupon", nil)
		req.RemoteAddr = "10.0.0.3:1"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Rotating cart session header shares the IP bucket", func(t *testing.T) {
		limiter := NewRateLimiter()
		handler := limiter.Middleware(okHandler())

		var last int
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/cart/coupon", nil)
			req.RemoteAddr = "10.0.0.4:5555"
			req.Header.Set("X-Cart-Session", fmt.Sprintf("junk-%d", i))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			last = w.Code
		}

		assert.Equal(t, http.StatusTooManyRequests, last)
		assert.Len(t, limiter.visitors, 1)
	})

	t.Run("Authenticated users are keyed by user id", func(t *testing.T) {
		limiter := NewRateLimiter()
		handler := limiter.Middleware(okHandler())

		for _, addr := range []string{"10.0.0.5:1", "10.0.0.6:1"} {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			req.RemoteAddr = addr
			req = req.WithContext(utils.SetUserContext(req.Context(), 9, "", utils.RoleCustomer))
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		require.Len(t, limiter.visitors, 1)
		_, ok := limiter.visitors["user:9:general"]
		assert.True(t, ok)
	})

	t.Run("Idle visitors are evicted", func(t *testing.T) {
		limiter := NewRateLimiter()
		now := time.Now()
		limiter.now = func() time.Time { return now }

		limiter.get("ip:1:general", limitGeneral, burstGeneral)
		require.Len(t, limiter.visitors, 1)

		now = now.Add(visitorIdleTTL + time.Second)
		limiter.evictIdle()
		assert.Empty(t, limiter.visitors)
	})
}

func TestResolveRateTier(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodPost, "/api/orders/checkout", "strict"},
		{http.MethodPost, "/api/cart/coupon", "strict"},
		{http.MethodPost, "/api/products/12/reviews", "strict"},
		{http.MethodGet, "/api/products/12/reviews", "general"},
		{http.MethodPost, "/api/products/12/reviews/eligibility", "general"},
		{http.MethodPost, "/api/products//reviews", "general"},
		{http.MethodGet, "/api/orders", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			_, _, tier := resolveRateTier(httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, tier)
		})
	}
}
