package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/address"
	"storefront-be/internal/auth"
	"storefront-be/internal/cart"
	"storefront-be/internal/config"
	"storefront-be/internal/coupon"
	"storefront-be/internal/db"
	"storefront-be/internal/events"
	"storefront-be/internal/httpapi"
	"storefront-be/internal/logger"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/pricing"
	"storefront-be/internal/product"
	"storefront-be/internal/review"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	shutdownTimeout  = 10 * time.Second
	redisPingTimeout = 5 * time.Second
)

var (
	initDBFunc      = db.InitDB
	initRedisFunc   = newRedisClient
	startServerFunc = func(srv *http.Server) error {
		return srv.ListenAndServe()
	}
)

// notifications bundles the order notifier with what the server needs to
// report on and stop it.
type notifications struct {
	notifier order.Notifier
	stats    httpapi.DeliveryStats
	close    func(ctx context.Context) error
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	l := logger.L()

	database := initDBFunc(cfg)
	defer database.Close()

	rdb, err := initRedisFunc(cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	notes, err := newNotifications(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewRateLimiter()
	go limiter.Run(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      newServer(cfg, database, rdb, notes, limiter),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("server starting", zap.String("addr", srv.Addr))
		errCh <- startServerFunc(srv)
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		l.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("server forced to shutdown", zap.Error(err))
	}
	if err := notes.close(shutdownCtx); err != nil {
		l.Warn("notifications not drained", zap.Error(err))
	}

	l.Info("server exited")
	return serveErr
}

func newRedisClient(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// newNotifications publishes status changes to RabbitMQ when AMQP_URL is
// set and discards them otherwise.
func newNotifications(cfg *config.Config) (*notifications, error) {
	if cfg.AMQPURL == "" {
		logger.L().Info("AMQP_URL not set, order notifications disabled")
		return &notifications{
			notifier: order.NopNotifier{},
			close:    func(context.Context) error { return nil },
		}, nil
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	pub, err := events.NewPublisher(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	dispatcher := events.NewDispatcher(pub, events.DefaultQueueSize)
	return &notifications{
		notifier: dispatcher,
		stats:    dispatcher,
		close: func(ctx context.Context) error {
			err := dispatcher.Close(ctx)
			pub.Close()
			conn.Close()
			return err
		},
	}, nil
}

func newServer(
	cfg *config.Config,
	database *sql.DB,
	rdb *redis.Client,
	notes *notifications,
	limiter *middleware.RateLimiter,
) http.Handler {
	catalog := product.NewCatalog(product.NewRepository(database))
	couponSvc := coupon.NewService(coupon.NewRepository(database))
	engine := pricing.NewEngine(nil)

	cartSvc := cart.NewService(
		cart.NewRedisStore(rdb, cfg.CartTTL),
		catalog,
		couponSvc,
		engine,
		cfg.TaxRatePercent,
	)
	orderSvc := order.NewService(
		order.NewRepository(database),
		cartSvc,
		catalog,
		couponSvc,
		engine,
		cfg.TaxRatePercent,
		notes.notifier,
	)
	reviewSvc := review.NewService(review.NewRepository(database), orderSvc)
	addressSvc := address.NewService(address.NewRepository(database))

	if cfg.JWTSecret == "" {
		logger.L().Warn("JWT_SECRET is empty, every bearer token will be rejected")
	}

	return httpapi.NewRouter(httpapi.Services{
		Carts:     cartSvc,
		Orders:    orderSvc,
		Reviews:   reviewSvc,
		Addresses: addressSvc,
		Coupons:   couponSvc,
	}, httpapi.Options{
		CORSOrigin:    cfg.CORSOrigin,
		Tokens:        auth.NewVerifier(cfg.JWTSecret),
		Limiter:       limiter,
		Notifications: notes.stats,
	})
}
