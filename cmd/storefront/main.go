package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abu-Issam/buyshea-connect/internal/account"
	"github.com/Abu-Issam/buyshea-connect/internal/catalog"
	"github.com/Abu-Issam/buyshea-connect/internal/catalog/repository"
	"github.com/Abu-Issam/buyshea-connect/internal/checkout"
	"github.com/Abu-Issam/buyshea-connect/internal/config"
	storefrontgrpc "github.com/Abu-Issam/buyshea-connect/internal/grpc"
	h "github.com/Abu-Issam/buyshea-connect/internal/http"
	"github.com/Abu-Issam/buyshea-connect/internal/payment"
	"github.com/Abu-Issam/buyshea-connect/internal/publisher"
	"github.com/Abu-Issam/buyshea-connect/internal/session"
	"github.com/Abu-Issam/buyshea-connect/internal/session/cache"
	"github.com/Abu-Issam/buyshea-connect/pkg/circuitbreaker"
	"github.com/Abu-Issam/buyshea-connect/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer lg.Sync()
	zap.ReplaceGlobals(lg)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	// Missing gateway settings are reported but do not stop the service.
	for _, problem := range cfg.Check() {
		lg.Warn("configuration problem", zap.Error(problem))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to load catalog", zap.Error(err))
	}

	// Order hand-off
	var sink checkout.OrderSink = publisher.NewLogSink(lg)
	var outbox *publisher.Outbox
	if len(cfg.KafkaBrokers) > 0 {
		outbox = publisher.NewOutbox(publisher.NewKafkaWriter(cfg.KafkaTopic, cfg.KafkaBrokers...), lg)
		sink = outbox
		lg.Info("publishing completed checkouts",
			zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	// Payment gateway
	client := payment.NewHTTPClient(cfg.Gateway.Timeout)
	breaker := circuitbreaker.New(circuitbreaker.DefaultSettings("paystack"))
	registry := payment.NewRegistry()

	paymentCfg := payment.Config{
		PublicKey:   cfg.Gateway.PublicKey,
		Currency:    cfg.Gateway.Currency,
		Channels:    cfg.Gateway.Channels,
		PaymentFor:  cfg.Gateway.PaymentFor,
		OpenTimeout: cfg.Gateway.Timeout,
	}
	var widget payment.Widget = payment.NewInlineWidget(registry)
	if cfg.Gateway.SecretKey != "" {
		widget = payment.NewHostedWidget(registry, client, breaker, cfg.Gateway.InitURL, cfg.Gateway.SecretKey, lg)
		paymentCfg.Verifier = payment.NewHTTPVerifier(client, breaker, cfg.Gateway.VerifyURL, cfg.Gateway.SecretKey)
	} else {
		lg.Warn("PAYSTACK_SECRET_KEY is not set, reported payments are not verified with the gateway")
	}
	adapter := payment.NewAdapter(paymentCfg, payment.NewHTTPScriptLoader(cfg.Gateway.ScriptURL, client, breaker), widget, lg)

	// Sessions
	storeCfg := session.Config{
		TTL: cfg.SessionTTL,
		Deps: session.Deps{
			Payments:  adapter,
			Sink:      sink,
			Currency:  cfg.Gateway.Currency,
			ChatDelay: cfg.ChatReplyDelay,
		},
		Catalog: cat,
		Logger:  lg,
	}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// carts stay in memory until Redis comes back
			lg.Warn("redis ping failed", zap.Error(err))
		} else {
			lg.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))
		}
		storeCfg.Cache = cache.NewRedisCache(redisClient)
	}
	store := session.NewStore(storeCfg)

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: h.NewRouter(h.RouterConfig{
			Catalog:            cat,
			Sessions:           store,
			Callbacks:          registry,
			Accounts:           account.NewMockService(cfg.AccountDelay, lg),
			Logger:             lg,
			RequestTimeout:     cfg.RequestTimeout,
			MaxRequestBodySize: cfg.MaxRequestBodySize,
			SessionTTL:         cfg.SessionTTL,
			Ready:              adapter.Configured,
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		lg.Fatal("failed to listen", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}
	grpcServer := storefrontgrpc.NewServer(adapter.Configured(), lg)

	outboxCtx, stopOutbox := context.WithCancel(context.Background())
	outboxDone := make(chan struct{})
	go func() {
		defer close(outboxDone)
		if outbox != nil {
			outbox.Run(outboxCtx)
		}
	}()

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			lg.Error("grpc server error", zap.Error(err))
		}
	}()

	go func() {
		lg.Info("storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	lg.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("server forced to shutdown", zap.Error(err))
	}
	grpcServer.Stop()

	// sessions first so no new orders reach the outbox
	store.Close()
	stopOutbox()
	<-outboxDone
	if outbox != nil {
		if err := outbox.Close(); err != nil {
			lg.Warn("failed to close kafka writer", zap.Error(err))
		}
	}

	lg.Info("server exited")
}

// loadCatalog reads the catalog from SQLite when CATALOG_DB_PATH is set and
// falls back to the built-in seed otherwise.
func loadCatalog(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*catalog.Catalog, error) {
	if cfg.CatalogDBPath == "" {
		return catalog.Default(), nil
	}
	products, err := repository.Load(ctx, cfg.CatalogDBPath)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.New(products)
	if err != nil {
		return nil, err
	}
	lg.Info("catalog loaded", zap.String("path", cfg.CatalogDBPath), zap.Int("products", cat.Len()))
	return cat, nil
}
