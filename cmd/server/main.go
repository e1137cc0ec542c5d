package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/livechat/internal/application"
	"github.com/SARVESHVARADKAR123/livechat/internal/auth"
	"github.com/SARVESHVARADKAR123/livechat/internal/config"
	"github.com/SARVESHVARADKAR123/livechat/internal/domain"
	"github.com/SARVESHVARADKAR123/livechat/internal/handlers"
	"github.com/SARVESHVARADKAR123/livechat/internal/live"
	"github.com/SARVESHVARADKAR123/livechat/internal/notify"
	"github.com/SARVESHVARADKAR123/livechat/internal/notify/kafkabus"
	"github.com/SARVESHVARADKAR123/livechat/internal/notify/pgbus"
	"github.com/SARVESHVARADKAR123/livechat/internal/notify/redisbus"
	"github.com/SARVESHVARADKAR123/livechat/internal/observability"
	"github.com/SARVESHVARADKAR123/livechat/internal/router"
	"github.com/SARVESHVARADKAR123/livechat/internal/server"
	"github.com/SARVESHVARADKAR123/livechat/internal/store"
	"github.com/SARVESHVARADKAR123/livechat/internal/store/memory"
	"github.com/SARVESHVARADKAR123/livechat/internal/store/postgres"
	"github.com/SARVESHVARADKAR123/livechat/internal/store/redisstore"
	grpcserver "github.com/SARVESHVARADKAR123/livechat/internal/transport/grpc"
	"github.com/SARVESHVARADKAR123/livechat/internal/websocket"
)

// startable is a bus that needs a background loop to receive remote changes.
type startable interface {
	notify.Bus
	Start(ctx context.Context)
}

func main() {
	cfg := config.Load()

	// Observability
	if err := observability.InitLogger(cfg.ServiceName, cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := observability.Log
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	if cfg.TracingEnabled {
		tp, err := observability.InitTracer(cfg.ServiceName, cfg.JaegerURL)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer tp.Shutdown(context.Background())
	}

	ctx, cancel := setupSignalHandler(log)
	defer cancel()

	instanceID := getOrGenerateInstanceID(cfg.InstanceID)
	log.Info("starting", zap.String("instance_id", instanceID),
		zap.String("store", cfg.StoreDriver), zap.String("notify", cfg.NotifyDriver))

	var (
		redisClient *redis.Client
		db          *sql.DB
	)
	if cfg.StoreDriver == config.StoreRedis || cfg.NotifyDriver == config.NotifyRedis {
		redisClient = initRedis(ctx, cfg.RedisAddr, log)
		defer redisClient.Close()
	}
	if cfg.StoreDriver == config.StorePostgres || cfg.NotifyDriver == config.NotifyPostgres {
		db = initPostgres(ctx, cfg, log)
		defer db.Close()
	}

	bus := initBus(ctx, cfg, instanceID, redisClient, db, log)
	defer bus.Close()

	st := initStore(cfg, bus, redisClient, db)
	svc := application.New(st, log)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)

	reg := websocket.NewRegistry()
	wsHandler := websocket.NewHandler(reg, live.New(st, cfg.WindowLimit), svc, cfg.WriteTimeout, cfg.WindowLimit, cfg.CORSOrigins)

	handler := router.NewRouter(router.Deps{
		Pages:             handlers.NewPageHandler(reg),
		Messages:          handlers.NewMessageHandler(svc, cfg.WriteTimeout, cfg.WindowLimit),
		Live:              wsHandler,
		Tokens:            tokens,
		Store:             st,
		ServiceName:       cfg.ServiceName,
		CORSOrigins:       cfg.CORSOrigins,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	// Servers
	obsSrv := initObservabilityServer(cfg, st)
	mainSrv := server.New(cfg.HTTPPort, handler)
	grpcSrv := initHealthGRPC(ctx, cfg, st, log)

	startServers(cfg, obsSrv, mainSrv, log)

	<-ctx.Done()
	performGracefulShutdown(obsSrv, mainSrv, grpcSrv, reg, log)
}

func setupSignalHandler(log *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received signal, initiating shutdown", zap.String("signal", sig.String()))
		cancel()
	}()
	return ctx, cancel
}

func getOrGenerateInstanceID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func initRedis(ctx context.Context, addr string, log *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	return client
}

func initPostgres(ctx context.Context, cfg *config.Config, log *zap.Logger) *sql.DB {
	if cfg.MigrateOnStart {
		if err := postgres.MigrateUp(cfg.DatabaseURL); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		log.Info("migrations applied")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to open postgres", zap.Error(err))
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	return db
}

func initBus(ctx context.Context, cfg *config.Config, instanceID string, rc *redis.Client, db *sql.DB, log *zap.Logger) notify.Bus {
	var bus startable
	switch cfg.NotifyDriver {
	case config.NotifyRedis:
		bus = redisbus.New(rc, instanceID)
	case config.NotifyKafka:
		b, err := kafkabus.New(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Fatal("failed to create kafka bus", zap.Error(err))
		}
		bus = b
	case config.NotifyPostgres:
		b, err := pgbus.New(cfg.DatabaseURL, db)
		if err != nil {
			log.Fatal("failed to create postgres bus", zap.Error(err))
		}
		bus = b
	default:
		return notify.NewHub()
	}

	bus.Start(ctx)
	return bus
}

func initStore(cfg *config.Config, bus notify.Bus, rc *redis.Client, db *sql.DB) store.Store {
	switch cfg.StoreDriver {
	case config.StoreRedis:
		return redisstore.New(rc, bus, domain.FieldTimestamp)
	case config.StorePostgres:
		return postgres.New(db, bus)
	default:
		return memory.New(bus)
	}
}

func initObservabilityServer(cfg *config.Config, st observability.Pinger) *http.Server {
	mux := chi.NewRouter()
	mux.Use(observability.MetricsMiddleware(cfg.ServiceName))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/health/live", observability.HealthLiveHandler)
	mux.Get("/health/ready", observability.HealthReadyHandler(st))
	return &http.Server{Addr: cfg.ObsHTTPAddr, Handler: mux}
}

func initHealthGRPC(ctx context.Context, cfg *config.Config, st store.Store, log *zap.Logger) *grpcserver.Server {
	srv := grpcserver.New(cfg.ServiceName)
	go srv.WatchReadiness(ctx, st, 10*time.Second)
	go func() {
		if err := srv.Start(cfg.GRPCAddr); err != nil {
			log.Error("health grpc server error", zap.Error(err))
		}
	}()
	return srv
}

func startServers(cfg *config.Config, obsSrv *http.Server, mainSrv *server.Server, log *zap.Logger) {
	go func() {
		log.Info("starting observability server", zap.String("addr", cfg.ObsHTTPAddr))
		if err := obsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("observability server error", zap.Error(err))
		}
	}()
	go func() {
		if err := mainSrv.Start(); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()
}

func performGracefulShutdown(obs *http.Server, mainSrv *server.Server, grpcSrv *grpcserver.Server, reg *websocket.Registry, log *zap.Logger) {
	log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// hijacked websocket conns are not tracked by http.Server
	reg.CloseAll()
	if err := mainSrv.Shutdown(ctx); err != nil {
		log.Error("error during main server shutdown", zap.Error(err))
	}
	if err := obs.Shutdown(ctx); err != nil {
		log.Error("error during observability server shutdown", zap.Error(err))
	}
	grpcSrv.Stop()
	log.Info("shutdown complete, exiting")
}
