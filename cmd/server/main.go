package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gobwas/ws"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/believe-gautam/yahooliveticker/cmd/server/internal/api"
	"github.com/believe-gautam/yahooliveticker/cmd/server/internal/gateway"
	"github.com/believe-gautam/yahooliveticker/cmd/server/internal/hub"
	"github.com/believe-gautam/yahooliveticker/cmd/server/internal/market"
	"github.com/believe-gautam/yahooliveticker/cmd/server/internal/sink"
	"github.com/believe-gautam/yahooliveticker/pkg/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := config.NewLogger(cfg.App)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	source := market.NewSimulator(rand.New(rand.NewSource(time.Now().UnixNano())))

	var sinks []sink.Sink
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		sinks = append(sinks, sink.NewRedisSink(rdb))
	}
	if cfg.Kafka.Enabled {
		sinks = append(sinks, sink.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic))
	}

	wsHub := hub.NewHub(source, logger, cfg.Market.TickInterval, cfg.Market.SweepInterval, sinks...)
	wsHub.Run()

	handler := api.NewHandler(wsHub, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			logger.Warn("WebSocket upgrade failed", zap.Error(err))
			return
		}
		gateway.NewClient(conn, wsHub, logger).Start()
	})
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/api/symbols", handler.Symbols)
	if cfg.App.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(cfg.App.StaticDir)))
	}

	srv := &http.Server{Addr: cfg.App.Port, Handler: mux}

	go func() {
		logger.Info("Server Started", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("HTTP Error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("Shutdown signal received")

	// Timers first, then the listener, then flush the export sinks.
	wsHub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP shutdown error", zap.Error(err))
	}

	for _, s := range sinks {
		if err := s.Close(); err != nil {
			logger.Error("Sink close error", zap.Error(err))
		}
	}

	logger.Info("Shutdown Complete")
}
