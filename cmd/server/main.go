package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	httpHandlers "github.com/reybrally/pedidos-service/internal/adapters/http/handlers"
	kaf "github.com/reybrally/pedidos-service/internal/adapters/kafka"
	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/config"
	"github.com/reybrally/pedidos-service/internal/logging"
	"github.com/reybrally/pedidos-service/internal/metrics"
	svcPkg "github.com/reybrally/pedidos-service/internal/services"
	"github.com/reybrally/pedidos-service/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	logging.InitLogger(cfg.App.LogLevel)
	logging.LogInfo("starting pedidos-service", logrus.Fields{
		"pid":    os.Getpid(),
		"port":   cfg.HTTP.Port,
		"env":    cfg.App.Env,
		"driver": cfg.DB.Driver,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		logging.LogError("store init failed", err, logrus.Fields{"driver": cfg.DB.Driver})
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	events, closeEvents := newPublisher(cfg)
	defer closeEvents()

	svc := svcPkg.NewOrderService(store, metrics.NewInstrumentedPublisher(events, prometheus.DefaultRegisterer))
	h := httpHandlers.NewOrderHandlers(svc)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      newRouter(cfg, h, store),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.LogInfo("http server listening", logrus.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logging.LogInfo("shutdown signal received", logrus.Fields{})

		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil {
		logging.LogError("http server stopped with error", err, logrus.Fields{"addr": srv.Addr})
		os.Exit(1)
	}
	logging.LogInfo("bye", logrus.Fields{})
}

func newRouter(cfg config.Config, h *httpHandlers.OrderHandlers, store httpHandlers.Pinger) http.Handler {
	httpMetrics := metrics.NewHTTPMetrics()

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.StripSlashes,
		httpMetrics.Middleware,
		middleware.Timeout(cfg.HTTP.RequestTimeout),
	)
	r.Get("/health", httpHandlers.HealthHandler)
	r.Get("/ready", httpHandlers.ReadyHandler(store))
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1/pedidos", h.Routes)
	return r
}

// newPublisher returns the Kafka publisher when brokers are configured and a
// no-op otherwise.
func newPublisher(cfg config.Config) (orders.EventPublisher, func()) {
	if !cfg.Kafka.Enabled() {
		logging.LogInfo("kafka disabled, events are not published", logrus.Fields{})
		return orders.NopPublisher{}, func() {}
	}

	prod := kaf.NewProducer(kaf.DefaultProducerConfig(cfg.Kafka.Brokers))
	logging.LogInfo("kafka producer created", logrus.Fields{"brokers": cfg.Kafka.Brokers, "topic": cfg.Kafka.Topic})

	return kaf.NewOrderEvents(prod, cfg.Kafka.Topic, "http-api"), func() {
		if err := prod.Close(); err != nil {
			logging.LogError("kafka producer close failed", err, logrus.Fields{})
		}
	}
}
