package main

import (
	"context"
	"math/rand"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	kaf "github.com/reybrally/pedidos-service/internal/adapters/kafka"
	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/config"
	"github.com/reybrally/pedidos-service/internal/domain/order"
	"github.com/reybrally/pedidos-service/internal/logging"
	svcPkg "github.com/reybrally/pedidos-service/internal/services"
	"github.com/reybrally/pedidos-service/internal/storage"
)

func getenvInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

type seedOptions struct {
	orders  int
	clients int
	workers int
}

func main() {
	cfg := config.Load()
	logging.InitLogger(cfg.App.LogLevel)

	opts := seedOptions{
		orders:  getenvInt("SEED_ORDERS", 1000),
		clients: getenvInt("SEED_CLIENTS", 50),
		workers: getenvInt("SEED_WORKERS", 8),
	}
	os.Exit(run(context.Background(), cfg, opts))
}

// run returns the process exit code; deferred closes happen before main exits.
func run(ctx context.Context, cfg config.Config, opts seedOptions) int {
	store, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		logging.LogError("seeder: store init failed", err, logrus.Fields{"driver": cfg.DB.Driver})
		return 1
	}
	defer func() { _ = store.Close() }()

	var events orders.EventPublisher = orders.NopPublisher{}
	if cfg.Kafka.Enabled() {
		prod := kaf.NewProducer(kaf.DefaultProducerConfig(cfg.Kafka.Brokers))
		defer prod.Close()
		events = kaf.NewOrderEvents(prod, cfg.Kafka.Topic, "seeder")
	}
	svc := svcPkg.NewOrderService(store, events)

	created, err := seed(ctx, svc, opts)
	if err != nil {
		logging.LogError("seeder: insert failed", err, logrus.Fields{"created": created})
		return 1
	}
	logging.LogInfo("seed completed", logrus.Fields{"pedidos": created, "clients": opts.clients})
	return 0
}

type orderCreator interface {
	CreateOrder(ctx context.Context, o order.Order) (order.Order, error)
}

func seed(ctx context.Context, svc orderCreator, opts seedOptions) (int64, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	batch := make([]order.Order, 0, opts.orders)
	for i := 0; i < opts.orders; i++ {
		batch = append(batch, randomOrder(rng, opts.clients))
	}

	var created atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)
	for _, o := range batch {
		g.Go(func() error {
			if _, err := svc.CreateOrder(gctx, o); err != nil {
				return err
			}
			created.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return created.Load(), err
}

// randomOrder builds an order dated within the last 90 days with 1 to 5
// distinct products.
func randomOrder(rng *rand.Rand, clients int) order.Order {
	today := order.TruncateDate(time.Now().UTC())
	o := order.Order{
		ClientID: int64(1 + rng.Intn(clients)),
		Date:     today.AddDate(0, 0, -rng.Intn(90)),
	}

	total := decimal.Zero
	for _, pid := range rng.Perm(20)[:1+rng.Intn(5)] {
		qty := 1 + rng.Intn(4)
		price := decimal.New(int64(100+rng.Intn(9900)), -2)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		o.Items = append(o.Items, order.NewLineItem(int64(pid+1), qty))
	}
	o.Total = total
	return o
}
