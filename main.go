package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/account"
	"github.com/nikolayk812/storefront/internal/cache"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/httpapi"
	"github.com/nikolayk812/storefront/internal/invoice"
	"github.com/nikolayk812/storefront/internal/kafka"
	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/outbox"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", os.Getenv("STOREFRONT_CONFIG"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config.Load: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Setup(os.Stdout, cfg.Service, cfg.Log.Level, cfg.Log.Pretty); err != nil {
		fmt.Fprintf(os.Stderr, "logging.Setup: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("storefront stopped")
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cur, err := cfg.Currency()
	if err != nil {
		return err
	}
	shipping, err := cfg.ShippingFee()
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool.Ping: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("rdb.Close")
		}
	}()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("rdb.Ping: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics(reg)

	tx := repository.NewTransactor(pool)
	repos := repository.NewRepositories(pool)

	productCache, err := cache.NewProductCache(rdb, cfg.Shop.ProductCacheTTL)
	if err != nil {
		return fmt.Errorf("cache.NewProductCache: %w", err)
	}
	sessions, err := cache.NewSessionStore(rdb)
	if err != nil {
		return fmt.Errorf("cache.NewSessionStore: %w", err)
	}
	idempotency, err := cache.NewIdempotencyStore(rdb, cfg.Shop.IdempotencyTTL)
	if err != nil {
		return fmt.Errorf("cache.NewIdempotencyStore: %w", err)
	}

	accounts, err := account.NewService(tx, repos.Users, sessions, account.Config{
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: cfg.Auth.TokenTTL,
	})
	if err != nil {
		return fmt.Errorf("account.NewService: %w", err)
	}

	catalogService, err := catalog.NewService(repos.Products, repos.Reviews, productCache, cur)
	if err != nil {
		return fmt.Errorf("catalog.NewService: %w", err)
	}

	carts, err := cart.NewService(tx, repos.Carts, domain.Money{Amount: shipping, Currency: cur})
	if err != nil {
		return fmt.Errorf("cart.NewService: %w", err)
	}

	checkouts, err := checkout.NewService(tx, repos.Carts, productCache, serverMetrics, checkout.Config{
		Currency: cur,
		Shipping: shipping,
		Topic:    cfg.Kafka.Topic,
	})
	if err != nil {
		return fmt.Errorf("checkout.NewService: %w", err)
	}

	invoices, err := invoice.NewRenderer(repos.Orders, repos.Users)
	if err != nil {
		return fmt.Errorf("invoice.NewRenderer: %w", err)
	}

	e, err := httpapi.New(httpapi.Deps{
		Accounts:    accounts,
		Catalog:     catalogService,
		Carts:       carts,
		Checkout:    checkouts,
		Invoices:    invoices,
		Orders:      repos.Orders,
		Idempotency: idempotency,
		Metrics:     serverMetrics,
	}, httpapi.Config{
		Service:   cfg.Service,
		JWTSecret: []byte(cfg.Auth.JWTSecret),
		RateLimit: cfg.HTTP.RateLimit,
		RateBurst: cfg.HTTP.RateBurst,
	})
	if err != nil {
		return fmt.Errorf("httpapi.New: %w", err)
	}

	var wg sync.WaitGroup

	kafkaClient := kafka.NewClient(cfg.Kafka.Brokers)
	if kafkaClient.Enabled() {
		publisher, err := kafka.NewPublisher(kafkaClient)
		if err != nil {
			return fmt.Errorf("kafka.NewPublisher: %w", err)
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				log.Warn().Err(err).Msg("publisher.Close")
			}
		}()

		relay, err := outbox.NewRelay(tx, publisher, cfg.Kafka.RelayInterval, cfg.Kafka.BatchSize)
		if err != nil {
			return fmt.Errorf("outbox.NewRelay: %w", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			relay.Run(ctx)
		}()
	} else {
		log.Warn().Msg("kafka brokers not configured, order events stay in the outbox")
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("http server listening")
		if err := e.Start(cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serverErr:
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("e.Start: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("e.Shutdown")
	}

	stop()
	wg.Wait()

	return nil
}
