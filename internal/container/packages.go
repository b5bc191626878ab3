package container

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/items-api/internal/cache"
	"github.com/serroba/items-api/internal/events"
	"github.com/serroba/items-api/internal/handlers"
	"github.com/serroba/items-api/internal/health"
	"github.com/serroba/items-api/internal/items"
	"github.com/serroba/items-api/internal/messaging"
	"github.com/serroba/items-api/internal/middleware"
	"github.com/serroba/items-api/internal/ratelimit"
	"go.uber.org/zap"
)

// LoggerPackage provides the application logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the shared Redis client. Rate limit counters,
// cache entries, and event streams all live on this connection.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		opts := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx connection pool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		opts := do.MustInvoke[*Options](i)

		return pgxpool.New(context.Background(), opts.PostgresDSN)
	})
}

// RateLimitPackage provides the fixed window limiter backed by Redis.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Limiter, error) {
		opts := do.MustInvoke[*Options](i)
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		limiter, err := ratelimit.NewFixedWindowLimiter(
			ratelimit.NewRedisStore(client),
			ratelimit.Config{
				Requests:  opts.RateLimitRequests,
				Window:    time.Duration(opts.RateLimitWindowSeconds) * time.Second,
				KeyPrefix: "ratelimit:",
				Enabled:   opts.RateLimitEnabled,
				FailOpen:  opts.RateLimitFailOpen,
			},
			logger,
		)
		if err != nil {
			return nil, err
		}

		return limiter, nil
	})
}

// CachePackage provides the response cache and its invalidation worker.
func CachePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*cache.Cache, error) {
		opts := do.MustInvoke[*Options](i)
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return cache.New(
			cache.NewRedisStore(client),
			"cache:",
			time.Duration(opts.CacheExpireSeconds)*time.Second,
			opts.CacheEnabled,
			logger,
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*cache.Invalidator, error) {
		opts := do.MustInvoke[*Options](i)
		c := do.MustInvoke[*cache.Cache](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return cache.NewInvalidator(c, opts.InvalidationQueueSize, cache.DropOldest, logger), nil
	})
}

// RepositoryPackage provides the item repository and service.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (items.Repository, error) {
		pool := do.MustInvoke[*pgxpool.Pool](i)

		return items.NewPostgresRepository(pool), nil
	})

	do.Provide(injector, func(i *do.Injector) (*items.Service, error) {
		return items.NewService(
			do.MustInvoke[items.Repository](i),
			do.MustInvoke[*cache.Cache](i),
			do.MustInvoke[*cache.Invalidator](i),
			do.MustInvoke[messaging.Publish[events.ItemChangedEvent]](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// PublisherGroupPackage provides the Redis Streams publisher and the
// typed publish function for item change events.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: client},
			watermill.NopLogger{},
		)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[events.ItemChangedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[events.ItemChangedEvent](group.Publisher(), events.TopicItemChanged), nil
	})
}

// ConsumerGroupPackage provides the consumer group that evicts cached
// reads when another instance reports an item change.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)
		invalidator := do.MustInvoke[*cache.Invalidator](i)

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        client,
				ConsumerGroup: "items-api",
			},
			watermill.NopLogger{},
		)
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			events.TopicItemChanged,
			events.NewInvalidationHandler(invalidator, logger),
			logger,
		))

		return group, nil
	})
}

// HTTPPackage provides the router and the huma API with middleware and
// routes registered. Invoking the API wires the whole request path.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		limiter := do.MustInvoke[ratelimit.Limiter](i)
		service := do.MustInvoke[*items.Service](i)

		api := humachi.New(router, huma.DefaultConfig("Items API", "1.0.0"))
		api.UseMiddleware(
			middleware.NewRequestMeta(api),
			middleware.RateLimiter(api, limiter, nil, logger),
		)

		handlers.RegisterRoutes(api, handlers.NewItemHandler(service, logger))
		health.RegisterRoutes(api, health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i)),
		))

		return api, nil
	})
}
