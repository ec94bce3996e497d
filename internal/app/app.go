package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/cache"
	"github.com/niksmo/storefront/internal/adapter/cdn"
	"github.com/niksmo/storefront/internal/adapter/curated"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/sr"
)

type blocklist struct {
	enabled   bool
	producer  kafka.ProductFilterProducer
	processor kafka.ProductFilterProcessor
	view      *kafka.BlocklistView
}

type outbound struct {
	sqlDB       storage.SQLDB
	redis       *redis.Client
	sources     []port.ProductSource
	images      port.ImageResolver
	resultCache port.ResultCache
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	outbound   outbound
	blocklist  blocklist
	service    *service.Service
	httpServer httphandler.HTTPServer
	views      sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initSources()
	app.initCache()
	app.initBlocklist()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initSources() {
	const op = "App.initSources"

	sqlDB, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.outbound.sqlDB = sqlDB

	bundles, err := curated.Load(app.cfg.Catalog.CuratedBundlesFile)
	if err != nil {
		app.fallDown(op, err)
	}

	images, err := cdn.NewResolver(cdn.Config{
		BaseURL:      app.cfg.Catalog.CDNBaseURL,
		LegacyHosts:  app.cfg.Catalog.LegacyStorageHosts,
		Placeholders: app.cfg.Catalog.Placeholders,
	})
	if err != nil {
		app.fallDown(op, err)
	}

	app.outbound.images = images
	app.outbound.sources = []port.ProductSource{
		storage.NewProductsRepository(sqlDB),
		bundles,
	}
}

func (app *App) initCache() {
	const op = "App.initCache"
	ttl := cache.NormalizeTTL(app.cfg.Cache.TTL)

	switch app.cfg.Cache.Backend {
	case config.CacheRedis:
		client, err := cache.DialRedis(app.ctx, app.cfg.Cache.RedisAddr)
		if err != nil {
			app.fallDown(op, err)
		}
		app.outbound.redis = client
		app.outbound.resultCache = cache.NewRedis(client, ttl)
	case config.CacheNone:
		app.outbound.resultCache = cache.Nop{}
	default:
		app.outbound.resultCache = cache.NewMemory(ttl)
	}
	slog.Info("result cache", "op", op, "backend", app.cfg.Cache.Backend, "ttl", ttl)
}

func (app *App) initBlocklist() {
	const op = "App.initBlocklist"

	if !app.cfg.BlocklistEnabled() {
		slog.Warn("broker is not configured, blocklist is disabled", "op", op)
		return
	}

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	stream := app.cfg.Broker.Topics.FilterProductStream
	group := app.cfg.Broker.Consumers.FilterProductGroup

	srClient, err := sr.NewClient(sr.URLs(app.cfg.Broker.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	serde, err := schema.NewSerdeProductFilterV1(
		ctx,
		schema.TopicSubjectOpt(stream),
		schema.SchemaIdentifierOpt(schema.NewRegistryIdentifier(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewProductFilterProducer(
		kafka.ProductFilterProducerClientOpt(ctx, seedBrokers, stream),
		kafka.ProductFilterProducerEncoderOpt(serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	processor, err := kafka.NewProductFilterProcessor(
		seedBrokers, stream, group, serde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	view, err := kafka.NewBlocklistView(seedBrokers, group)
	if err != nil {
		app.fallDown(op, err)
	}

	app.blocklist = blocklist{
		enabled:   true,
		producer:  producer,
		processor: processor,
		view:      view,
	}
}

func (app *App) initCoreService() {
	cfg := service.Config{
		DefaultLimit: app.cfg.Catalog.DefaultLimit,
		MaxLimit:     app.cfg.Catalog.MaxLimit,
		FetchTimeout: app.cfg.Catalog.FetchTimeout,
	}

	var (
		reader   port.BlocklistReader
		producer port.ProductFilterProducer
	)
	if app.blocklist.enabled {
		reader = app.blocklist.view
		producer = app.blocklist.producer
	}

	app.service = service.New(
		cfg,
		app.outbound.sources,
		service.NewNormalizer(app.outbound.images),
		app.outbound.resultCache,
		reader,
		producer,
	)
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, app.service)
	httphandler.RegisterFilter(mux, app.service)

	handler := httphandler.RequestLog(mux)
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, app.cfg.HTTPTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	if app.blocklist.enabled {
		var ready sync.WaitGroup
		ready.Add(1)
		go app.blocklist.processor.Run(app.ctx, &ready)
		ready.Wait()

		app.views.Add(1)
		go app.blocklist.view.Run(app.ctx, &app.views)
	}

	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)

	if app.blocklist.enabled {
		app.blocklist.processor.Close()
		app.views.Wait()
		app.blocklist.producer.Close()
	}

	if app.outbound.redis != nil {
		if err := app.outbound.redis.Close(); err != nil {
			slog.Error("failed to close redis client", "err", err)
		}
	}
	app.outbound.sqlDB.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
