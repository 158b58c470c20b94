package factory

import (
	"context"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"

	"machflow/internal/concurrent"
	"machflow/internal/config"
	"machflow/internal/domain"
	"machflow/internal/repository"
	"machflow/internal/service"
	"machflow/internal/store"
	"machflow/pkg/cache"
	"machflow/pkg/logger"
)

type Factory interface {
	GetLogger() logger.Logger
	GetConfig() *config.Config
	GetStore() *store.SQLiteStore
	GetRedisClient() *redis.Client
	GetCache() cache.Cache
	GetCacheManager() cache.CacheStrategy
	GetDispatcher() *concurrent.Dispatcher

	GetUserRepository() domain.UserRepository
	GetInteractionRepository() domain.InteractionRepository
	GetPendingOrderRepository() domain.PendingOrderRepository
	GetOrderRepository() domain.OrderRepository
	GetMachineRepository() domain.MachineRepository

	GetUserService() domain.UserService
	GetOrderService() domain.OrderService
	GetStatsService() domain.StatsService
	GetIngestionService() domain.IngestionService
	GetSeedService() *service.SeedService
	GetReconciler() *service.Reconciler

	Close()
}

type AppFactory struct {
	config       *config.Config
	logger       logger.Logger
	store        *store.SQLiteStore
	redisClient  *redis.Client
	cache        cache.Cache
	cacheManager cache.CacheStrategy
	dispatcher   *concurrent.Dispatcher
	tickStats    *concurrent.TickStats

	userRepository         domain.UserRepository
	interactionRepository  domain.InteractionRepository
	pendingOrderRepository domain.PendingOrderRepository
	orderRepository        domain.OrderRepository
	machineRepository      domain.MachineRepository

	userService      domain.UserService
	orderService     domain.OrderService
	statsService     domain.StatsService
	ingestionService domain.IngestionService
	seedService      *service.SeedService
	reconciler       *service.Reconciler
	invalidator      service.StatsInvalidator
}

func NewFactory() (Factory, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.LogLevel(cfg.LogLevel), nil)

	st, err := store.NewSQLiteStore(cfg.Store.Path, log)
	if err != nil {
		return nil, fmt.Errorf("depo açılamadı: %w", err)
	}

	factory := &AppFactory{
		config:    cfg,
		logger:    log,
		store:     st,
		tickStats: concurrent.NewTickStats(),
		dispatcher: concurrent.NewDispatcher(
			cfg.Reconcile.EventBuffer,
			cfg.Reconcile.NotificationTTL,
			log,
		),
	}

	factory.initCache()
	factory.initRepositories()
	factory.initServices()

	return factory, nil
}

// initCache connects Redis when configured. A missing or unreachable Redis
// degrades the process to direct computation instead of failing startup; the
// dashboard must come up on installations without a cache.
func (f *AppFactory) initCache() {
	if f.config.Redis.Host == "" {
		f.logger.Info("Redis yapılandırılmamış, önbellek devre dışı", map[string]interface{}{})
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", f.config.Redis.Host, f.config.Redis.Port),
		Password: f.config.Redis.Password,
		DB:       f.config.Redis.DB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		f.logger.Warn("Redis bağlantısı kurulamadı, önbellek devre dışı", map[string]interface{}{
			"error": err.Error(),
		})
		client.Close()
		return
	}

	f.redisClient = client
	f.cache = cache.NewRedisCache(client, f.logger, "machflow")
	f.cacheManager = cache.NewCacheManager(f.cache, f.logger)
}

func (f *AppFactory) initRepositories() {
	f.userRepository = repository.NewUserRepository(f.store, f.logger)
	f.interactionRepository = repository.NewInteractionRepository(f.store, f.logger)
	f.pendingOrderRepository = repository.NewPendingOrderRepository(f.store, f.logger)
	f.orderRepository = repository.NewOrderRepository(f.store, f.logger)
	f.machineRepository = repository.NewMachineRepository(f.store, f.logger)
}

func (f *AppFactory) initServices() {
	baseStatsService := service.NewStatsService(
		f.userRepository,
		f.interactionRepository,
		f.machineRepository,
		f.logger,
	)

	if f.cache != nil {
		cachedStats := service.NewCachedStatsService(baseStatsService, f.cache, f.cacheManager, f.logger)
		f.statsService = cachedStats
		f.invalidator = cachedStats
	} else {
		f.statsService = baseStatsService
	}

	f.ingestionService = service.NewIngestionService(
		f.userRepository,
		f.interactionRepository,
		f.pendingOrderRepository,
		f.invalidator,
		f.logger,
	)

	f.userService = service.NewUserService(f.userRepository, f.dispatcher, f.invalidator, f.logger)
	f.orderService = service.NewOrderService(f.orderRepository, f.dispatcher, f.invalidator, f.logger)
	f.seedService = service.NewSeedService(f.store, f.config.Seed.Source, f.logger)

	f.reconciler = service.NewReconciler(
		f.userRepository,
		f.ingestionService,
		f.dispatcher,
		f.cache,
		f.invalidator,
		f.config.Reconcile.Interval,
		f.tickStats,
		f.logger,
	)
}

func (f *AppFactory) GetLogger() logger.Logger {
	return f.logger
}

func (f *AppFactory) GetConfig() *config.Config {
	return f.config
}

func (f *AppFactory) GetStore() *store.SQLiteStore {
	return f.store
}

func (f *AppFactory) GetRedisClient() *redis.Client {
	return f.redisClient
}

func (f *AppFactory) GetCache() cache.Cache {
	return f.cache
}

func (f *AppFactory) GetCacheManager() cache.CacheStrategy {
	return f.cacheManager
}

func (f *AppFactory) GetDispatcher() *concurrent.Dispatcher {
	return f.dispatcher
}

func (f *AppFactory) GetUserRepository() domain.UserRepository {
	return f.userRepository
}

func (f *AppFactory) GetInteractionRepository() domain.InteractionRepository {
	return f.interactionRepository
}

func (f *AppFactory) GetPendingOrderRepository() domain.PendingOrderRepository {
	return f.pendingOrderRepository
}

func (f *AppFactory) GetOrderRepository() domain.OrderRepository {
	return f.orderRepository
}

func (f *AppFactory) GetMachineRepository() domain.MachineRepository {
	return f.machineRepository
}

func (f *AppFactory) GetUserService() domain.UserService {
	return f.userService
}

func (f *AppFactory) GetOrderService() domain.OrderService {
	return f.orderService
}

func (f *AppFactory) GetStatsService() domain.StatsService {
	return f.statsService
}

func (f *AppFactory) GetIngestionService() domain.IngestionService {
	return f.ingestionService
}

func (f *AppFactory) GetSeedService() *service.SeedService {
	return f.seedService
}

func (f *AppFactory) GetReconciler() *service.Reconciler {
	return f.reconciler
}

func (f *AppFactory) Close() {
	f.dispatcher.Close()

	if f.redisClient != nil {
		if err := f.redisClient.Close(); err != nil {
			f.logger.Error("Redis bağlantısı kapatılamadı", map[string]interface{}{"error": err.Error()})
		}
	}

	if err := f.store.Close(); err != nil {
		f.logger.Error("Depo kapatılamadı", map[string]interface{}{"error": err.Error()})
	}
}
