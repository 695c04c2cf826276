package app

import (
	"context"
	"fmt"
	"math_quest_backend/internal/config"
	"math_quest_backend/internal/controller"
	"math_quest_backend/internal/repository"
	"math_quest_backend/internal/service"
	"math_quest_backend/internal/util"
	"math_quest_backend/pkg/configwatcher"
	"math_quest_backend/pkg/database"
	"math_quest_backend/pkg/logger"
	"math_quest_backend/pkg/monitoring"
	"math_quest_backend/pkg/random"
	"math_quest_backend/pkg/security"
	"math_quest_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigDir 配置文件目录，热加载监听其中的 config.yaml
const ConfigDir = "configs"

type App struct {
	Config  *config.Config
	Router  *gin.Engine
	DB      *gorm.DB
	Redis   *redis.Client
	Runtime *service.Runtime

	publisher       *service.BadgeMetadataPublisher
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type controllers struct {
	ledger *controller.LedgerController
	health *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// initStore 按 ledger.store 选择存储，启用 Redis 时在只读路径上叠加任务缓存
func (a *App) initStore(cfg *config.Config) (repository.Store, error) {
	var store repository.Store

	switch cfg.Ledger.Store {
	case util.StoreMemory:
		logger.Log.Warn("Using in-memory ledger store, state is lost on restart")
		store = repository.NewMemoryStore()
	case util.StoreMySQL:
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
		if err != nil {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		a.DB = db
		store = repository.NewGormStore(db)
	default:
		return nil, fmt.Errorf("unsupported ledger store %q", cfg.Ledger.Store)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("initialize redis: %w", err)
	}
	if rdb != nil {
		a.Redis = rdb
		ttl := time.Duration(cfg.Redis.QuestTTLMinutes) * time.Minute
		store = repository.NewCachedStore(store, repository.NewQuestCache(rdb, ttl))
	}
	return store, nil
}

func (a *App) initSinks(cfg *config.Config) ([]service.BadgeSink, error) {
	if !cfg.BadgeMetadata.Enabled {
		return nil, nil
	}

	uploader, err := service.NewMinioUploader(&cfg.BadgeMetadata)
	if err != nil {
		return nil, fmt.Errorf("initialize minio: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := uploader.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", cfg.BadgeMetadata.MinioBucket, err)
	}

	a.publisher = service.NewBadgeMetadataPublisher(uploader)
	return []service.BadgeSink{a.publisher}, nil
}

func (a *App) initControllers() *controllers {
	return &controllers{
		ledger: controller.NewLedgerController(a.Runtime),
		health: controller.NewHealthController(a.DB, a.Runtime),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	app := &App{Config: cfg}

	if cfg.MigrateOnly {
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
		if err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		app.DB = db
		return app
	}

	store, err := app.initStore(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize ledger store", zap.Error(err))
	}

	sinks, err := app.initSinks(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize badge metadata publisher", zap.Error(err))
	}

	dispatcher := service.NewDispatcher(service.HashOperandGenerator{}, cfg.Ledger.BadgeURIPrefix)
	app.Runtime = service.NewRuntime(store, dispatcher, random.CryptoSource{}, sinks...)

	if err := app.Runtime.EnsureInstantiated(context.Background(), cfg.Ledger.Owner); err != nil {
		logger.Log.Fatal("Failed to instantiate ledger", zap.Error(err))
	}
	owner, err := app.Runtime.Owner(context.Background())
	if err != nil {
		logger.Log.Fatal("Failed to read ledger owner", zap.Error(err))
	}
	if owner != cfg.Ledger.Owner {
		logger.Log.Warn("Stored ledger owner differs from config, keeping stored owner",
			zap.String("stored", owner), zap.String("configured", cfg.Ledger.Owner))
	}

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, app.initControllers(), cfg)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetLevel(newCfg)
		logger.Log.Info("Log level updated", zap.String("level", logger.Level().String()))
	})

	return app
}

func (a *App) watchConfig(ctx context.Context) {
	path := filepath.Join(ConfigDir, "config.yaml")
	err := configwatcher.WatchConfig(ctx, path, func(newCfg *config.Config) {
		for _, callback := range a.configCallbacks {
			callback(newCfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config watcher stopped", zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go a.watchConfig(watchCtx)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	// 等待进行中的徽章元数据上传
	if a.publisher != nil {
		a.publisher.Wait()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
	logger.Log.Sync()
}
