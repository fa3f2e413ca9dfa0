package app

import (
	"aglc_chat/internal/backend"
	"aglc_chat/internal/config"
	"aglc_chat/internal/controller"
	"aglc_chat/internal/model"
	"aglc_chat/internal/repository"
	"aglc_chat/internal/service"
	"aglc_chat/internal/session"
	"aglc_chat/internal/util"
	"aglc_chat/internal/view"
	"aglc_chat/pkg/configwatcher"
	"aglc_chat/pkg/database"
	"aglc_chat/pkg/logger"
	"aglc_chat/pkg/monitoring"
	"aglc_chat/pkg/security"
	"aglc_chat/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// 活跃会话在内存中保留的空闲时长，超过后只保留存储中的快照
const sessionIdleTimeout = 30 * time.Minute

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	Redis    *redis.Client
	Sessions *session.Manager
	Backend  *backend.Client

	memoryRepo      *repository.MemorySessionRepository
	tracer          *sdktrace.TracerProvider
	cancel          context.CancelFunc
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type services struct {
	chat      *service.ChatService
	embedding *service.EmbeddingService
}

type controllers struct {
	page      *controller.PageController
	chat      *controller.ChatController
	embedding *controller.EmbeddingController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initSessionRepository(cfg *config.Config) repository.SessionRepository {
	if cfg.Session.Store == config.SessionStoreRedis {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
		a.Redis = rdb
		return repository.NewRedisSessionRepository(rdb, cfg.Session.TTL)
	}

	a.memoryRepo = repository.NewMemorySessionRepository(cfg.Session.TTL)
	return a.memoryRepo
}

func (a *App) initServices() *services {
	return &services{
		chat:      service.NewChatService(a.Backend, a.Sessions),
		embedding: service.NewEmbeddingService(a.Sessions),
	}
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		page:      controller.NewPageController(),
		chat:      controller.NewChatController(s.chat),
		embedding: controller.NewEmbeddingController(s.embedding),
		health:    controller.NewHealthController(a.Sessions, a.Config.Session.Store),
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

func (a *App) startBackgroundTasks(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.Sessions.Evict(sessionIdleTimeout)
				if a.memoryRepo != nil {
					if n := a.memoryRepo.Sweep(); n > 0 {
						logger.Log.Debug("expired session snapshots removed", zap.Int("count", n))
					}
				}
			}
		}
	}()

	if a.Config.Path == "" {
		return
	}
	go func() {
		if err := configwatcher.WatchConfig(ctx, a.Config.Path, a.applyConfig); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == util.ServerModeRelease {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		Config:  cfg,
		Backend: backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout),
	}

	repo := app.initSessionRepository(cfg)
	app.Sessions = session.NewManager(repo, app.Backend, model.EmbeddingMode(cfg.Embedding.DefaultMode))

	services := app.initServices()
	controllers := app.initControllers(services)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	router := gin.Default()
	app.Router = router

	tmpl, err := view.Templates()
	if err != nil {
		logger.Log.Fatal("Failed to parse templates", zap.Error(err))
	}
	router.SetHTMLTemplate(tmpl)

	app.setupMiddlewares(router, cfg)
	router.StaticFS("/static", http.FS(view.Static()))
	app.registerRoutes(router, controllers, cfg)

	// 热更新：后端地址和日志级别
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		if newCfg.Backend.BaseURL != app.Backend.BaseURL() {
			logger.Log.Info("Backend base URL changed", zap.String("base_url", newCfg.Backend.BaseURL))
			app.Backend.SetBaseURL(newCfg.Backend.BaseURL)
		}
		logger.SetMode(newCfg.Server.Mode)
	})

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.startBackgroundTasks(ctx)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
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
}
