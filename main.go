package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lovereel/internal/agent"
	"lovereel/internal/config"
	"lovereel/internal/generation"
	"lovereel/internal/observability"
	"lovereel/internal/poster"
	"lovereel/internal/server"
	"lovereel/internal/service"
	"lovereel/internal/store"
	"lovereel/internal/tools"
	"lovereel/internal/volc"
)

func main() {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("加载 .env 失败: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	logCloser, err := config.InitLogging(log, cfg)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.Setup(ctx, observability.TracingConfig{
		Exporter: cfg.TraceExporter,
		Endpoint: cfg.OTLPEndpoint,
	}, log)
	if err != nil {
		log.Fatalf("初始化追踪失败: %v", err)
	}

	// 初始化ArkClient
	arkClient := volc.NewArkClient(volc.Options{
		BaseURL: cfg.ArkBaseURL,
		APIKey:  cfg.ArkAPIKey,
		Timeout: cfg.ArkTimeout,
		Mock:    cfg.ArkMock,
	}, log)

	chatModel, err := generation.NewChatModel(ctx, generation.ProviderConfig{
		Provider:    cfg.LLMProvider,
		Model:       cfg.ChatModel,
		Region:      cfg.ArkRegion,
		Temperature: cfg.GenerationTemperature,
	}, arkClient)
	if err != nil {
		log.Fatalf("初始化模型失败: %v", err)
	}
	generator := generation.NewRetrying(
		generation.NewClient(chatModel, cfg.GenerationTemperature, log),
		cfg.GenerationMaxRetries, 0, log)

	// 初始化存储
	gateway, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	stories := service.NewStoryService(generator, gateway, cfg.BaseURL, log)

	posters, err := poster.NewService(arkClient, cfg.ImageModel, cfg.PosterDir, log)
	if err != nil {
		log.Fatalf("初始化海报服务失败: %v", err)
	}
	sweeper := poster.NewSweeper(cfg.PosterDir, cfg.PosterRetention, cfg.PosterSweepInterval, log)
	go sweeper.Run(ctx)

	quizAgent := agent.NewQuizAgent(stories, posters, server.PosterURL, cfg.SessionTTL, log)

	// 初始化工具
	storyTool := tools.NewStoryTool(stories)
	posterTool := tools.NewPosterTool(posters, server.PosterURL)

	// 初始化Gin路由
	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(server.Deps{
		Stories:    stories,
		Quiz:       quizAgent,
		StoryTool:  storyTool,
		PosterTool: posterTool,
		PosterDir:  cfg.PosterDir,
		Log:        log,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 在goroutine中启动服务器
	go func() {
		log.Infof("服务器启动在 %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("启动服务器失败: %v", err)
		}
	}()

	// 等待中断信号
	<-ctx.Done()
	log.Info("关闭服务器...")

	// 优雅关闭服务器
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("服务器关闭失败: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warnf("追踪关闭失败: %v", err)
	}

	log.Info("服务器已关闭")
}

// openStore 按配置选择存储，并在配置了 REDIS_ADDR 时加上读缓存
func openStore(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (store.Gateway, func()) {
	var (
		gateway store.Gateway
		closers []func()
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		gateway = store.NewMemoryStore()
	default:
		gormStore, err := store.OpenGorm(cfg.StoreDriver, cfg.StoreDSN, log)
		if err != nil {
			log.Fatalf("打开存储失败: %v", err)
		}
		gateway = gormStore
		closers = append(closers, func() { _ = gormStore.Close() })
	}

	if cfg.RedisAddr != "" {
		rdb, err := store.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithFields(logrus.Fields{"addr": cfg.RedisAddr, "error": err}).Warn("redis unavailable, story cache disabled")
		} else {
			closers = append(closers, func() { _ = rdb.Close() })
		}
		gateway = store.NewCached(gateway, rdb, cfg.RedisTTL, log)
	}

	return gateway, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}
