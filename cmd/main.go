package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conversation_weather/internal/cache"
	"conversation_weather/internal/clients/conversation"
	"conversation_weather/internal/clients/wunderground"
	"conversation_weather/internal/config"
	"conversation_weather/internal/dateutil"
	"conversation_weather/internal/logger"
	"conversation_weather/internal/middleware"
	"conversation_weather/internal/routes"
	"conversation_weather/internal/services"
	"conversation_weather/internal/slots"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		logger.New("info", "console").Fatal("加载配置失败", zap.Error(err))
	}

	zl := logger.New(cfg.Log.LogLevel(), cfg.Log.Format)
	defer zl.Sync()
	log := logger.NewZapAdapter(zl)

	// 天气客户端的调试日志单独开关
	utilLog := logger.NewNoOpLogger()
	if cfg.Log.DebugUtil {
		utilLog = logger.NewStructured("debug", cfg.Log.Format)
	}

	log.Info("天气对话服务启动中...", map[string]interface{}{
		"addr":                 cfg.Server.Addr(),
		"workspace_configured": cfg.Conversation.WorkspaceConfigured(),
	})

	weatherCache := newCache(cfg, log)
	defer weatherCache.Close()

	conversationClient := conversation.NewClient(conversation.Config{
		URL:      cfg.Conversation.URL,
		Username: cfg.Conversation.Username,
		Password: cfg.Conversation.Password,
		Version:  cfg.Conversation.Version,
		Timeout:  cfg.Conversation.Timeout,
	}, log)

	weatherClient := wunderground.NewClient(wunderground.Config{
		URL:      cfg.Weather.URL,
		APIKey:   cfg.Weather.APIKey,
		Timeout:  cfg.Weather.Timeout,
		CacheTTL: cfg.Weather.CacheTTL,
	}, weatherCache, utilLog)

	weatherService := services.NewWeatherService(dateutil.NewClassifier(nil), weatherClient, log)
	turnService := services.NewTurnService(
		cfg.Conversation,
		conversationClient,
		weatherService,
		slots.NewDisambiguator(cfg.Weather.ResolveStateValue),
		log,
	)

	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	middleware.Setup(engine, log)
	dialogHandler := routes.RegisterRoutes(engine, turnService, cfg.Server.StaticDir, log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 信号处理，用于优雅退出
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("HTTP服务器已启动", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP服务器异常退出", map[string]interface{}{"error": err.Error()})
			stop <- syscall.SIGTERM
		}
	}()

	<-stop
	log.Info("收到退出信号，开始关闭...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("关闭HTTP服务器失败", map[string]interface{}{"error": err.Error()})
	}

	// Shutdown不会等待已劫持的WebSocket连接
	dialogHandler.Close()

	log.Info("服务已关闭", nil)
}

// newCache 配置了Redis时使用Redis缓存，否则不缓存
func newCache(cfg *config.Config, log logger.Logger) cache.Cache {
	if cfg.Redis.Addr == "" || cfg.Weather.CacheTTL <= 0 {
		return cache.NopCache{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis不可用，天气响应不缓存", map[string]interface{}{"addr": cfg.Redis.Addr, "error": err.Error()})
		return cache.NopCache{}
	}
	log.Info("已启用天气响应缓存", map[string]interface{}{"addr": cfg.Redis.Addr, "ttl": cfg.Weather.CacheTTL.String()})
	return rc
}
