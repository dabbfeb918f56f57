package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skill-swap/config"
	"skill-swap/internal/handler"
	"skill-swap/internal/model"
	"skill-swap/internal/repository"
	"skill-swap/internal/service"
	dbPkg "skill-swap/pkg/db"
	"skill-swap/pkg/events"
	"skill-swap/pkg/jwt"
	"skill-swap/pkg/logger"
	"skill-swap/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log, err := logger.InitLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("=== Skill Swap 服务启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("database_host", cfg.Database.Host),
		zap.String("database_name", cfg.Database.Database),
		zap.Duration("jwt_expire_time", cfg.JWT.ExpireTime),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Bool("require_accepted_swap", cfg.Messaging.RequireAcceptedSwap),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化数据库连接
	if _, err := dbPkg.InitDB(cfg.Database); err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.CloseDB(); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 3.1 自动迁移表结构
	if err := dbPkg.AutoMigrate(model.All()...); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	// 4. Redis（可选）：会话缓存与令牌黑名单，不可用时降级运行
	var redisHealth handler.HealthChecker
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redis.InitRedis(ctx, cfg.Redis)
		cancel()
		if err != nil {
			log.Warn("Redis连接失败，缓存与登出黑名单不可用", zap.Error(err))
		} else {
			log.Info("Redis连接成功")
			redisHealth = redis.HealthCheck
			defer redis.Close()
		}
	}

	// 5. 事件发布
	publisher := events.NewPublisher(cfg.AMQP)
	defer publisher.Close()
	log.Info("事件发布模式", zap.String("mode", events.Mode(publisher)))

	// 6. 初始化业务服务
	gdb := dbPkg.GetDB()
	jwtSvc := jwt.NewJWTService(cfg.JWT)
	var revoker service.TokenRevoker
	msgOpts := []service.MessageServiceOption{
		service.WithPublisher(publisher),
		service.WithRequireAcceptedSwap(cfg.Messaging.RequireAcceptedSwap),
	}
	if redis.Enabled() {
		deny := redis.TokenDenyList{}
		jwtSvc.WithDenyList(deny)
		revoker = deny
		msgOpts = append(msgOpts, service.WithThreadCache(redis.NewThreadCache(cfg.Messaging.CacheTTL)))
	}

	userRepo := repository.NewUserRepository(gdb)
	skillRepo := repository.NewSkillRepository(gdb)
	swapRepo := repository.NewSwapRequestRepository(gdb)
	messageRepo := repository.NewMessageRepository(gdb)
	reviewRepo := repository.NewReviewRepository(gdb)

	handlers := handler.Handlers{
		User:    handler.NewUserHandler(service.NewUserService(userRepo, jwtSvc, revoker, publisher)),
		Skill:   handler.NewSkillHandler(service.NewSkillService(skillRepo, userRepo)),
		Swap:    handler.NewSwapHandler(service.NewSwapService(swapRepo, userRepo, skillRepo, publisher)),
		Message: handler.NewMessageHandler(service.NewMessageService(messageRepo, userRepo, swapRepo, msgOpts...)),
		Review:  handler.NewReviewHandler(service.NewReviewService(reviewRepo, userRepo, publisher)),
		Health:  handler.NewHealthHandler(dbPkg.HealthCheck, redisHealth),
	}

	// 7. 设置Gin模式并创建路由
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	opts := handler.RouterOptions{}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}
	router := handler.NewRouter(handlers, jwtSvc.AuthMiddleware(), opts)

	// 8. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 9. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}

	log.Info("服务器已安全关闭")
}
