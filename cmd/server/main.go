package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-app/config"
	"chat-app/internal/handler"
	"chat-app/internal/model"
	"chat-app/internal/repository"
	"chat-app/internal/service"
	dbPkg "chat-app/pkg/db"
	"chat-app/pkg/jwt"
	"chat-app/pkg/logger"
	redisPkg "chat-app/pkg/redis"
	"chat-app/pkg/response"
	"chat-app/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()

	// 2. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer log.Sync()

	log.Info("=== 聊天应用启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_host", cfg.Database.Host),
		zap.Int("database_port", cfg.Database.Port),
		zap.String("database_name", cfg.Database.Database),
		zap.Duration("jwt_expire_time", cfg.JWT.ExpireTime),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化数据库连接池（进程级，启动时建立一次）
	db, err := dbPkg.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.CloseDB(); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	log.Info("数据库连接成功")

	// 3.1 自动迁移表结构（含用户名/邮箱唯一约束与好友关系有序对唯一约束）
	if err := dbPkg.AutoMigrate(&model.User{}, &model.Friendship{}); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("自动迁移完成")

	// 3.2 初始化Redis（在线状态使用；不可用时降级，不阻塞启动）
	if err := redisPkg.InitRedis(cfg.Redis); err != nil {
		log.Warn("Redis连接失败，在线状态功能降级", zap.Error(err))
	} else {
		defer redisPkg.Close()
		log.Info("Redis连接成功")
	}

	// 3.3 初始化业务服务
	jwtSvc := jwt.NewJWTService(cfg.JWT)
	userRepo := repository.NewUserRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	userSvc := service.NewUserService(userRepo, jwtSvc)
	friendshipSvc := service.NewFriendshipService(friendshipRepo, userRepo)
	userHandler := handler.NewUserHandler(userSvc)
	friendHandler := handler.NewFriendHandler(friendshipSvc, userSvc)

	// 4. 设置Gin模式
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 5. 创建Gin路由
	router := gin.New()
	router.Use(logger.RequestIDMiddleware())
	router.Use(logger.LoggerMiddleware())
	router.Use(logger.RecoveryMiddleware())

	// 6. 基础路由
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		if err := dbPkg.HealthCheck(); err != nil {
			status = "db-down"
		} else if err := redisPkg.HealthCheck(); err != nil {
			status = "redis-down"
		}
		response.Success(c, "chat-app status", gin.H{
			"health": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 6.1 API路由
	api := router.Group("/api")
	{
		// 公开接口（无需认证）
		api.POST("/register", userHandler.Register)
		api.POST("/login", userHandler.Login)

		// 需要认证的接口
		authed := api.Group("")
		authed.Use(jwtSvc.AuthMiddleware())
		{
			authed.GET("/send-friend-request", friendHandler.SendFriendRequest)
			authed.GET("/pending-friend-requests", friendHandler.PendingFriendRequests)
			authed.GET("/accept-friend-request", friendHandler.AcceptFriendRequest)
			authed.GET("/friends", friendHandler.ListFriends)
		}
	}

	// WebSocket路由（聊天广播）
	router.GET("/ws", websocket.NewHandler(jwtSvc, cfg.WebSocket))

	// 7. 创建HTTP服务器
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 8. 启动HTTP服务器
	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP服务器启动失败", zap.Error(err))
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
