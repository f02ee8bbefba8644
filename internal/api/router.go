package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/poker-pool/internal/config"
	"github.com/wfunc/poker-pool/internal/middleware"
	"github.com/wfunc/poker-pool/internal/repository"
	"github.com/wfunc/poker-pool/internal/service"
	"github.com/wfunc/poker-pool/internal/utils"
	"github.com/wfunc/poker-pool/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine         *gin.Engine
	db             *gorm.DB
	hub            *websocket.Hub
	authHandler    *AuthHandler
	roomHandler    *RoomHandler
	historyHandler *HistoryHandler
	wsHandler      *WebSocketHandler
	authMiddleware *middleware.AuthMiddleware
	log            *zap.Logger
}

// NewRouter 创建路由器并装配服务
func NewRouter(db *gorm.DB, cfg *config.Config, hub *websocket.Hub, log *zap.Logger) *Router {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())

	// JWT管理器
	jwtManager := utils.NewJWTManager(
		cfg.Security.JWT.Secret,
		time.Duration(cfg.Security.JWT.ExpireHours)*time.Hour,
		time.Duration(cfg.Security.JWT.RefreshHours)*time.Hour,
	)

	// 仓储
	userRepo := repository.NewUserRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// 服务：房间变更通过hub推送给订阅方
	authService := service.NewAuthService(userRepo, jwtManager, log)
	roomService := service.NewRoomService(db, roomRepo, historyRepo, service.RoomServiceConfig{
		CodeAttempts: cfg.Game.CodeAttempts,
		CasRetries:   cfg.Game.CasRetries,
		MaxPlayers:   cfg.Game.MaxPlayers,
	}, hub, log)
	historyService := service.NewHistoryService(historyRepo, log)

	router := &Router{
		engine:         engine,
		db:             db,
		hub:            hub,
		authHandler:    NewAuthHandler(authService),
		roomHandler:    NewRoomHandler(roomService),
		historyHandler: NewHistoryHandler(historyService),
		wsHandler:      NewWebSocketHandler(hub, roomService, log),
		authMiddleware: middleware.NewAuthMiddleware(jwtManager),
		log:            log,
	}

	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API v1路由组
	v1 := r.engine.Group("/api/v1")
	{
		// 认证相关路由（不需要认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/guest", r.authHandler.Guest)
			auth.POST("/refresh", r.authHandler.RefreshToken)
		}

		// 房间相关路由（需要认证）
		rooms := v1.Group("/rooms")
		rooms.Use(r.authMiddleware.RequireAuth())
		{
			rooms.POST("", r.roomHandler.Create)
			rooms.GET("/:code", r.roomHandler.Get)
			rooms.POST("/:code/join", r.roomHandler.Join)
			rooms.POST("/:code/start", r.roomHandler.Start)
			rooms.POST("/:code/select", r.roomHandler.Select)
			rooms.POST("/:code/draw", r.roomHandler.Draw)
		}

		// 对局历史路由（需要认证）
		history := v1.Group("/history")
		history.Use(r.authMiddleware.RequireAuth())
		{
			history.GET("", r.historyHandler.GetHistory)
		}
	}

	// WebSocket房间订阅
	ws := r.engine.Group("/ws")
	ws.Use(r.authMiddleware.RequireAuth())
	{
		ws.GET("/rooms/:code", r.wsHandler.SubscribeRoom)
	}

	// API文档路由
	registerSwaggerRoutes(r.engine)
	registerOpenAPIRoutes(r.engine)

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    "NOT_FOUND",
			"message": "接口不存在",
		})
	})
}

// requestLogger 请求日志中间件
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		r := c.Request
		logRequest(r.Method, r.URL.Path, c.Writer.Status(), latency, c.ClientIP())
	}
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(200, gin.H{
		"status":      "healthy",
		"connections": r.hub.GetOnlineCount(),
	})
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试与外部Server装配）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
