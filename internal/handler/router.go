package handler

import (
	"skill-swap/pkg/logger"
	"skill-swap/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	User    *UserHandler
	Skill   *SkillHandler
	Swap    *SwapHandler
	Message *MessageHandler
	Review  *ReviewHandler
	Health  *HealthHandler
}

// RouterOptions 路由可选项
type RouterOptions struct {
	MetricsPath string // 为空时不暴露指标端点
}

// NewRouter 创建带通用中间件的 gin 引擎并注册路由
func NewRouter(h Handlers, auth gin.HandlerFunc, opts RouterOptions) *gin.Engine {
	router := gin.New()

	router.Use(logger.RequestID())
	router.Use(logger.RequestLogger())
	router.Use(logger.ErrorLoggerMiddleware())
	if opts.MetricsPath != "" {
		router.Use(metrics.HTTPMetricsMiddleware())
		router.GET(opts.MetricsPath, metrics.Handler())
	}

	RegisterRoutes(router, h, auth)
	return router
}

// RegisterRoutes 注册业务路由，auth 为认证中间件
func RegisterRoutes(router *gin.Engine, h Handlers, auth gin.HandlerFunc) {
	if h.Health != nil {
		router.GET("/health", h.Health.Health)
	}

	api := router.Group("/api")
	{
		// 公开接口（无需认证）
		api.POST("/register", h.User.Register)
		api.POST("/login", h.User.Login)
		api.GET("/users/:id", h.User.GetUser)
		api.GET("/users/:id/reviews", h.Review.ListReviews)
		api.GET("/skills", h.Skill.ListSkills)

		// 需要认证的接口
		authed := api.Group("")
		authed.Use(auth)
		{
			authed.POST("/logout", h.User.Logout)
			authed.GET("/user", h.User.CurrentUser)
			authed.PATCH("/users/:id", h.User.UpdateUser)

			authed.POST("/skills", h.Skill.CreateSkill)

			authed.GET("/requests", h.Swap.ListRequests)
			authed.POST("/requests", h.Swap.CreateRequest)
			authed.PATCH("/requests/:id/status", h.Swap.UpdateStatus)

			authed.GET("/messages/:userId", h.Message.ListMessages)
			authed.POST("/messages", h.Message.SendMessage)

			authed.POST("/reviews", h.Review.CreateReview)
		}
	}
}
