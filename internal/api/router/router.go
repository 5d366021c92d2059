package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nithishvaduganathan/Gate-Entry/config"
	"github.com/nithishvaduganathan/Gate-Entry/internal/api/handler"
	"github.com/nithishvaduganathan/Gate-Entry/internal/api/middleware"
	"github.com/nithishvaduganathan/Gate-Entry/pkg/jwt"
	"github.com/nithishvaduganathan/Gate-Entry/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Upload.MaxBytes))

	// ── 健康检查 / 访客照片 ──
	r.GET("/health", h.Health.Check)
	r.Static(cfg.Upload.URLPrefix, cfg.Upload.Dir)

	adminOnly := middleware.RoleAuth("admin")

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, time.Minute, logger), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 审批人目录
			authorities := authorized.Group("/authorities")
			{
				authorities.GET("", h.Authority.ListActive)
				authorities.GET("/all", adminOnly, h.Authority.ListAll)
				authorities.GET("/:id", h.Authority.Get)
				authorities.POST("", adminOnly, h.Authority.Create)
				authorities.PUT("/:id", adminOnly, h.Authority.Update)
			}

			// 访客
			visitors := authorized.Group("/visitors")
			{
				visitors.POST("", h.Visitor.Register)
				visitors.GET("", h.Visitor.List)
				visitors.GET("/active", h.Visitor.ListActive)
				visitors.GET("/:id", h.Visitor.Get)
				visitors.POST("/:id/approve", adminOnly, h.Visitor.Approve)
				visitors.POST("/:id/reject", adminOnly, h.Visitor.Reject)
				visitors.POST("/:id/exit", h.Visitor.Exit)
			}

			// 车辆出入
			vehicles := authorized.Group("/vehicles")
			{
				vehicles.POST("", h.Vehicle.RegisterEntry)
				vehicles.GET("", h.Vehicle.List)
				vehicles.GET("/active", h.Vehicle.ListActive)
				vehicles.GET("/:id", h.Vehicle.Get)
				vehicles.POST("/:id/exit", h.Vehicle.Exit)
			}

			// 通知（非管理员返回空列表，Service 层处理）
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.POST("/:id/read", h.Notification.MarkRead)
			}

			authorized.GET("/search", h.Search.Search)

			// 看板
			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/stats", h.Report.Stats)
				dashboard.GET("/weekly", h.Report.Weekly)
				dashboard.GET("/recent", h.Report.Recent)
			}

			// 报表
			reports := authorized.Group("/reports")
			{
				reports.GET("/visitors", h.Report.VisitorReport)
				reports.GET("/vehicles", h.Report.VehicleReport)
				reports.GET("/export", adminOnly, h.Report.Export)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
