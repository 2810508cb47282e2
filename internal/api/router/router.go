package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escala/backend/config"
	"escala/backend/internal/api/handler"
	"escala/backend/internal/api/middleware"
	"escala/backend/pkg/jwt"
	"escala/backend/pkg/redis"
)

// Setup initializes and returns the Gin engine.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// auth endpoints open to anonymous callers, throttled
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// everything below requires a valid access token
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// users
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth("admin"), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth("admin"), h.User.GetUser)
				users.PUT("/me", h.User.UpdateUser)
			}

			// departments and their functions
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", middleware.RoleAuth("admin"), h.Department.CreateDepartment)
				departments.PUT("/:id", middleware.RoleAuth("admin"), h.Department.UpdateDepartment)
				departments.DELETE("/:id", middleware.RoleAuth("admin"), h.Department.DeleteDepartment)

				departments.GET("/:id/functions", h.Department.ListFunctions)
				departments.POST("/:id/functions", middleware.RoleAuth("admin"), h.Department.CreateFunction)
				departments.PUT("/:id/functions/:function_id", middleware.RoleAuth("admin"), h.Department.UpdateFunction)
				departments.DELETE("/:id/functions/:function_id", middleware.RoleAuth("admin"), h.Department.DeleteFunction)

				// membership; leader checks happen in the service layer
				departments.GET("/:id/members", h.Member.ListMembers)
				departments.POST("/:id/members", h.Member.AddMember)
				departments.PUT("/:id/members/:member_id", h.Member.UpdateMember)
				departments.DELETE("/:id/members/:member_id", h.Member.RemoveMember)

				// roster
				departments.GET("/:id/roster", h.Roster.ListRoster)
				departments.POST("/:id/roster", h.Roster.Assign)
				departments.GET("/:id/eligible-members", h.Roster.EligibleMembers)
				departments.GET("/:id/roster/export", h.Roster.ExportRoster)
			}

			// service days
			serviceDays := authorized.Group("/service-days")
			{
				serviceDays.GET("", h.ServiceDay.ListServiceDays)
				serviceDays.POST("", middleware.RoleAuth("admin"), h.ServiceDay.CreateServiceDay)
				serviceDays.PUT("/:id", middleware.RoleAuth("admin"), h.ServiceDay.UpdateServiceDay)
				serviceDays.DELETE("/:id", middleware.RoleAuth("admin"), h.ServiceDay.DeleteServiceDay)
			}

			// availability (always the caller's own)
			availability := authorized.Group("/availability")
			{
				availability.GET("/routines", h.Availability.ListRoutines)
				availability.PUT("/routines", h.Availability.SetRoutine)
				availability.GET("/exceptions", h.Availability.ListExceptions)
				availability.PUT("/exceptions", h.Availability.SetException)
				availability.DELETE("/exceptions", h.Availability.DeleteException)
				availability.GET("/overview", h.Availability.MonthOverview)
			}

			// roster entries addressed directly
			roster := authorized.Group("/roster")
			{
				roster.GET("/me", h.Roster.MyRoster)
				roster.DELETE("/:entry_id", h.Roster.Unassign)
			}

			// calendar feed
			authorized.GET("/calendar/me.ics", h.Calendar.MyFeed)
		}
	}

	return r
}
