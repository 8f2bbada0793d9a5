package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/cache"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/domain/roles"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/media"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/oauth"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// Deps are the process-wide singletons the routes are built from.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *slog.Logger

	Cache   cache.Cache
	Revoker auth.Revoker
	Audit   *audit.Dispatcher
	Storage media.Storage
	Google  oauth.Provider // nil when Google sign-in is off
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	validators.Register()
	metrics.Register()

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		metrics.Middleware(),
		middleware.CORSMiddleware(d.Config.FrontendURL),
	)

	// ======================================================
	// INFRA
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	userRepo := infraRepo.NewUserGormRepository(d.DB)
	serviceRepo := infraRepo.NewServiceGormRepository(d.DB)

	tokens := auth.NewTokenMaker(d.Config.JWTSecret, d.Config.JWTTTL)
	schedule := ucBooking.NewSchedule(d.Config.Booking)

	requireAuth := middleware.AuthMiddleware(tokens, d.Revoker, userRepo, d.Log)
	adminOnly := middleware.RequireRoles(roles.Admin)
	authLimiter := middleware.RateLimitMiddleware(middleware.NewIPRateLimiter(d.Config.RateAuth), d.Log)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(userRepo, tokens, d.Revoker, d.Google, d.Audit, d.Config, d.Log)
	serviceHandler := handlers.NewServiceHandler(serviceRepo, d.Cache, d.Config.Redis.ServiceTTL, d.Audit, d.Log)
	userHandler := handlers.NewUserHandler(userRepo, d.Storage, d.Audit, d.Log)
	bookingHandler := handlers.NewBookingHandler(bookingRepo, d.Audit, schedule, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB, d.Log)
	healthHandler := handlers.NewHealthHandler(d.DB)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", metrics.Handler())

	// ======================================================
	// AUTH
	// ======================================================
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authLimiter, authHandler.Register)
		authGroup.POST("/login", authLimiter, authHandler.Login)
		authGroup.GET("/google", authHandler.GoogleLogin)
		authGroup.GET("/google/callback", authLimiter, authHandler.GoogleCallback)

		authGroup.GET("/me", requireAuth, authHandler.Me)
		authGroup.POST("/logout", requireAuth, authHandler.Logout)
	}

	// ======================================================
	// SERVICES
	// ======================================================
	services := r.Group("/services")
	{
		services.GET("", serviceHandler.List)
		services.GET("/:id", serviceHandler.Get)

		services.POST("", requireAuth, adminOnly, serviceHandler.Create)
		services.PUT("/:id", requireAuth, adminOnly, serviceHandler.Update)
		services.DELETE("/:id", requireAuth, adminOnly, serviceHandler.Delete)
	}

	// ======================================================
	// USERS
	// ======================================================
	users := r.Group("/users")
	{
		users.GET("/workers", userHandler.ListWorkers)

		users.POST("/me/avatar", requireAuth, userHandler.UploadAvatar)
		users.GET("/:id", requireAuth, userHandler.Get)
		users.PUT("/:id", requireAuth, userHandler.Update)

		users.GET("", requireAuth, adminOnly, userHandler.List)
		users.POST("", requireAuth, adminOnly, userHandler.Create)
		users.PATCH("/:id/role", requireAuth, adminOnly, userHandler.UpdateRole)
		users.DELETE("/:id", requireAuth, adminOnly, userHandler.Delete)
	}

	// ======================================================
	// BOOKINGS
	// ======================================================
	bookings := r.Group("/bookings", requireAuth)
	{
		bookings.POST("", middleware.RequireRoles(roles.Client), bookingHandler.Create)
		bookings.GET("/my", bookingHandler.Mine)
		bookings.GET("/worker", middleware.RequireRoles(roles.Worker), bookingHandler.Assigned)
		bookings.GET("/availability", bookingHandler.Availability)

		bookings.GET("", adminOnly, bookingHandler.All)
		bookings.GET("/export", adminOnly, bookingHandler.Export)

		bookings.GET("/:id", bookingHandler.Get)
		bookings.PATCH("/:id/status", middleware.RequireRoles(roles.Admin, roles.Worker), bookingHandler.UpdateStatus)
		bookings.PATCH("/:id/cancel", bookingHandler.Cancel)
	}

	// ======================================================
	// AUDIT
	// ======================================================
	r.GET("/audit-logs", requireAuth, adminOnly, auditLogsHandler.List)
}
