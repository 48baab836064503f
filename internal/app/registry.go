package app

import (
	"database/sql"
	"net/http"

	"go-workforce/internal/attendance"
	"go-workforce/internal/bootstrap"
	"go-workforce/internal/calendar"
	"go-workforce/internal/employee"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/middleware"
	"go-workforce/internal/rbac"
	"go-workforce/internal/review"
	"go-workforce/internal/reviewcycle"
	"go-workforce/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- RBAC Core ---
	// Policy is assembled once here and never mutated afterwards.
	rbacService, err := rbac.NewService(rbac.DefaultPolicy())
	if err != nil {
		return err
	}

	attendanceCfg, err := attendance.LoadConfigFromEnv()
	if err != nil {
		return err
	}

	calendarProvider := calendar.NewStaticProvider(nil, nil)
	auditLogger := bootstrap.NewZapAuditLogger()

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	reviewRepo := review.NewRepository(gormDB)
	reviewCycleRepo := reviewcycle.NewRepository(gormDB)

	// --- Services ---
	attendanceService := attendance.NewService(attendance.Dependencies{
		DB:       db,
		Repo:     attendanceRepo,
		Calendar: calendarProvider,
		Config:   attendanceCfg,
		Outbox:   outboxRepo,
		Audit:    auditLogger,
	})
	employeeService := employee.NewService(db, employeeRepo, counterRepo, rdb)
	reviewService := review.NewService(db, reviewRepo)
	reviewCycleService := reviewcycle.NewServiceWithOutbox(db, reviewCycleRepo, outboxRepo)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	employeeHandler := employee.NewHandler(employeeService)
	reviewHandler := review.NewHandler(reviewService)
	reviewCycleHandler := reviewcycle.NewHandlerWithRedis(reviewCycleService, rdb)

	// --- Global middleware ---
	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		review.RegisterRoutes(api, reviewHandler, rbacService)
		reviewcycle.RegisterRoutes(api, reviewCycleHandler, rbacService, rdb)
	}

	return nil
}
