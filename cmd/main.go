package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"postewatch/internal/caching"
	"postewatch/internal/handlers"
	"postewatch/internal/jobs/background"
	"postewatch/internal/middleware"
	"postewatch/internal/repositories"
	"postewatch/internal/services"
	"postewatch/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret; tokens will not survive a restart")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000" // Default MinIO endpoint
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	storage, err := services.NewMinioStorage(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Create repositories
	tenantRepo := repositories.NewTenantRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	posteRepo := repositories.NewPosteRepository(pool)
	operatorRepo := repositories.NewOperatorRepository(pool)
	criticalRepo := repositories.NewCriticalPositionRepository(pool)
	attendanceRepo := repositories.NewAttendanceRepository(pool)
	backupRepo := repositories.NewBackupAssignmentRepository(pool)
	settingsRepo := repositories.NewDashboardSettingsRepository(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	authSvc := services.NewAuthService(cacheSvc, jwtSecret, 3600, 7*24*3600)
	tenantSvc := services.NewTenantService(tenantRepo, posteRepo, settingsRepo)
	posteSvc := services.NewPosteService(posteRepo, cacheSvc)
	operatorSvc := services.NewOperatorService(operatorRepo, posteRepo, cacheSvc)
	criticalSvc := services.NewCriticalPositionService(criticalRepo, cacheSvc)
	attendanceSvc := services.NewAttendanceService(attendanceRepo, operatorRepo, cacheSvc)
	backupSvc := services.NewBackupService(backupRepo, operatorRepo, posteRepo, cacheSvc)
	dashboardSvc := services.NewDashboardService(settingsRepo, criticalRepo, posteRepo, operatorRepo, attendanceRepo, backupRepo, cacheSvc)
	reportSvc := services.NewReportService(operatorRepo, attendanceRepo, posteRepo, storage)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, tenantSvc, userRepo)
	posteHandlers := handlers.NewPosteHandlers(posteSvc)
	operatorHandlers := handlers.NewOperatorHandlers(operatorSvc)
	criticalHandlers := handlers.NewCriticalPositionHandlers(criticalSvc)
	attendanceHandlers := handlers.NewAttendanceHandlers(attendanceSvc)
	backupHandlers := handlers.NewBackupHandlers(backupSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(dashboardSvc)
	reportHandlers := handlers.NewReportHandlers(reportSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Middleware
	tenantMiddleware := middleware.NewTenantMiddleware(userRepo, tenantRepo)
	authRateLimit := middleware.NewRateLimitMiddleware(cacheSvc, 20, time.Minute)
	apiRateLimit := middleware.NewRateLimitMiddleware(cacheSvc, 600, time.Minute)

	jwtConfig := echojwt.Config{
		SigningKey: []byte(jwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.TokenClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for signup/login)
	auth := v1.Group("/auth", authRateLimit.ByIP())
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)

	// Protected routes (require JWT and a resolved tenant)
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(jwtConfig))
	protected.Use(tenantMiddleware.Resolve())
	protected.Use(apiRateLimit.ByTenant())

	protected.GET("/me", authHandlers.Me)

	// Poste routes
	protected.GET("/postes", posteHandlers.ListPostes)
	protected.POST("/postes", posteHandlers.CreatePoste)
	protected.GET("/postes/:id", posteHandlers.GetPoste)
	protected.PUT("/postes/:id", posteHandlers.UpdatePoste)
	protected.DELETE("/postes/:id", posteHandlers.DeletePoste)

	// Operator routes
	protected.GET("/operators", operatorHandlers.ListOperators)
	protected.POST("/operators", operatorHandlers.CreateOperator)
	protected.GET("/operators/search", operatorHandlers.SearchOperators)
	protected.GET("/operators/:id", operatorHandlers.GetOperator)
	protected.PUT("/operators/:id", operatorHandlers.UpdateOperator)
	protected.DELETE("/operators/:id", operatorHandlers.DeleteOperator)

	// Critical position routes
	protected.GET("/critical-positions", criticalHandlers.ListCriticalPositions)
	protected.GET("/critical-positions/status", criticalHandlers.GetCriticalStatus)
	protected.PUT("/critical-positions", criticalHandlers.SetCritical)

	// Attendance routes
	protected.GET("/operators/:id/attendance/today", attendanceHandlers.GetTodayStatus)
	protected.POST("/operators/:id/attendance/toggle", attendanceHandlers.ToggleToday)
	protected.GET("/attendance", attendanceHandlers.ListAttendance)
	protected.GET("/attendance/summary", attendanceHandlers.Summary)

	// Backup assignment routes
	protected.GET("/backups", backupHandlers.ListBackups)
	protected.POST("/backups", backupHandlers.AssignBackup)
	protected.DELETE("/backups/:id", backupHandlers.RemoveBackup)

	// Dashboard routes
	protected.GET("/dashboard", dashboardHandlers.GetSnapshot)
	protected.GET("/dashboard/settings", dashboardHandlers.GetSettings)
	protected.PUT("/dashboard/settings", dashboardHandlers.UpdateSettings)

	// Report routes
	protected.POST("/reports/attendance/export", reportHandlers.ExportAttendance)

	// Background jobs
	scheduler := background.NewJobScheduler(dashboardSvc, cacheSvc, tenantRepo)
	if err := scheduler.Start(); err != nil {
		log.Printf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Postewatch server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
