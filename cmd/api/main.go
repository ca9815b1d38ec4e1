package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studiplan/degree-progress-api/internal/handler"
	"github.com/studiplan/degree-progress-api/internal/middleware"
	"github.com/studiplan/degree-progress-api/internal/repository"
	"github.com/studiplan/degree-progress-api/internal/service"
	"github.com/studiplan/degree-progress-api/pkg/cache"
	"github.com/studiplan/degree-progress-api/pkg/config"
	"github.com/studiplan/degree-progress-api/pkg/database"
	"github.com/studiplan/degree-progress-api/pkg/logger"
	corsmiddleware "github.com/studiplan/degree-progress-api/pkg/middleware/cors"
	reqidmiddleware "github.com/studiplan/degree-progress-api/pkg/middleware/requestid"
	"github.com/studiplan/degree-progress-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard caching disabled", "error", err)
	} else {
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)

	courseSvc := service.NewCourseService(logr)
	programSvc := service.NewProgramService(service.ProgramServiceParams{
		Store:            repository.NewProgramRepository(db),
		Configs:          repository.NewGoalConfigRepository(db),
		Courses:          courseSvc,
		DefaultName:      cfg.Program.DefaultName,
		DefaultStartDate: cfg.Program.DefaultStartDate,
		Logger:           logr,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Factory: service.NewGoalFactory(logr),
		Metrics: metricsSvc,
		Cache:   cacheSvc,
		Logger:  logr,
		Config:  service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	exportSvc := service.NewExportService(exportStorage, logr)

	programHandler := handler.NewProgramHandler(programSvc, programSvc, dashboardSvc)
	courseHandler := handler.NewCourseHandler(programSvc, courseSvc, dashboardSvc)
	dashboardHandler := handler.NewDashboardHandler(programSvc, programSvc, dashboardSvc)
	goalHandler := handler.NewGoalHandler(programSvc, programSvc, dashboardSvc, dashboardSvc)
	exportHandler := handler.NewExportHandler(programSvc, exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/program", programHandler.Get)
		api.POST("/program/seed", programHandler.Seed)

		api.POST("/modules", courseHandler.AddModule)
		api.POST("/courses", courseHandler.AddCourse)
		api.PUT("/courses/outcome", courseHandler.RecordOutcome)
		api.PUT("/courses/edit", courseHandler.Edit)
		api.DELETE("/courses", courseHandler.Delete)

		api.GET("/dashboard", dashboardHandler.Get)
		api.GET("/goals", goalHandler.Status)
		api.GET("/goals/config", goalHandler.GetConfig)
		api.PUT("/goals/config", goalHandler.UpdateConfig)

		api.GET("/export", exportHandler.Get)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
