package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/thomaslittle/usrp-backend/internal/config"
	"github.com/thomaslittle/usrp-backend/internal/handler"
	"github.com/thomaslittle/usrp-backend/internal/middleware"
	"github.com/thomaslittle/usrp-backend/internal/migration"
	"github.com/thomaslittle/usrp-backend/internal/repository"
	"github.com/thomaslittle/usrp-backend/internal/routes"
	"github.com/thomaslittle/usrp-backend/internal/service"
	pkgcache "github.com/thomaslittle/usrp-backend/pkg/cache"
	pkges "github.com/thomaslittle/usrp-backend/pkg/elasticsearch"
	"github.com/thomaslittle/usrp-backend/pkg/jwt"
	pkglogger "github.com/thomaslittle/usrp-backend/pkg/logger"
	pkgredis "github.com/thomaslittle/usrp-backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// @title           USRP Backend API
// @version         1.0
// @description     Roster and knowledge-base backend for the USRP emergency services community
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.Init(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		pkglogger.Warn("Migration warning: %v", err)
	}

	redisClient, err := pkgredis.NewClient(pkgredis.Options{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing without cache)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
	}

	var esClient *pkges.Client
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, err = pkges.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if err != nil {
			pkglogger.Warn("Elasticsearch connection failed: %v (continuing without search index)", err)
			esClient = nil
		} else {
			pkglogger.Info("Connected to Elasticsearch")
		}
	}

	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiresIn,
		cfg.JWT.RefreshIn,
	)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Session-Token", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.InputSanitizer())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "usrp-backend",
			"time":    time.Now().Unix(),
		})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	searchService := service.NewSearchService(esClient, contentRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	versionService := service.NewVersionService(versionRepo, contentRepo, activityRepo, notificationService)
	contentService := service.NewContentService(contentRepo, versionService, activityRepo, cacheService, searchService, notificationService)
	authService := service.NewAuthService(userRepo, jwtManager)
	rosterService := service.NewRosterService(userRepo, cacheService)
	userService := service.NewUserService(userRepo, rosterService)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	contentHandler := handler.NewContentHandler(contentService, searchService)
	versionHandler := handler.NewVersionHandler(versionService, contentService)
	rosterHandler := handler.NewRosterHandler(rosterService, userService)
	departmentHandler := handler.NewDepartmentHandler(departmentRepo)
	activityHandler := handler.NewActivityHandler(activityRepo)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	radioHandler := handler.NewRadioHandler()

	routes.Setup(
		router,
		authHandler,
		contentHandler,
		versionHandler,
		rosterHandler,
		departmentHandler,
		activityHandler,
		notificationHandler,
		radioHandler,
		jwtManager,
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.Info("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	logMode := gormlogger.Warn
	if cfg.IsDevelopment() {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
