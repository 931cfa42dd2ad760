package main

import (
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "reqtrack/api/swagger" // swagger docs
	"reqtrack/internal/authz"
	"reqtrack/internal/database"
	"reqtrack/internal/events"
	"reqtrack/internal/handler"
	"reqtrack/internal/middleware"
	"reqtrack/internal/repository"
	"reqtrack/internal/service"
	"reqtrack/internal/storage"
	"reqtrack/internal/websocket"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           Requisition Tracking API
// @version         1.0
// @description     Multi-tenant procurement requisition workflow API.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	dsn := "postgres://" + getenv("DB_USER", "postgres") + ":" + getenv("DB_PASSWORD", "postgres") +
		"@" + getenv("DB_HOST", "localhost") + ":" + getenv("DB_PORT", "5432") +
		"/" + getenv("DB_NAME", "postgres") + "?sslmode=" + getenv("DB_SSLMODE", "disable")

	db, err := database.NewConnection(dsn)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("connected to postgres")

	authTable, err := authz.NewTable()
	if err != nil {
		logger.Fatal("failed to build authorization table", zap.Error(err))
	}

	fileStore, err := storage.NewLocalStore(getenv("UPLOAD_DIR", "uploads"), "/uploads")
	if err != nil {
		logger.Fatal("failed to initialize file storage", zap.Error(err))
	}

	// WebSocket hub delivers events to connected clients of each organization.
	wsHub := websocket.NewHub(logger)
	go wsHub.Run()

	sinks := []events.Publisher{wsHub}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		kafkaPub := events.NewKafkaPublisher(strings.Split(brokers, ","), getenv("KAFKA_TOPIC", "requisition-events"), logger)
		defer kafkaPub.Close()
		sinks = append(sinks, kafkaPub)
		logger.Info("kafka publisher enabled", zap.String("brokers", brokers))
	}
	publisher := events.NewFanout(sinks...)

	var cache *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cache = redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
		logger.Info("redis cache enabled", zap.String("addr", addr))
	}

	// Repository -> Service -> Handler
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	reqRepo := repository.NewRequisitionRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	typeRepo := repository.NewRequisitionTypeRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	requisitionService := service.NewRequisitionService(
		userRepo, orgRepo, reqRepo, approvalRepo, attachmentRepo, typeRepo,
		sequenceRepo, auditRepo, txManager, authTable, publisher, logger,
	)
	authService := service.NewAuthService(userRepo, orgRepo, auditRepo, txManager, string(middleware.GetJWTSecret()), logger)
	userService := service.NewUserService(userRepo, auditRepo, authTable)
	dashboardService := service.NewDashboardService(userRepo, reqRepo, typeRepo, cache, logger)

	requisitionHandler := handler.NewRequisitionHandler(requisitionService, fileStore)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(getenv("CORS_ORIGINS", "http://localhost:5173"), ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Uploaded attachments are served straight off disk.
	router.Static("/uploads", fileStore.Dir())

	authHandler.RegisterRoutes(router.Group(""))
	requisitionHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	dashboardHandler.RegisterRoutes(router.Group(""))

	port := getenv("PORT", "8080")
	logger.Info("server listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
