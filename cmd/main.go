package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"nid-extraction-service/internal/ai"
	"nid-extraction-service/internal/config"
	"nid-extraction-service/internal/database"
	"nid-extraction-service/internal/logger"
	"nid-extraction-service/internal/storage"
	"nid-extraction-service/internal/telemetry"
	"nid-extraction-service/middleware"
	"nid-extraction-service/routes"
	"nid-extraction-service/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Initialize tracing
	shutdownTracer, err := telemetry.InitTracer("nid-extraction-service", cfg.OTLPEndpoint, cfg.TraceSampleRatio)
	if err != nil {
		log.Printf("Tracing disabled: %v", err)
	} else {
		defer shutdownTracer()
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	ctx := context.Background()

	// GCS uploader for document images
	uploader, err := storage.NewGCSUploader(ctx, cfg.GCSBucket)
	if err != nil {
		log.Fatal("Failed to create GCS uploader:", err)
	}

	// Vertex AI extraction client
	extractor, err := ai.NewVertexClient(ctx, cfg.GCPProjectID, cfg.GCPRegion, cfg.GeminiModel)
	if err != nil {
		log.Fatal("Failed to create Vertex AI client:", err)
	}
	defer extractor.Close()

	// Repository, sequence allocator and pipeline wiring
	documents := database.NewDocumentRepository(mongoClient, cfg.DBName)
	allocator := services.NewMongoSequenceAllocator(mongoClient, cfg.DBName, documents)
	if err := allocator.Seed(ctx); err != nil {
		log.Fatal("Failed to seed sequence counter:", err)
	}

	notifier := services.NewSMTPEmailSender(cfg)
	extractionService := services.NewExtractionService(allocator, uploader, extractor, documents, notifier)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.EnrichTrace())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.RequestSizeLimit(cfg.MaxFileSize))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Setup routes
	routes.SetupGenerateRoutes(router, cfg, extractionService)
	routes.SetupDocumentRoutes(router, documents)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
