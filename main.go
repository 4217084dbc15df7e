package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/canoasgas/pedidos-api/config"
	"github.com/canoasgas/pedidos-api/controllers"
	"github.com/canoasgas/pedidos-api/middleware"
	"github.com/canoasgas/pedidos-api/models"
	"github.com/canoasgas/pedidos-api/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Println("Starting Pedidos API server...")

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource opened at startup and returns once the server has
// stopped, so the deferred closes always run before the process exits
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(cfg); err != nil {
		return err
	}
	defer func() {
		if err := config.CloseDatabase(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	db := config.GetDB()
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Println("Database migration completed successfully")

	catalog, err := services.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	events := newEventPublisher(cfg)
	defer events.Close()

	if cfg.ReportStorageEnabled() {
		if _, err := services.InitS3Service(cfg); err != nil {
			log.Printf("Warning: report archive disabled: %v", err)
		}
	}

	services.InitOrderService(db, catalog, events)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           setupRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, server)
}

// serve runs server until ctx is cancelled, then shuts it down gracefully.
// A server that fails to listen returns its error instead.
func serve(ctx context.Context, server *http.Server) error {
	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server is running on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

// setupRouter builds the HTTP router with every API route
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.AccessLog(cfg), gin.Recovery(), middleware.CORS(cfg))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
		controllers.RegisterRoutes(v1)
	}
	return router
}

// newEventPublisher connects to Kafka when brokers are configured. Order
// events are best effort, so a broker that cannot be reached only disables them.
func newEventPublisher(cfg *config.Config) services.EventPublisher {
	if !cfg.EventsEnabled() {
		return services.NoopPublisher{}
	}
	publisher, err := services.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Printf("Warning: order events disabled: %v", err)
		return services.NoopPublisher{}
	}
	log.Printf("Publishing order events to %s", cfg.KafkaTopic)
	return publisher
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pedidos API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not connected",
			},
		})
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
