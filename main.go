package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"safecity-be/config"
	"safecity-be/controllers"
	"safecity-be/events"
	"safecity-be/models"
	"safecity-be/realtime"
	"safecity-be/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func corsConfig() cors.Config {
	origins := []string{"http://localhost:5173"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	cfg.AllowCredentials = true
	return cfg
}

func reportLimit() int {
	limit := 10
	if env := os.Getenv("REPORT_LIMIT_PER_DAY"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			limit = n
		}
	}
	return limit
}

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		logrus.Fatal("Failed to connect to MongoDB")
	}
	config.ConnectRedis()

	incidentsColl := config.GetCollection("incidents")
	resourcesColl := config.GetCollection("health_resources")
	usersColl := config.GetCollection("users")

	if err := models.EnsureIncidentIndexes(incidentsColl); err != nil {
		logrus.Fatalf("Failed to create incident indexes: %v", err)
	}
	if err := models.EnsureHealthResourceIndexes(resourcesColl); err != nil {
		logrus.Fatalf("Failed to create health resource indexes: %v", err)
	}

	// Event bus and realtime hub: incident writes publish to the bus, the
	// hub fans out to connected websocket clients
	bus := events.NewBus()
	hub := realtime.NewHub(logrus.StandardLogger())
	realtime.AttachBus(hub, bus)

	incidentCtrl := controllers.NewIncidentController(incidentsColl, usersColl, bus)
	resourceCtrl := controllers.NewHealthResourceController(resourcesColl)
	authCtrl := controllers.NewAuthController(usersColl)

	r := gin.Default()
	r.Use(cors.New(corsConfig()))

	routes.AuthRoutes(r, authCtrl)
	routes.IncidentRoutes(r, incidentCtrl, usersColl, reportLimit())
	routes.HealthResourceRoutes(r, resourceCtrl, usersColl)

	r.GET("/ws", realtime.ServeWS(hub, logrus.StandardLogger()))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()
	logrus.Infof("Server running on port %s", port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	hub.Shutdown()
	bus.Close()

	if err := config.DisconnectDB(shutdownCtx); err != nil {
		logrus.Errorf("Error disconnecting MongoDB: %v", err)
	}

	logrus.Info("Server stopped")
}
