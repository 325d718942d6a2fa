package main

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"filedrop/config"
	"filedrop/db"
	"filedrop/handlers"
	"filedrop/middleware"
	"filedrop/models"
	"filedrop/registry"
	"filedrop/storage"
)

//go:embed frontend/*
var frontendEmbed embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	logger := cfg.NewLogger()

	gdb, err := db.Open(config.DBPath)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	if err := models.Migrate(gdb); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	store, err := storage.New(config.UploadsDir)
	if err != nil {
		log.Fatal("Failed to initialize blob store: ", err)
	}

	h := handlers.New(registry.New(gdb), store, logger)

	r := gin.Default()

	// CORS Setup
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.Metrics())

	// API Routes
	api := r.Group("/api")
	{
		api.GET("/files", h.ListFiles)
		api.POST("/upload", h.UploadFile)
		api.DELETE("/files/:id", h.DeleteFile)
		api.GET("/health", h.Health)
	}

	// Blob retrieval
	r.GET("/uploads/:name", h.ServeBlob)

	// Prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve Embedded Frontend
	fsys, err := fs.Sub(frontendEmbed, "frontend")
	if err != nil {
		log.Fatal("Failed to load frontend: ", err)
	}

	r.StaticFileFS("/style.css", "style.css", http.FS(fsys))
	r.StaticFileFS("/app.js", "app.js", http.FS(fsys))

	r.GET("/", func(c *gin.Context) {
		c.Header("Content-Type", "text/html")
		content, err := fs.ReadFile(fsys, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "Failed to read index: "+err.Error())
			return
		}
		c.String(http.StatusOK, string(content))
	})

	logger.Info("server starting", "port", cfg.Port, "version", config.Version)
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
