package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opaemu-backend/internal/analyzer"
	"opaemu-backend/internal/auth"
	"opaemu-backend/internal/config"
	"opaemu-backend/internal/critic"
	"opaemu-backend/internal/handler"
	"opaemu-backend/internal/service"
	"opaemu-backend/internal/storage"
	"opaemu-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "path to the config file")
	flag.Parse()

	// Secrets live in .env during local development.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	store := newStorage(cfg.Storage)
	if err := store.Init(); err != nil {
		logger.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	images := storage.NewImageStore(cfg.Storage.MediaDir, cfg.Storage.MediaBase)
	if err := images.Init(); err != nil {
		logger.Fatalf("Failed to init image store: %v", err)
	}

	criticProvider, err := critic.NewProvider(cfg.Critic)
	if err != nil {
		logger.Fatalf("Failed to init critic: %v", err)
	}
	defer criticProvider.Close()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	chatService := service.NewChatService(store, images, analyzer.NewClient(cfg.Analyzer), criticProvider)
	authService := service.NewAuthService(store, tokens)

	router := setupRouter(cfg, tokens, images,
		handler.NewAuthHandler(authService),
		handler.NewChatHandler(chatService))

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Infof("Server listening on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")
	if err := server.Close(); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	// Let in-flight critiques land before the process exits.
	chatService.Wait()
	logger.Info("Server stopped")
}

// newStorage picks the configured backend and falls back to memory when
// sqlite is not configured.
func newStorage(cfg config.StorageConfig) storage.Storage {
	switch cfg.Type {
	case "sqlite":
		return storage.NewSQLiteStorage(cfg.DatabaseFile)
	case "memory":
		return storage.NewMemoryStorage()
	default:
		logger.Warnf("Unknown storage type %q, using memory", cfg.Type)
		return storage.NewMemoryStorage()
	}
}

func setupRouter(cfg *config.Config, tokens *auth.TokenManager, images *storage.ImageStore,
	authHandler *handler.AuthHandler, chatHandler *handler.ChatHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// Uploaded photos are served straight off disk.
	router.Static(cfg.Storage.MediaBase, images.Root())

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.Signup)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", handler.AuthRequired(tokens), authHandler.Me)
		}

		chat := api.Group("/chat", handler.AuthRequired(tokens))
		{
			chat.POST("", chatHandler.CreateChat)
			chat.GET("/list", chatHandler.GetChatList)
			chat.GET("/:chat_id/history", chatHandler.GetHistory)
			chat.GET("/:chat_id/display", chatHandler.GetDisplay)
			chat.POST("/:chat_id/message", chatHandler.PostMessage)
			chat.POST("/:chat_id/image", chatHandler.UploadImage)
			chat.DELETE("/:chat_id", chatHandler.DeleteChat)
		}
	}

	return router
}
