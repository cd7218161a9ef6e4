package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/venueworks/printbridge/internal/api/handlers"
	"github.com/venueworks/printbridge/internal/api/middleware"
	"github.com/venueworks/printbridge/internal/config"
	"github.com/venueworks/printbridge/internal/db"
	"github.com/venueworks/printbridge/internal/transport"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if err := db.Init(db.Config{Path: cfg.Database.Path}); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	env := transport.Env{
		DummyMode:         cfg.Printing.DummyMode,
		EpsonHostOverride: cfg.Printing.EpsonHostOverride,
	}
	if cfg.Printing.GCloudCredentialsFile != "" {
		tokens, err := transport.NewTokenSource(cfg.Printing.GCloudCredentialsFile, cfg.Printing.GCloudScope)
		if err != nil {
			log.Fatalf("failed to load cloud print credentials: %v", err)
		}
		env.Tokens = tokens
	}

	auth, err := middleware.NewAuthMiddleware(db.GetDB())
	if err != nil {
		log.Fatalf("failed to initialize auth: %v", err)
	}

	profileHandler := handlers.NewProfileHandler(db.GetDB())
	printHandler := handlers.NewPrintHandler(db.GetDB(), env)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/setup", auth.SetupHandler)
		authGroup.POST("/login", auth.LoginHandler)
		authGroup.POST("/logout", auth.LogoutHandler)
		authGroup.GET("/status", auth.StatusHandler)
		authGroup.POST("/change-password", auth.RequireAuth(), auth.ChangePasswordHandler)
	}

	api := router.Group("/api", auth.RequireAuth())
	{
		api.GET("/profiles", profileHandler.ListProfiles)
		api.POST("/profiles", profileHandler.CreateProfile)
		api.GET("/profiles/:id", profileHandler.GetProfile)
		api.PUT("/profiles/:id", profileHandler.UpdateProfile)
		api.DELETE("/profiles/:id", profileHandler.DeleteProfile)

		api.POST("/profiles/:id/print", printHandler.Print)
		api.POST("/profiles/:id/test", printHandler.TestPrint)
		api.GET("/profiles/:id/attempts", printHandler.ListAttempts)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("listening on %s (dummy mode: %v)", srv.Addr, cfg.Printing.DummyMode)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
