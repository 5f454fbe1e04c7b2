package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quill-notes/quill/broker"
	"quill-notes/quill/config"
	"quill-notes/quill/database"
	"quill-notes/quill/middleware"
	"quill-notes/quill/models"
	"quill-notes/quill/routes"
	"quill-notes/quill/services"

	"github.com/gin-gonic/gin"
)

func main() {
	createSuperuser := flag.Bool("createsuperuser", false, "create the admin account from ADMIN_USERNAME/ADMIN_PASSWORD and exit")
	flag.Parse()

	cfg := config.Load()

	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours)
	services.AuthServiceInstance = authService

	userService := services.NewUserService(authService)
	services.UserServiceInstance = userService

	noteService := services.NewNoteService()
	services.NoteServiceInstance = noteService

	tagService := services.NewTagService()
	services.TagServiceInstance = tagService

	if *createSuperuser {
		user, err := userService.CreateUser(db, cfg.AdminUsername, cfg.AdminPassword, models.AdminRole)
		if err != nil {
			log.Fatalf("Failed to create superuser: %v", err)
		}
		log.Printf("Superuser created successfully, id=%s", user.ID)
		return
	}

	// Event publishing is best effort; the API runs without it.
	if err := broker.InitProducer(cfg.NatsURL); err != nil {
		log.Printf("Warning: failed to connect to NATS: %v", err)
		log.Println("The application will continue without entity events")
	} else {
		defer broker.CloseProducer()
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	router.Use(middleware.MetricsMiddleware())
	router.GET("/metrics", middleware.MetricsHandler())

	routes.RegisterAuthRoutes(router, db, authService)
	routes.RegisterUserRoutes(router, db, userService, authService)
	routes.RegisterNoteRoutes(router, db, noteService, tagService, authService)
	routes.RegisterTagRoutes(router, db, tagService)

	server := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		log.Printf("API server is running on port %s", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
