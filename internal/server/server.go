package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harshavardhan-hub/task-collab-platform/internal/config"
	"github.com/harshavardhan-hub/task-collab-platform/internal/database"
	"github.com/harshavardhan-hub/task-collab-platform/internal/handler"
	"github.com/harshavardhan-hub/task-collab-platform/internal/middleware"
	"github.com/harshavardhan-hub/task-collab-platform/internal/realtime"
	"github.com/harshavardhan-hub/task-collab-platform/internal/repository"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Hub    *realtime.Hub
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	// Apply schema migrations before accepting traffic
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}

	// Setup Gin
	r := gin.Default()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	memberRepo := repository.NewBoardMemberRepository(db)
	listRepo := repository.NewListRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// The hub is owned by the server; its run loop starts here and
	// stops on shutdown.
	hub := realtime.NewHub(memberRepo)
	go hub.Run()

	jwtExpiry := time.Duration(cfg.JWTExpiryHours) * time.Hour

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, jwtExpiry)
	boardHandler := handler.NewBoardHandler(boardRepo, memberRepo, listRepo, taskRepo, userRepo, hub)
	listHandler := handler.NewListHandler(listRepo, boardRepo, memberRepo, hub)
	taskHandler := handler.NewTaskHandler(taskRepo, listRepo, boardRepo, memberRepo, userRepo, hub)
	activityHandler := handler.NewActivityHandler(activityRepo, boardRepo, memberRepo)

	// Public routes
	r.POST("/api/auth/register", userHandler.Register)
	r.POST("/api/auth/login", userHandler.Login)

	// Real-time channel; authenticates with the same bearer token
	r.GET("/ws", realtime.ServeWS(hub, userRepo, cfg.JWTSecret, cfg.ClientOrigin))

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/api")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/auth/me", userHandler.Me)
		authorized.PUT("/auth/profile", userHandler.UpdateProfile)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.GET("/boards/:id/members", boardHandler.GetMembers)
		authorized.POST("/boards/:id/members", boardHandler.AddMember)
		authorized.GET("/boards/:id/activity", activityHandler.GetBoardActivity)

		// List routes
		authorized.POST("/lists", listHandler.Create)
		authorized.GET("/boards/:id/lists", listHandler.GetByBoardID)
		authorized.PUT("/lists/:id", listHandler.Update)
		authorized.DELETE("/lists/:id", listHandler.Delete)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.PUT("/tasks/:id/move", taskHandler.Move)
		authorized.POST("/tasks/:id/assign", taskHandler.Assign)
		authorized.DELETE("/tasks/:id/assign/:userId", taskHandler.Unassign)
		authorized.GET("/boards/:id/tasks/search", taskHandler.Search)

		// Activity routes
		authorized.GET("/activity/recent", activityHandler.GetUserRecent)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Hub:    hub,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	s.Hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
