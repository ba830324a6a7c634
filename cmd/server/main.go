package main

import (
	"log"

	_ "github.com/harshavardhan-hub/task-collab-platform/docs"
	"github.com/harshavardhan-hub/task-collab-platform/internal/config"
	"github.com/harshavardhan-hub/task-collab-platform/internal/server"
)

// @title           Task Collab API
// @version         1.0
// @description     API for collaborative task boards.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
