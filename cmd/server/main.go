package main

import (
	"log"

	"kanny/internal/config"
	"kanny/internal/server"
)

// @title           Kanny API
// @version         1.0
// @description     Boards, columns and cards with drag-and-drop ordering.

// @host      localhost:3001
// @BasePath  /api

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
