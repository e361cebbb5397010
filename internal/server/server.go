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

	"kanny/docs"
	"kanny/internal/auth"
	"kanny/internal/config"
	"kanny/internal/handler"
	"kanny/internal/middleware"
	"kanny/internal/model"
	"kanny/internal/repository"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

// Deps are the collaborators the router is built from.
type Deps struct {
	Users        repository.UserStore
	Boards       repository.BoardStore
	Columns      repository.ColumnStore
	Cards        repository.CardStore
	Issuer       *auth.Issuer
	Verifier     auth.IdentityVerifier
	CookieSecure bool
}

func Init(cfg *config.Config) (*Server, error) {
	deps := Deps{
		Issuer: auth.NewIssuer(cfg.JWTSecret,
			time.Duration(cfg.JWTExpiryHours)*time.Hour,
			time.Duration(cfg.RefreshExpiryHours)*time.Hour,
		),
		Verifier:     auth.NewHMACVerifier(cfg.FederatedSecret, cfg.FederatedIssuer),
		CookieSecure: cfg.CookieSecure,
	}

	var db *gorm.DB
	switch cfg.Storage {
	case config.StorageMemory:
		mem := repository.NewMemory()
		deps.Users, deps.Boards, deps.Columns, deps.Cards = mem.Users, mem.Boards, mem.Columns, mem.Cards
		log.Println("⚠️  Using in-memory storage, data is lost on restart")
	case config.StoragePostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		)
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
		}
		log.Println("✅ Connected to database")

		if err := db.AutoMigrate(&model.User{}, &model.Board{}, &model.Column{}, &model.Card{}); err != nil {
			return nil, fmt.Errorf("❌ failed to migrate schema: %w", err)
		}

		deps.Users = repository.NewUserRepository(db)
		deps.Boards = repository.NewBoardRepository(db)
		deps.Columns = repository.NewColumnRepository(db)
		deps.Cards = repository.NewCardRepository(db)
	default:
		return nil, fmt.Errorf("❌ unknown STORAGE %q", cfg.Storage)
	}

	docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort

	return &Server{
		Engine: NewRouter(deps),
		DB:     db,
		Config: cfg,
	}, nil
}

// NewRouter builds the API under /api plus the swagger UI.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	authHandler := handler.NewAuthHandler(deps.Users, deps.Issuer, deps.Verifier, deps.CookieSecure)
	boardHandler := handler.NewBoardHandler(deps.Boards)
	columnHandler := handler.NewColumnHandler(deps.Columns, deps.Boards)
	cardHandler := handler.NewCardHandler(deps.Cards, deps.Columns, deps.Boards)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/firebase", authHandler.FederatedLogin)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Protected routes - require authentication
	authorized := api.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(deps.Issuer))
	{
		authorized.GET("/auth/me", authHandler.Me)

		// Board routes
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards/current", boardHandler.GetCurrent)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		// Column routes
		authorized.POST("/boards/:id/columns", columnHandler.Create)
		authorized.PUT("/boards/columns/:id", columnHandler.Update)
		authorized.DELETE("/boards/columns/:id", columnHandler.Delete)

		// Card routes
		authorized.POST("/columns/:id/cards", cardHandler.Create)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.DELETE("/cards/:id", cardHandler.Delete)
		authorized.PUT("/cards/:id/move", cardHandler.Move)
	}

	return r
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	log.Println("✅ Server exited properly")
}
