package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"doubtroom/backend/internal/api/handler"
	"doubtroom/backend/internal/doubthub"
	"doubtroom/backend/internal/models"
	"doubtroom/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupDependencies() (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getenv("DB_HOST", "localhost"),
		getenv("DB_USER", "user"),
		getenv("DB_PASSWORD", "password"),
		getenv("DB_NAME", "doubtroomdb"),
		getenv("DB_PORT", "5432"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     getenv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Question{},
		&models.Answer{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting DoubtRoom Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set!")
	}

	// 1. Dependencies
	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	// 2. Presence hub
	hub := doubthub.NewHub(s)
	go hub.Run()

	// 3. Gin routing
	r := gin.Default()
	h := handler.NewHandler(hub, s, []byte(jwtSecret))

	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.GET("/ws", h.ServeWebSocket) // WebSocket upgrade, token via header or ?token=

	api := r.Group("/api", h.AuthRequired())
	{
		api.GET("/auth/me", h.Me)

		api.GET("/rooms", h.GetRooms)
		api.POST("/rooms", h.CreateRoom)
		api.GET("/rooms/:id", h.GetRoom)
		api.DELETE("/rooms/:id", h.DeleteRoom)
		api.GET("/rooms/:id/stats", h.GetRoomStats)

		api.GET("/rooms/:id/questions", h.GetQuestions)
		api.POST("/rooms/:id/questions", h.CreateQuestion)
		api.PUT("/questions/:id/resolve", h.ResolveQuestion)
		api.PUT("/questions/:id/pin", h.PinQuestion)

		api.GET("/questions/:id/answers", h.GetAnswers)
		api.POST("/questions/:id/answers", h.CreateAnswer)
		api.PUT("/answers/:id/vote", h.UpvoteAnswer)
		api.PUT("/answers/:id/accept", h.AcceptAnswer)
	}

	server := &http.Server{
		Addr:           ":" + getenv("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
