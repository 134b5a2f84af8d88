package main

import (
	"fmt"
	"log"
	"os"

	"doubtroom/backend/internal/models"
	"doubtroom/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: deactivate <user_id> | activate <user_id> | promote <user_id> <role> | close-room <room_id> | list-rooms")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "deactivate", "activate":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: admin %s <user_id>\n", command)
			os.Exit(1)
		}
		user, err := storageSvc.GetUserByID(os.Args[2])
		if err != nil {
			log.Fatalf("failed to load user: %v", err)
		}
		user.IsActive = command == "activate"
		if err := storageSvc.SaveUser(user); err != nil {
			log.Fatalf("failed to update user: %v", err)
		}
		fmt.Printf("User %s (%s) isActive=%v\n", user.Name, user.ID, user.IsActive)

	case "promote":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin promote <user_id> <student|mentor|admin>")
			os.Exit(1)
		}
		role := os.Args[3]
		if role != models.RoleStudent && role != models.RoleMentor && role != models.RoleAdmin {
			fmt.Println("Invalid role. Use student, mentor or admin.")
			os.Exit(1)
		}
		user, err := storageSvc.GetUserByID(os.Args[2])
		if err != nil {
			log.Fatalf("failed to load user: %v", err)
		}
		user.Role = role
		if err := storageSvc.SaveUser(user); err != nil {
			log.Fatalf("failed to update user: %v", err)
		}
		fmt.Printf("User %s (%s) role=%s\n", user.Name, user.ID, user.Role)

	case "close-room":
		if len(os.Args) < 3 {
			fmt.Println("Usage: admin close-room <room_id>")
			os.Exit(1)
		}
		if err := storageSvc.CloseRoom(os.Args[2]); err != nil {
			log.Fatalf("failed to close room: %v", err)
		}
		fmt.Printf("Room %s closed\n", os.Args[2])

	case "list-rooms":
		rooms, err := storageSvc.GetActiveRooms("")
		if err != nil {
			log.Fatalf("failed to list rooms: %v", err)
		}
		for _, room := range rooms {
			fmt.Printf("%s  [%s]  %q  active=%d questions=%d/%d\n",
				room.ID, room.Topic, room.Title,
				room.ActiveCount, room.ResolvedQuestions, room.TotalQuestions)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}
