package main

import (
	"log"
	"os"

	"go-shop-api/internal/model"
	"go-shop-api/internal/repository"
	"go-shop-api/pkg/database"

	"github.com/joho/godotenv"
)

// Creates the admin account, or resets its password if it already exists.
// Controlled by ADMIN_EMAIL / ADMIN_PASSWORD env vars.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	userRepo := repository.NewUserRepo(db)

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	// 3. Reset password when the account exists
	if user, err := userRepo.FindByEmail(email); err == nil {
		if err := user.SetPassword(password); err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		if err := userRepo.Update(user); err != nil {
			log.Fatalf("Failed to update password in DB: %v", err)
		}
		log.Printf("Password for %s has been reset", email)
		return
	}

	// 4. Otherwise create the account
	admin := &model.User{
		Email:    email,
		FullName: "Administrator",
		IsActive: true,
		Role:     model.RoleAdmin,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	if err := userRepo.Create(admin); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Admin user created: %s", email)
}
