// Migration script to hash existing passwords
// cmd/migrate-passwords/main.go
package main

import (
	"log"
	"strings"

	"manuscript-review-api/config"
	"manuscript-review-api/models"
	"manuscript-review-api/utils"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	// Get all users
	var users []models.UserProfile
	if err := config.DB.Find(&users).Error; err != nil {
		log.Fatal("Failed to fetch users:", err)
	}

	// Update passwords
	for _, user := range users {
		// Skip if already hashed (bcrypt hashes start with $2)
		if strings.HasPrefix(user.Password, "$2") {
			log.Printf("User %s already has hashed password, skipping\n", user.Email)
			continue
		}

		// Hash password
		hashedPassword, err := utils.HashPassword(user.Password)
		if err != nil {
			log.Printf("Failed to hash password for %s: %v\n", user.Email, err)
			continue
		}

		if err := config.DB.Model(&models.UserProfile{}).
			Where("id = ?", user.ID).
			Update("password", hashedPassword).Error; err != nil {
			log.Printf("Failed to update password for %s: %v\n", user.Email, err)
			continue
		}

		log.Printf("Updated password for %s\n", user.Email)
	}

	log.Println("Password migration completed")
}
