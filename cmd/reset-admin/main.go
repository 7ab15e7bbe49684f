package main

import (
	"log"
	"os"

	"go-invoicehub/internal/config"
	"go-invoicehub/internal/model"
	"go-invoicehub/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Resets the support admin password from the environment. Useful when the
// admin account is locked out and no second admin exists.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg := config.Load()

	newPassword := os.Getenv("NEW_ADMIN_PASSWORD")
	if newPassword == "" {
		log.Fatal("NEW_ADMIN_PASSWORD must be set")
	}

	// 2. Setup Database
	db := database.ConnectDB(cfg)

	// 3. Find Admin
	var admin model.Admin
	if err := db.Where("email = ?", cfg.AdminEmail).First(&admin).Error; err != nil {
		log.Fatalf("admin %s not found in database: %v", cfg.AdminEmail, err)
	}

	// 4. Hash new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// 5. Update
	if err := db.Model(&admin).Update("password", string(hashedPassword)).Error; err != nil {
		log.Fatalf("failed to update password in DB: %v", err)
	}

	log.Printf("password for %s has been reset", cfg.AdminEmail)
}
