// Command-line tool to create an admin account with generated credentials.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"InterviewDesk-backend/internal/database"
	"InterviewDesk-backend/internal/model"
	"InterviewDesk-backend/internal/utilities"
)

// generateRandomString creates a random hex string of length n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

// generateUniqueUsername tries until a unique username is found
func generateUniqueUsername(db *gorm.DB) string {
	for {
		username := "admin_" + generateRandomString(4)
		var count int64
		db.Model(&model.User{}).Where("username = ?", username).Count(&count)
		if count == 0 {
			return username
		}
	}
}

func main() {

	instance, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialized: %s", err)
	}
	db := instance.DB

	username := generateUniqueUsername(db)
	password := generateRandomString(8)

	utilities.CreateAdmin(password, username, db)

	// Plain password is only printed here, the database stores the hash.
	fmt.Println("Admin credentials generated successfully!")
	fmt.Println("======================================")
	fmt.Printf("Username: %s\n", username)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("======================================")

	os.Exit(0)
}
