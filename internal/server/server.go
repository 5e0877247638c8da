// Package server contain implementation of go-gin-server and route registration
package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"InterviewDesk-backend/internal/database"
)

// MyServer contain port which server are running on and database instance
type MyServer struct {
	port int

	DB *database.DBinstanceStruct
}

// NewServer construct new http.Server instance bound to the main database
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialized: %s", err)
	}

	myServer := &MyServer{
		port: port,
		DB:   db,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", myServer.port),
		Handler:      myServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
