package main

import (
	"log"

	"InterviewDesk-backend/internal/server"
)

func main() {
	srv := server.NewServer()

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %s", err)
	}
}
