package main

import (
	"agenda/internal/db"
	"agenda/internal/repository"
	"agenda/internal/service"
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (min 8 characters)")
	flag.Parse()

	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.EnsureSchema(ctx, conn); err != nil {
		log.Fatalf("Failed to prepare schema: %v", err)
	}

	svc := service.NewAdminAuthService(repository.NewAdminAuthRepository(conn), os.Getenv("JWT_SECRET"))
	if err := svc.CreateAdmin(ctx, *email, *password); err != nil {
		log.Fatalf("Could not create admin: %v", err)
	}
	log.Printf("Admin %s created", *email)
}
