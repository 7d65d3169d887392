package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo user with a few executed trades so the portfolio and
// history pages have something to show on a fresh database.
func main() {
	godotenv.Load()
	dbURL := os.Getenv("POSTGRES_URL")
	if dbURL == "" {
		log.Fatal("POSTGRES_URL is required")
	}

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	username := "demo"
	password := "demo"

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var userID string
	err = db.QueryRowContext(ctx, `
		INSERT INTO users (id, username, password_hash, cash)
		VALUES (gen_random_uuid(), $1, $2, 10000)
		ON CONFLICT (username) DO UPDATE SET username = users.username
		RETURNING id`, username, string(hash)).Scan(&userID)
	if err != nil {
		log.Fatalf("create demo user: %v", err)
	}

	trades := []struct {
		symbol string
		qty    int64
		price  string
	}{
		{"AAPL", 10, "175.2500"},
		{"MSFT", 5, "410.1000"},
		{"AAPL", -3, "181.0000"},
	}
	for _, t := range trades {
		_, err := db.ExecContext(ctx, `
			INSERT INTO trades (id, user_id, symbol, quantity, price)
			VALUES (gen_random_uuid(), $1, $2, $3, $4::numeric)`,
			userID, t.symbol, t.qty, t.price)
		if err != nil {
			fmt.Printf("Warning: could not insert trade %s: %v\n", t.symbol, err)
		}
	}

	fmt.Printf("Seeded user %q (password %q) with %d trades\n", username, password, len(trades))
}
