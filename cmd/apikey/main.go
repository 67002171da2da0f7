package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"videostudio/internal/infra"
	"videostudio/internal/infra/credentials"
)

func main() {
	_ = godotenv.Load()

	var (
		keyFlag      string
		customerFlag string
	)
	flag.StringVar(&keyFlag, "key", "", "video API key (falls back to VIDEO_API_KEY)")
	flag.StringVar(&customerFlag, "customer", "", "customer id sent with each request (falls back to VIDEO_API_CUSTOMER_ID)")
	flag.Parse()

	key := strings.TrimSpace(keyFlag)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("VIDEO_API_KEY"))
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "video API key is required via -key or VIDEO_API_KEY")
		os.Exit(1)
	}
	customer := strings.TrimSpace(customerFlag)
	if customer == "" {
		customer = strings.TrimSpace(os.Getenv("VIDEO_API_CUSTOMER_ID"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create pool: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger := infra.NewLogger("cli", os.Getenv("LOG_LEVEL")).With().Str("cmd", "apikey").Str("provider", credentials.ProviderVideo).Logger()
	store := credentials.NewStore(infra.NewSQLRunner(pool, logger))

	if err := store.EnsureSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to prepare integration_tokens: %v\n", err)
		os.Exit(1)
	}
	if err := store.SetVideoCredential(ctx, key, customer); err != nil {
		fmt.Fprintf(os.Stderr, "failed to persist video api key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("video API key stored successfully")
}
