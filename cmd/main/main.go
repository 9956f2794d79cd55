package main

import (
	"chatrouter/internal/pkg/app"
	"context"
	"github.com/joho/godotenv"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// .env is optional; production sets real environment variables
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.New(ctx); err != nil {
		log.Fatal(err)
	}
}
