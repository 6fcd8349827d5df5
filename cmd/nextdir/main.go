package main

import (
	"log"

	"github.com/MrSnakeDoc/nextdir/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ nextdir failed to start: %v", err)
	}
}
