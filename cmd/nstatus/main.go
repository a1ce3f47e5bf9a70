package main

import (
	"log"

	"github.com/nstatus/nstatus/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ nstatus stopped: %v", err)
	}
}
