// Package main is the production entry point for the Sargam music player.
//
// Sargam streams songs from a public music catalog with clean architecture:
// - Event-driven communication (no callbacks)
// - Dependency injection for testability
// - MVP pattern for UI decoupling
// - Repository pattern for data persistence
//
// Build:
//
//	go build -o build/sargam ./cmd
//
// Run:
//
//	./build/sargam
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sargamapp/sargam/internal/app"
	"github.com/sargamapp/sargam/internal/config"
)

func main() {
	// Load config.toml (missing file means defaults)
	fileCfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create the application with dependency injection
	application, err := app.NewApplication(app.DefaultConfig(fileCfg))
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		fmt.Println("\nShutting down...")
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
		fmt.Println("Shutdown complete")
	}()

	// Run application (blocks until the window closed)
	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}
}
