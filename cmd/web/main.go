package main

import (
	"fmt"
	"log"

	"github.com/geoproc/internal/web"
)

func main() {
	fmt.Println("=== GeoProc Delivery Dataset Server ===")

	config := web.LoadConfig()

	fmt.Printf("Server: http://%s:%d\n", config.Server.Host, config.Server.Port)
	fmt.Printf("Relay: %s\n", config.Upstream.RelayURL)
	if config.Database.URL != "" {
		fmt.Println("Corrections database: enabled")
	}

	server, err := web.NewServer(config)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	fmt.Println("\nFeatures enabled:")
	fmt.Printf("  • Export: %v\n", config.Features.ExportEnabled)
	fmt.Printf("  • Manual Override: %v\n", config.Features.ManualOverrideEnabled)
	fmt.Println()

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
