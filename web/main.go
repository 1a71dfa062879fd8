package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-ocean-raytracer/pkg/config"
	"github.com/df07/go-ocean-raytracer/pkg/renderer"
	"github.com/df07/go-ocean-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	configPath := flag.String("config", config.DefaultPath, "JSON config file (defaults are used if missing)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Error loading config: %v", err)
		os.Exit(1)
	}

	// Create and start web server
	webServer, err := server.NewServer(*port, cfg, renderer.NewDefaultLogger())
	if err != nil {
		log.Printf("Error loading textures: %v", err)
		os.Exit(1)
	}

	log.Printf("Ocean Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
