package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"agentmarket/src/core/catalog"
	"agentmarket/src/core/config"
	"agentmarket/src/core/logger"
	"agentmarket/src/core/server"
)

// version is injected at build time via ldflags
var version = "dev"

func main() {
	var (
		host        = flag.String("host", "", "Host to bind the server to (overrides HOST env var)")
		port        = flag.Int("port", 0, "Port to bind the server to (overrides PORT env var)")
		manifestDir = flag.String("manifest-dir", "", "Directory of listing manifests to load and watch (overrides MANIFEST_DIR)")
		showVersion = flag.Bool("version", false, "Show version information")
		help        = flag.Bool("help", false, "Show help information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Agent Market Registry Service\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --host 0.0.0.0 --port 9000\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --manifest-dir ./manifests\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  HOST                    - Host to bind to (default: localhost)\n")
		fmt.Fprintf(os.Stderr, "  PORT                    - Port to bind to (default: 8000)\n")
		fmt.Fprintf(os.Stderr, "  REGISTRY_NAME           - Service name reported by /health (default: agentmarket-registry)\n")
		fmt.Fprintf(os.Stderr, "  MANIFEST_DIR            - Directory of listing manifests to load and watch\n")
		fmt.Fprintf(os.Stderr, "  DEFAULT_LIST_LIMIT      - Default ranking result count (default: 10)\n")
		fmt.Fprintf(os.Stderr, "  CACHE_TTL               - Response cache TTL in seconds (default: 30)\n")
		fmt.Fprintf(os.Stderr, "  ENABLE_RESPONSE_CACHE   - Cache read responses (default: true)\n")
		fmt.Fprintf(os.Stderr, "  AGENTMARKET_LOG_LEVEL   - Log level (DEBUG, INFO, WARNING, ERROR) (default: INFO)\n")
		fmt.Fprintf(os.Stderr, "  AGENTMARKET_DEBUG_MODE  - Enable debug mode (true/false) - forces DEBUG level\n")
		fmt.Fprintf(os.Stderr, "\nThe registry service provides:\n")
		fmt.Fprintf(os.Stderr, "  - Agent listing publication and lookup\n")
		fmt.Fprintf(os.Stderr, "  - Multi-criteria catalog search\n")
		fmt.Fprintf(os.Stderr, "  - Review submission with rating aggregation\n")
		fmt.Fprintf(os.Stderr, "  - Top-rated and trending rankings\n")
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	if *showVersion {
		fmt.Printf("Agent Market Registry %s\n", version)
		fmt.Println("In-memory marketplace registry for pre-built agents")
		return
	}

	// Load configuration from environment
	cfg := config.LoadFromEnv()

	// Override with command line flags if provided
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *manifestDir != "" {
		cfg.ManifestDir = *manifestDir
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	appLogger := logger.New(cfg)

	// Set Gin mode early, before any engine creation
	appLogger.SetGinMode()

	appLogger.Info("Starting Agent Market Registry | %s", appLogger.GetStartupBanner())

	// One catalog per process, injected into everything that needs it
	cat := catalog.New()
	srv := server.NewServer(cat, cfg, appLogger)

	var watcher *server.ManifestWatcher
	if cfg.ManifestDir != "" {
		if err := srv.LoadManifestDir(cfg.ManifestDir); err != nil {
			appLogger.Error("Failed to load manifests: %v", err)
			os.Exit(1)
		}
		watcher = server.NewManifestWatcher(cfg.ManifestDir, srv, appLogger)
		if err := watcher.Start(); err != nil {
			appLogger.Error("Failed to start manifest watcher: %v", err)
			os.Exit(1)
		}
	}

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan

		appLogger.Info("Received signal %v, shutting down...", sig)
		if watcher != nil {
			watcher.Stop()
		}
		appLogger.Info("Registry service stopped")
		os.Exit(0)
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	if err := srv.Run(addr); err != nil {
		appLogger.Error("Failed to start server: %v", err)
		os.Exit(1)
	}
}
