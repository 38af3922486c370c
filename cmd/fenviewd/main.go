// Package main implements the fenview rendering server: a REST API that renders
// FEN positions as ANSI text, SVG, PNG or JSON, with optional persisted positions.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fenview/cmd/fenviewd/cli"
	"fenview/internal/cache"
	"fenview/internal/http"
	"fenview/internal/service"
	"fenview/internal/storage"

	"golang.org/x/sync/errgroup"
)

const (
	gracefulShutdownTimeout = time.Second * 5
	devSecret               = "dev-secret-minimum-32-characters-long"
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		log.Fatal(err)
	}
}

// run starts the server and blocks until ctx is done. Every resource acquired
// here is released before it returns, including on startup failures.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fenviewd", flag.ContinueOnError)
	var (
		apiHost     = fs.String("api-host", "localhost", "API server host")
		apiPort     = fs.Int("api-port", 8080, "API server port")
		dev         = fs.Bool("dev", false, "Development mode (relaxed rate limits, fixed token secret)")
		rateLimit   = fs.Int("rate-limit", http.DefaultRateLimit, "Requests per second per IP (0 disables)")
		storagePath = fs.String("storage-path", "", "Path to SQLite database file (disables positions if empty)")
		cacheDir    = fs.String("cache-dir", "", "Render cache directory (in-memory if empty)")
		cacheTTL    = fs.Duration("cache-ttl", cache.DefaultTTL, "Render cache entry lifetime")
		noCache     = fs.Bool("no-cache", false, "Disable the render cache")
		jwtSecret   = fs.String("jwt-secret", "", "Token signing secret (default $"+cli.SecretEnv+")")
		pidPath     = fs.String("pid", "", "Optional path to write PID file")
		pidLock     = fs.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *pidLock && *pidPath == "" {
		return fmt.Errorf("-pid-lock flag requires the -pid flag to be set")
	}

	if *pidPath != "" {
		cleanup, err := managePIDFile(*pidPath, *pidLock)
		if err != nil {
			return fmt.Errorf("failed to manage PID file: %w", err)
		}
		defer cleanup()
		log.Printf("PID file created at: %s (lock: %v)", *pidPath, *pidLock)
	}

	// 1. Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		log.Printf("Initializing persistent storage at: %s", *storagePath)
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("Warning: failed to close storage cleanly: %v", err)
			}
		}()
		if err := store.InitDB(); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	} else {
		log.Printf("Persistent storage disabled (use -storage-path to enable)")
	}

	// 2. Render cache (optional)
	var renderCache *cache.Cache
	if !*noCache {
		var err error
		renderCache, err = cache.Open(*cacheDir, *cacheTTL)
		if err != nil {
			return fmt.Errorf("failed to open render cache: %w", err)
		}
		defer func() {
			if err := renderCache.Close(); err != nil {
				log.Printf("Warning: failed to close cache cleanly: %v", err)
			}
		}()
	}

	// 3. Token secret
	if *jwtSecret == "" {
		*jwtSecret = os.Getenv(cli.SecretEnv)
	}
	secret := []byte(*jwtSecret)
	switch {
	case *dev && len(secret) == 0:
		secret = []byte(devSecret)
		log.Printf("Using fixed token secret (dev mode)")
	case len(secret) == 0:
		log.Printf("No token secret configured: position writes are disabled")
	case len(secret) < cli.MinSecretLength:
		return fmt.Errorf("token secret must be at least %d bytes", cli.MinSecretLength)
	}

	svc := service.New(store, renderCache, secret)
	app := http.NewFiberApp(svc, http.Config{DevMode: *dev, RateLimit: *rateLimit})

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("fenview API listening on: http://%s", apiAddr)
		log.Printf("Board endpoint: http://%s/api/v1/board?fen=...", apiAddr)
		log.Printf("Positions endpoint: http://%s/api/v1/positions", apiAddr)
		log.Printf("Health: http://%s/health", apiAddr)
		if err := app.Listen(apiAddr); err != nil {
			return fmt.Errorf("API server listen error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Server exited")
	return nil
}
