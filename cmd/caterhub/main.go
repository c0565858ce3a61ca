package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caterhub/config"
	"caterhub/notify"
	"caterhub/store"
	"caterhub/track"
	"caterhub/www"
)

func main() {
	configPath := flag.String("config", "caterhub.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *port > 0 {
		cfg.Web.Port = *port
	}
	if cfg.Driver.AuthSecret == "" {
		log.Printf("warning: driver auth secret not set; /location will reject all reports")
	}

	// Open database
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Seed admin account
	if cfg.Admin.InitialPassword != "" {
		hash, err := www.HashPassword(cfg.Admin.InitialPassword)
		if err != nil {
			log.Fatalf("hash admin password: %v", err)
		}
		if err := db.EnsureAdminUser(cfg.Admin.Username, hash); err != nil {
			log.Fatalf("seed admin user: %v", err)
		}
	}

	// Tracking hub (in-process channel registry; rebuilt empty on restart)
	hub := track.NewHub(cfg.Tracking.SinkBuffer)

	// Set up HTTP server
	router, stopWeb := www.NewRouter(cfg, db, hub, notify.LogSender{})
	defer stopWeb()

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		log.Printf("caterhub listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	// Close the hub first so long-lived tracking streams terminate
	stopWeb()

	// Graceful HTTP shutdown with 10s deadline
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("http server shutdown: %v", err)
	}
}
