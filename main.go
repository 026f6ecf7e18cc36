package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	clientDir := flag.String("client", "../client", "Path to client directory")
	configPath := flag.String("config", "", "Path to config file (optional)")
	dbPath := flag.String("db", "arena.db", "Path to SQLite database ('' disables accounts)")
	flag.Parse()

	// .env is optional; absence is not an error
	_ = godotenv.Load()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var db *DB
	if *dbPath != "" {
		db, err = OpenDB(*dbPath)
		if err != nil {
			log.Printf("database unavailable, running guest-only: %v", err)
			db = nil
		}
	}

	var analytics *Analytics
	if db != nil {
		analytics = NewAnalytics(db)
	}

	hub := NewHub(cfg, db, analytics)
	go hub.Run()
	go hub.world.Run()

	mux := SetupRoutes(hub, *clientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("Serving client files from %s", *clientDir)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	hub.world.Stop()
	if analytics != nil {
		analytics.Stop()
	}
	if db != nil {
		db.Close()
	}
	server.Close()
}
