package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

func main() {
	envFile := flag.String("env", ".env", "Optional environment file")
	addr := flag.String("addr", "", "HTTP listen address (overrides RAMPAGE_ADDR)")
	dbPath := flag.String("db", "", "SQLite database path (overrides RAMPAGE_DB)")
	noDB := flag.Bool("no-db", false, "Run without match recording")
	clientDir := flag.String("client", "", "Path to client directory to serve (overrides RAMPAGE_CLIENT_DIR)")
	hashPassword := flag.String("hash-password", "", "Print the bcrypt hash of a password for RAMPAGE_ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		h, err := HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		fmt.Println(h)
		return
	}

	cfg, srvCfg, err := LoadConfig(*envFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr != "" {
		srvCfg.Addr = *addr
	}
	if *dbPath != "" {
		srvCfg.DBPath = *dbPath
	}
	if *clientDir != "" {
		srvCfg.ClientDir = *clientDir
	}

	if err := run(cfg, srvCfg, *noDB); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run(cfg Config, srvCfg ServerConfig, noDB bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *DB
	var recorder *Recorder
	hooks := MatchHooks{}
	if !noDB {
		var err error
		db, err = OpenDB(srvCfg.DBPath)
		if err != nil {
			return fmt.Errorf("open db %s: %w", srvCfg.DBPath, err)
		}
		defer db.Close()
		recorder = NewRecorder(db)
		defer recorder.Stop()
		hooks = recorder.Hooks()
	}

	auth := NewAdminAuth(srvCfg.AdminPasswordHash, srvCfg.JWTSecret, db)
	if !auth.Enabled() {
		log.Printf("admin api disabled: RAMPAGE_ADMIN_PASSWORD_HASH not set")
	}

	sim := NewSimulation(cfg, hooks)
	hub := NewHub(ctx, sim, srvCfg)
	server := NewServer(srvCfg, sim, hub, db, recorder, auth)
	httpServer := &http.Server{Addr: srvCfg.Addr, Handler: server.Routes()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sim.Run(gctx) })
	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error {
		log.Printf("Server starting on %s (%dx%d arena, %d ticks/s)", srvCfg.Addr, int(cfg.ArenaWidth), int(cfg.ArenaHeight), cfg.TickRate)
		if srvCfg.ClientDir != "" {
			log.Printf("Serving client files from %s", srvCfg.ClientDir)
		}
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
