package main

import (
	"context"
	"encoding/hex"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"randkit-go/pkg/log"
	"randkit-go/pkg/management"
	"randkit-go/pkg/randd"
)

// Version information - will be set at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cfg, err := randd.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	if err := log.Init(cfg.LogDB); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer log.Close()

	log.Printf("randd %s (built %s) starting", Version, BuildTime)
	log.Printf("using config file %s", cfg.ConfigFile)

	gen, err := randd.NewGenerator(cfg)
	if err != nil {
		log.Fatalf("Failed to build generator: %v", err)
	}

	// Record the seed once at startup so any run of this daemon can be
	// replayed later. The generator itself only exposes it on request.
	log.Info().
		Str("generator", cfg.Generator).
		Str("seed", hex.EncodeToString(gen.Seed())).
		Msg("generator keyed")

	server := randd.NewServer(cfg, gen)

	var mgmt *management.Server
	if cfg.EnableMgmt {
		mgmt = management.NewServer("randd", cfg.MgmtPassword)
		server.RegisterManagement(mgmt)
		if err := mgmt.Start(); err != nil {
			log.Fatalf("Failed to start management server: %v", err)
		}
	}

	// Setup OS signal handling for graceful shutdown.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %s, shutting down.", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("API shutdown: %v", err)
		}
		if mgmt != nil {
			mgmt.Stop()
		}
	}()

	log.Printf("randd serving %s generator on %s", cfg.Generator, cfg.APIListenAddr)
	if err := server.Run(); err != nil {
		log.Fatalf("API server failed: %v", err)
	}

	log.Printf("randd has been shut down.")
}
