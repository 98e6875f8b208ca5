package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/playsight/shim/internal/collector"
	"github.com/playsight/shim/internal/config"
	"github.com/playsight/shim/internal/metrics"
	"github.com/playsight/shim/internal/shim"
	"github.com/playsight/shim/internal/sim"
	"github.com/playsight/shim/internal/viewer"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	collectorURL := flag.String("collector", "", "Override collector feed URL")
	dryRun := flag.Bool("dry-run", false, "Log events instead of sending to a collector")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if *collectorURL != "" {
		cfg.Collector.URL = *collectorURL
	}

	m := metrics.New()

	var sink collector.Collector
	var client *collector.Client
	if *dryRun {
		log.Println("Dry-run mode: events go to the process log")
		sink = collector.Logger{}
	} else {
		client, err = collector.Dial(cfg.Collector.URL, collector.ClientOptions{
			SendBuffer:  cfg.Collector.SendBuffer,
			Heartbeat:   cfg.Collector.Heartbeat,
			DialTimeout: cfg.Collector.DialTimeout,
		})
		if err != nil {
			log.Fatalf("Failed to reach collector at %s: %v", cfg.Collector.URL, err)
		}
		sink = client
	}

	metadata := viewer.Metadata()
	for k, v := range cfg.Session.Metadata {
		metadata[k] = v
	}

	p := sim.NewPlayer(cfg.Session.TargetID)
	sess := shim.Start(p, sink, shim.Options{
		Metadata:                  metadata,
		DerivePlayingFromProgress: cfg.Session.DerivePlayingFromProgress,
		Metrics:                   m,
	})
	if sess == nil {
		log.Fatal("Session start failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sim.Run(ctx, p, cfg.Sim.TickInterval, cfg.Sim.Scenario)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler(func() {
		if client != nil {
			m.SetFramesDropped(client.Dropped())
		}
	}))
	r.Get("/api/session", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sess.Status())
	})

	srv := &http.Server{Addr: cfg.Debug.Addr, Handler: r}
	go func() {
		log.Printf("Debug server listening on %s", cfg.Debug.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Debug server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	cancel()
	sess.Destroy()
	if client != nil {
		client.Close()
	}
	srv.Shutdown(context.Background())
}
