package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"netpulse/internal/alert"
	"netpulse/internal/config"
	"netpulse/internal/handler"
	"netpulse/internal/history"
	"netpulse/internal/hub"
	"netpulse/internal/metrics"
	"netpulse/internal/repository"
	"netpulse/internal/repository/sqlite"
	"netpulse/internal/service"
	"netpulse/internal/state"
	"netpulse/internal/topology"
	"netpulse/internal/watcher"
)

func main() {
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite history database path (overrides config)")
	seedDir := flag.String("seeds", "", "seed topology directory (overrides config)")
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting netpulse server...")

	cfg, cfgPath, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfgPath != "" {
		log.Printf("Config loaded from %s", cfgPath)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *seedDir != "" {
		cfg.Seeds.Dir = *seedDir
	}

	// Durable history store; an empty path keeps history in memory only
	var durable repository.SeriesStore
	if cfg.Database.Path != "" {
		store, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer store.Close()
		durable = store
		log.Printf("Database opened: %s", cfg.Database.Path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := metrics.NewRegistry()

	hist := history.NewStore(durable)
	hist.OnPersistFailure(reg.PersistenceFailures.Inc)
	go hist.Run(ctx)

	factory := topology.New(cfg.Seeds.Dir, cfg.Seeds.Generate)
	factory.UpdateInterval = cfg.Simulation.UpdateIntervalMS
	factory.RetentionPeriod = cfg.Simulation.RetentionPeriodS

	classifier := alert.Classifier{
		WarnThreshold: cfg.Alerts.WarnThreshold,
		CritThreshold: cfg.Alerts.CritThreshold,
	}

	stateStore := state.NewStore(factory, hist, classifier)

	eventBus := service.NewEventBus()
	svc := service.NewNetworkService(stateStore, eventBus, reg)

	sseHub := hub.New()
	sseHub.OnClientCount(func(count int) {
		reg.SSEClients.Set(float64(count))
	})
	go sseHub.Run()

	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for event := range eventChan {
			sseHub.Broadcast(event)
		}
	}()

	if cfg.Seeds.Watch {
		seedWatcher := watcher.New(cfg.Seeds.Dir, func(networkID string) {
			if svc.Invalidate(networkID) {
				log.Printf("Invalidated state for network %s", networkID)
			}
		})
		go func() {
			if err := seedWatcher.Watch(ctx); err != nil && err != context.Canceled {
				log.Printf("Seed watcher stopped: %v", err)
			}
		}()
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler.NewRouter(svc, sseHub, reg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}
