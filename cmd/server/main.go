package main

import (
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rhyrak/exam-seating/internal/logging"
	"github.com/rhyrak/exam-seating/internal/metrics"
	"github.com/rhyrak/exam-seating/internal/scheduler"
	"github.com/rhyrak/exam-seating/internal/store"
)

const (
	ListenAddr   = ":3001"
	DatabaseFile = "db/seating.db"
)

func main() {
	cfg := scheduler.NewDefaultConfiguration()
	if path := os.Getenv("SEATING_CONFIG"); path != "" {
		loaded, err := scheduler.LoadConfiguration(path)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}
	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = DatabaseFile
	}

	logger := logging.NewText(os.Stderr, cfg.LogLevel)

	plans, err := store.Open(cfg.DatabaseFile)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer plans.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &server{
		cfg:      cfg,
		plans:    plans,
		logger:   logger,
		metrics:  metrics.NewPrometheus(reg, "seating"),
		gatherer: reg,
	}

	logger.Info("listening", "addr", ListenAddr, "db", cfg.DatabaseFile)
	if err := newRouter(srv).Run(ListenAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
