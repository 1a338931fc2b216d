// One-shot reconciliation runner, meant to be scheduled (cron/systemd timer).
// The same pass is also reachable over HTTP at POST /api/internal/sweep.
package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"job-board-be/internal/bootstrap"
	"job-board-be/internal/config"
	"job-board-be/pkg/database"
)

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// The worker must be draining the topic or reminder messages pile up
	// in memory and die with the process.
	if err := container.NotificationWorker.Consume(ctx); err != nil {
		log.Fatalf("Failed to start notification worker: %v", err)
	}

	report, err := container.SweepService.Run(ctx)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	// Give the in-process notification pipeline a moment to flush.
	time.Sleep(2 * time.Second)

	out, _ := json.Marshal(report)
	log.Printf("Sweep report: %s", out)
}
