package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"agr-scraper/config"
	"agr-scraper/server"
	"agr-scraper/services"
	"agr-scraper/utils"

	"github.com/robfig/cron/v3"
)

func main() {
	// ================== Bootstrap ====================
	logger := utils.NewLogger()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Cannot load configuration: %v", err)
		os.Exit(1)
	}

	logger.Info("AGR portal scraper service")
	logger.Info("Portal: %s | DB: %s", cfg.BaseURL, cfg.MongoDB)
	logger.Info("Timeouts: scraper %v, run-all %v | Nav retries: %d",
		cfg.ScraperTimeout, cfg.RunAllTimeout, cfg.NavRetries)

	// =================== Jobs ========================
	runner := services.NewRunner(logger)
	movementsJob := services.NewMovementsJob(cfg, logger)
	itemsJob := services.NewItemsJob(cfg, logger)

	runMovements := func() services.RunResult {
		return runner.Run(services.JobMovements, cfg.ScraperTimeout, movementsJob.Run)
	}
	runItems := func() services.RunResult {
		return runner.Run(services.JobItems, cfg.ScraperTimeout, itemsJob.Run)
	}
	runAll := func() services.RunResult {
		return runner.Run(services.JobAll, cfg.RunAllTimeout, func(ctx context.Context) error {
			if err := movementsJob.Run(ctx); err != nil {
				return err
			}
			return itemsJob.Run(ctx)
		})
	}

	// =================== Cron ========================
	cronLogger := logger.WithTag("[CRON]")
	var cronOpts []cron.Option
	if cfg.CronTZ != "" {
		if loc, err := time.LoadLocation(cfg.CronTZ); err != nil {
			logger.Warn("Invalid CRON_TZ %q, using system timezone: %v", cfg.CronTZ, err)
		} else {
			cronOpts = append(cronOpts, cron.WithLocation(loc))
		}
	}
	sched := cron.New(cronOpts...)

	// Movements every 30 minutes; items hourly at minute 5. Skipped runs are
	// logged, never queued.
	mustSchedule(sched, "*/30 * * * *", logger, func() {
		cronLogger.Info("Movements (every 30 min)...")
		if r := runMovements(); r.Skipped {
			cronLogger.Info("Movements SKIP: %s running for %s", r.Running, r.RunningFor)
		}
	})
	mustSchedule(sched, "5 * * * *", logger, func() {
		cronLogger.Info("Items (hourly)...")
		if r := runItems(); r.Skipped {
			cronLogger.Info("Items SKIP: %s running for %s", r.Running, r.RunningFor)
		}
	})
	sched.Start()

	// =================== HTTP ========================
	srv := server.New(logger, runner, runMovements, runItems, runAll)
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Listening on %s (GET /healthz, /status, /run-movements, /run-items, /run-all)", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("HTTP server failed: %v", err)
		os.Exit(1)
	}
}

func mustSchedule(sched *cron.Cron, spec string, logger *utils.Logger, fn func()) {
	if _, err := sched.AddFunc(spec, fn); err != nil {
		logger.Error("Cannot register cron %q: %v", spec, err)
		os.Exit(1)
	}
}
