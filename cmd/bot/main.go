// Package main contains the entrypoint for the queue monitor bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/rybaaa/townhall-queue-tgbot/internal/bot"
	"github.com/rybaaa/townhall-queue-tgbot/internal/bot/handlers"
	"github.com/rybaaa/townhall-queue-tgbot/internal/bot/tasks"
	"github.com/rybaaa/townhall-queue-tgbot/internal/config"
	"github.com/rybaaa/townhall-queue-tgbot/internal/database"
	"github.com/rybaaa/townhall-queue-tgbot/internal/duw"
	"github.com/rybaaa/townhall-queue-tgbot/internal/logger"
	"github.com/rybaaa/townhall-queue-tgbot/internal/monitor"
	"github.com/rybaaa/townhall-queue-tgbot/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger,
// db, status client, bot, scheduler), handles graceful shutdown, and
// returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	runOnce := flag.Bool("once", false, "Run a single queue check and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db) // Ensure DB is closed on function exit
	store := database.NewStore(db, log)

	statusClient := duw.NewClient(&cfg.Monitor, log)

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	notifier := telegram.NewNotifier(tg, cfg.Telegram.ChatID, log)
	monitorSvc := monitor.NewService(statusClient, store, notifier, &cfg.Monitor, cfg.Telegram.ChatID, log)

	if *runOnce {
		return runSingleCheck(ctx, log, monitorSvc)
	}

	// Retrieve bot info and store it in the config for runtime use
	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	hDeps := handlers.HandlerDeps{
		Logger:  log,
		Config:  cfg,
		Store:   store,
		Monitor: monitorSvc,
	}
	tDeps := tasks.TaskDeps{
		Logger:  log,
		Config:  cfg,
		Store:   store,
		Monitor: monitorSvc,
	}

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	// Boot-time probe: confirms the token and chat id actually work.
	// Failure is logged but not fatal; the next alert will retry anyway.
	startupMsg := monitor.StartupMessage(cfg.Monitor.City, cfg.Monitor.QueueID, time.Now())
	if err := notifier.SendHTML(ctx, startupMsg); err != nil {
		log.Warn("Startup probe message failed", "error", err)
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, cfg, db, store, monitorSvc, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx) // Run blocks until context is cancelled or an error occurs
	log.Info("Bot run loop finished. Initiating shutdown...")

	// Check if the error is significant (not just context cancellation)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	return 0
}

// runSingleCheck performs one check and maps its outcome to an exit
// code, for callers that drive scheduling externally (cron, CI).
func runSingleCheck(ctx context.Context, log *slog.Logger, monitorSvc *monitor.Service) int {
	log.Info("Running single queue check (-once)")

	result, err := monitorSvc.RunCheck(ctx)
	if err != nil {
		log.Error("Queue check failed", "error", err)
		return 1
	}

	log.Info("Queue check completed",
		"ticket_count", result.Check.TicketCount,
		"alerted", result.Alerted)
	return 0
}
