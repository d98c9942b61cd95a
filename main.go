package main

import (
	"context"
	"log"

	"fleet-booking/cmd"
	"fleet-booking/internal/data/repository"
	"fleet-booking/internal/wire"
	"fleet-booking/pkg/database"
	"fleet-booking/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	app := wire.Wiring(repos, config, logger)

	scheduler := startJobs(app, config, logger)
	defer scheduler.Stop()

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}

// startJobs registers the housekeeping jobs: auto-completing expired
// bookings and purging dead sessions.
func startJobs(app *wire.App, config *utils.Config, logger *zap.Logger) *cron.Cron {
	scheduler := cron.New()

	if _, err := scheduler.AddFunc(config.Jobs.CompleteBookings, func() {
		app.Service.Job.CompleteExpiredBookings(context.Background())
	}); err != nil {
		logger.Fatal("Failed to schedule booking completion job", zap.Error(err))
	}

	if _, err := scheduler.AddFunc(config.Jobs.CleanSessions, func() {
		app.Service.Job.CleanExpiredSessions(context.Background())
	}); err != nil {
		logger.Fatal("Failed to schedule session cleanup job", zap.Error(err))
	}

	scheduler.Start()
	logger.Info("Housekeeping jobs scheduled",
		zap.String("completeBookings", config.Jobs.CompleteBookings),
		zap.String("cleanSessions", config.Jobs.CleanSessions),
	)

	return scheduler
}
