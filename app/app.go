package app

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"ghuman-groceries/app/controller"
	"ghuman-groceries/app/router"
	"ghuman-groceries/config"
	"ghuman-groceries/db"
	"ghuman-groceries/localstorage"
	"ghuman-groceries/service"
	"ghuman-groceries/store"
	"ghuman-groceries/viewmodel"
)

// App holds the opened store and the wired command tree
type App struct {
	Store     *store.Store
	Dashboard *viewmodel.Dashboard
	CLI       *cli.App
}

// ConfigureLogging applies the configured level and format to logrus
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("⚠️  Unknown log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	// stdout carries the JSON command output
	log.SetOutput(os.Stderr)
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config) (*App, error) {
	ConfigureLogging(cfg)

	storage, err := localstorage.NewFileStorage(cfg.StorageDir())
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize local storage")
	}

	s, err := store.Open(ctx, store.Options{
		DB: db.Options{
			Driver:  cfg.DriverName(),
			DSN:     cfg.DatabaseURL,
			WorkDir: cfg.WorkDir(),
		},
		SeedSampleData: cfg.SeedSampleData,
	}, storage)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}

	prefs := localstorage.NewPreferences(storage)
	backupService := service.NewBackupService(s.Backup)

	// Drive sync is optional
	var syncService service.SyncServiceInterface
	if cfg.GoogleCredentials != "" {
		driveService, err := service.NewDriveService(ctx, cfg.GoogleCredentials)
		if err != nil {
			s.Close()
			return nil, err
		}
		syncService = service.NewSyncService(driveService, backupService, cfg.DriveFolderID)
		log.WithField("folder", cfg.DriveFolderID).Info("☁️  Drive sync enabled")
	}

	catalogService, err := service.NewCatalogService(s.Products, service.ChromeRenderer{
		ChromePath: cfg.ChromePath,
		Timeout:    60 * time.Second,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	// Reports read from live copies that refresh on every commit
	dashboard, err := viewmodel.NewDashboard(ctx, s)
	if err != nil {
		s.Close()
		return nil, err
	}

	controllers := &router.Controllers{
		Product:  controller.NewProductController(s.Products, service.NewImageService(s.Products, cfg.ImageCacheDir())),
		Sale:     controller.NewSaleController(s.Sales, s.Products),
		Creditor: controller.NewCreditorController(s.Creditors),
		Expense:  controller.NewExpenseController(s.Expenses),
		Restock:  controller.NewRestockController(s.Restock, s.Products),
		Payment:  controller.NewPaymentController(s.Payments, service.NewPaymentRequestService(s.Payments, prefs)),
		Backup:   controller.NewBackupController(backupService, syncService, cfg.BackupDir),
		Report:   controller.NewReportController(service.NewSummaryService(dashboard, time.Local), catalogService),
		Prefs:    controller.NewPrefsController(prefs),
	}

	return &App{Store: s, Dashboard: dashboard, CLI: router.NewCLI(controllers)}, nil
}

// Run executes the command line in args
func (a *App) Run(ctx context.Context, args []string) error {
	return a.CLI.RunContext(ctx, args)
}

// Close releases the view models and the store
func (a *App) Close() error {
	a.Dashboard.Close()
	return a.Store.Close()
}
