package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/travelport/order-approval/internal/application/service"
	"github.com/travelport/order-approval/internal/config"
	"github.com/travelport/order-approval/internal/infrastructure/mirror"
	"github.com/travelport/order-approval/internal/infrastructure/notification"
	"github.com/travelport/order-approval/internal/infrastructure/persistence/repository"
	httpadapter "github.com/travelport/order-approval/internal/interfaces/http"
	"github.com/travelport/order-approval/pkg/database"
	"github.com/travelport/order-approval/pkg/utils"
)

func main() {
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Order Approval Service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Repositories and transaction manager
	submissionRepo := repository.NewSubmissionRepository(db.DB, logger)
	approverRepo := repository.NewApproverRepository(db.DB, logger)
	productRepo := repository.NewProductRepository(db.DB, logger)
	txManager := repository.NewTransactionManager(db.DB, logger)

	// Outbound adapters
	notifier := notification.NewSMTPSender(notification.Config{
		SMTPHost:    cfg.Email.SMTPHost,
		SMTPPort:    cfg.Email.SMTPPort,
		Username:    cfg.Email.Username,
		Password:    cfg.Email.Password,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	}, logger)
	mirrorClient := mirror.NewClient(cfg.Mirror.BaseURL, cfg.Mirror.Path, cfg.Mirror.Timeout, logger)

	// Application services
	svcLogger := &zapAdapter{sugar: logger.Sugar()}
	submissionService := service.NewSubmissionService(submissionRepo, approverRepo, txManager, svcLogger)
	approvalService := service.NewApprovalService(submissionRepo, approverRepo, txManager, notifier, svcLogger)
	projectionService := service.NewProjectionService(submissionRepo, approverRepo, svcLogger)
	productService := service.NewProductService(productRepo, svcLogger)

	server := httpadapter.NewServer(
		httpadapter.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		submissionService,
		approvalService,
		projectionService,
		productService,
		mirrorClient,
		svcLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Server exited successfully")
}

// zapAdapter bridges the application layer's logging interface to zap
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

func (a *zapAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.sugar.Infow(msg, keysAndValues...)
}

func (a *zapAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.sugar.Errorw(msg, keysAndValues...)
}
