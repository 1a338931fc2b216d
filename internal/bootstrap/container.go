package bootstrap

import (
	"context"
	"log"
	"time"

	"job-board-be/internal/config"
	"job-board-be/internal/controller"
	"job-board-be/internal/gateway"
	"job-board-be/internal/pkg/logger"
	"job-board-be/internal/pkg/mailer"
	"job-board-be/internal/repository/unitofwork"
	"job-board-be/internal/service"

	pktNats "job-board-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const notificationTopic = "subscription_notifications"

type Container struct {
	// Controllers
	SubscriptionController controller.ISubscriptionController
	AdminController        controller.IAdminController
	NotificationController controller.INotificationController
	SweepController        controller.ISweepController

	// Background Services (Exposed for main.go to run)
	NotificationWorker service.INotificationWorker

	// Exposed for cmd/sweep to run directly without the HTTP surface.
	SweepService service.ISweepService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	notifLogger := logger.NewIsolatedLogger(cfg.App.NotifLogFilePath)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Payment gateway
	paymentGateway := gateway.NewMidtransClient(
		cfg.Midtrans.ServerKey,
		cfg.Midtrans.IsProduction,
		cfg.App.ClientURL+"/app?payment=success",
		sysLogger,
	)

	// 3. Services
	notifier := service.NewWatermillNotifier(pubSub, notificationTopic, sysLogger)
	notificationWorker := service.NewNotificationWorker(pubSub, notificationTopic, uowFactory, emailService, notifLogger)

	planService := service.NewPlanService(uowFactory)
	checkoutService := service.NewCheckoutService(
		uowFactory,
		paymentGateway,
		natsPub,
		cfg.Bank.Name,
		cfg.Bank.AccountNumber,
		cfg.Bank.AccountHolder,
		time.Now,
	)
	approvalService := service.NewApprovalService(uowFactory, notifier, sysLogger, time.Now)
	webhookService := service.NewWebhookService(uowFactory, paymentGateway, notifier, sysLogger, time.Now)
	sweepService := service.NewSweepService(uowFactory, notifier, rdb, sysLogger, cfg.Sweep.StalePendingDays, time.Now)
	notificationService := service.NewNotificationService(uowFactory)

	// 4. Controllers
	return &Container{
		SubscriptionController: controller.NewSubscriptionController(planService, checkoutService, webhookService),
		AdminController:        controller.NewAdminController(approvalService, planService),
		NotificationController: controller.NewNotificationController(notificationService),
		SweepController:        controller.NewSweepController(sweepService, cfg.Sweep.CronSecret),

		NotificationWorker: notificationWorker,
		SweepService:       sweepService,
		Logger:             sysLogger,
	}
}
