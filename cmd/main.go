package main

import (
	"context"
	"log"

	"rental-service/config"
	affiliateHandler "rental-service/internal/module/affiliate/handler"
	affiliateRepositories "rental-service/internal/module/affiliate/repositories"
	affiliateUsecases "rental-service/internal/module/affiliate/usecases"
	"rental-service/internal/module/booking/handler"
	"rental-service/internal/module/booking/pricing"
	"rental-service/internal/module/booking/repositories"
	"rental-service/internal/module/booking/usecases"
	withdrawalHandler "rental-service/internal/module/withdrawal/handler"
	withdrawalRepositories "rental-service/internal/module/withdrawal/repositories"
	withdrawalUsecases "rental-service/internal/module/withdrawal/usecases"
	"rental-service/internal/pkg/database"
	"rental-service/internal/pkg/helpers"
	"rental-service/internal/pkg/http"
	"rental-service/internal/pkg/httpclient"
	"rental-service/internal/pkg/ledger"
	"rental-service/internal/pkg/locker"
	log_internal "rental-service/internal/pkg/log"
	"rental-service/internal/pkg/messagestream"
	"rental-service/internal/pkg/middleware"
	"rental-service/internal/pkg/notification"
	"rental-service/internal/pkg/payout"
	"rental-service/internal/pkg/redis"
	"rental-service/internal/pkg/scheduler"
	router "rental-service/internal/route"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const schedulerMonitoringPort = "8082"

func main() {
	cfg := config.InitConfig()

	app, messageRouters, sch, dispatcher := initService(cfg)

	for _, router := range messageRouters {
		ctx := context.Background()
		go func(router *message.Router) {
			err := router.Run(ctx)
			if err != nil {
				log.Fatal(err)
			}
		}(router)
	}

	// start scheduler worker and monitoring
	go sch.StartHandler(&cfg.Redis,
		[]string{scheduler.TypeDispatchWithdrawalPayout},
		[]func(ctx context.Context, t *asynq.Task) error{dispatcher.DispatchPayout},
	)
	go sch.StartMonitoring(&cfg.Redis, schedulerMonitoringPort)

	// start http server
	http.StartHttpServer(app, cfg.HttpServer.Port)
}

func initService(cfg *config.Config) (*fiber.App, []*message.Router, *scheduler.Scheduler, *withdrawalHandler.WithdrawalHandler) {

	// init database
	db := database.GetConnection(&cfg.Database)
	// init redis
	redisClient := redis.SetupClient(&cfg.Redis)
	// init logger
	logger := log_internal.Setup()
	// init http client
	cb := httpclient.InitCircuitBreaker(&cfg.HttpClient, cfg.HttpClient.Type)
	httpClient := httpclient.InitHttpClient(&cfg.HttpClient, cb)

	// separate breaker for paypal
	paypalCfg := cfg.HttpClient
	paypalCfg.Timeout = cfg.PayPal.Timeout
	paypalClient := httpclient.InitHttpClient(&paypalCfg, httpclient.InitCircuitBreaker(&paypalCfg, paypalCfg.Type))

	ctx := context.Background()
	// init message stream
	amqp := messagestream.NewAmpq(&cfg.MessageStream)

	// Init Subscriber
	subscriber, err := amqp.NewSubscriber()
	if err != nil {
		logger.Ctx(ctx).Error("Failed to create subscriber", zap.Error(err))
	}

	// Init Publisher
	publisher, err := amqp.NewPublisher()
	if err != nil {
		logger.Ctx(ctx).Error("Failed to create publisher", zap.Error(err))
	}

	// init scheduler client
	sch := &scheduler.Scheduler{Log: logger, MaxRetry: cfg.Withdrawal.MaxRetry}
	sch.InitClient(&cfg.Redis)

	ldg := ledger.New()
	notifier := notification.New(publisher, logger)
	validator := helpers.NewValidator()

	// booking
	bookingRepo := repositories.New(db, logger, httpClient, redisClient, &cfg.UserService, ldg)
	pipeline := pricing.New(pricing.Rates{
		BookingFeeBPS:          cfg.Fee.BookingFeeBPS,
		ServiceFeeBPS:          cfg.Fee.ServiceFeeBPS,
		AffiliateDiscountBPS:   cfg.Fee.AffiliateDiscountBPS,
		AffiliateCommissionBPS: cfg.Fee.AffiliateCommissionBPS,
	})
	bookingUsecase := usecases.New(bookingRepo, logger, pipeline, notifier, cfg.Fee.DefaultCurrency)
	bookingHandler := handler.BookingHandler{
		Log:       logger,
		Validator: validator,
		Usecase:   bookingUsecase,
	}

	// withdrawal
	withdrawalRepo := withdrawalRepositories.New(db, logger, ldg)
	withdrawalUsecase := withdrawalUsecases.New(
		withdrawalRepo,
		logger,
		locker.New(ctx, redisClient, cfg.Withdrawal.LockTTL, logger),
		payout.NewPayPal(&cfg.PayPal, paypalClient, logger),
		sch,
		notifier,
		withdrawalUsecases.Options{
			RetryDelay:      cfg.Withdrawal.RetryDelay,
			DefaultCurrency: cfg.Fee.DefaultCurrency,
		},
	)
	withdrawalHdl := withdrawalHandler.WithdrawalHandler{
		Log:       logger,
		Validator: validator,
		Usecase:   withdrawalUsecase,
		Publish:   publisher,
	}

	// affiliate
	affiliateRepo := affiliateRepositories.New(db, logger, ldg)
	affiliateUsecase := affiliateUsecases.New(affiliateRepo, logger)
	affiliateHdl := affiliateHandler.AffiliateHandler{
		Log:       logger,
		Validator: validator,
		Usecase:   affiliateUsecase,
	}

	middleware := middleware.Middleware{
		Log:  logger,
		Repo: bookingRepo,
	}

	var messageRouters []*message.Router

	settlementRouter, err := messagestream.NewRouter("withdrawal_settlement_handler", withdrawalHandler.TopicWithdrawalSettlement, subscriber, withdrawalHdl.ConsumeSettlement)
	if err != nil {
		logger.Ctx(ctx).Error("Failed to create withdrawal_settlement router", zap.Error(err))
	} else {
		messageRouters = append(messageRouters, settlementRouter)
	}

	serverHttp := http.SetupHttpEngine()

	r := router.Initialize(serverHttp, router.Handlers{
		Booking:    &bookingHandler,
		Withdrawal: &withdrawalHdl,
		Affiliate:  &affiliateHdl,
	}, &middleware)

	return r, messageRouters, sch, &withdrawalHdl

}
