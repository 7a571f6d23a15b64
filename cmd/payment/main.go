package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/cityline-transit/ct-ticket/config"
	"github.com/cityline-transit/ct-ticket/internal/module/paymentapp/bank"
	"github.com/cityline-transit/ct-ticket/internal/module/paymentapp/transaction"
	"github.com/cityline-transit/ct-ticket/internal/pkg/jwt"
	internalMiddleware "github.com/cityline-transit/ct-ticket/internal/pkg/middleware"
	"github.com/cityline-transit/ct-ticket/internal/pkg/session"
	"github.com/cityline-transit/ct-ticket/pkg/applogger"
	"github.com/cityline-transit/ct-ticket/pkg/kafka"
	"github.com/cityline-transit/ct-ticket/pkg/middleware"
	"github.com/cityline-transit/ct-ticket/pkg/monitoring"
	"github.com/cityline-transit/ct-ticket/pkg/postgresql"
	"github.com/cityline-transit/ct-ticket/pkg/pubsub"
	"github.com/cityline-transit/ct-ticket/pkg/redis"
	"github.com/cityline-transit/ct-ticket/pkg/server"
)

var c *config.Config

func init() {
	c = config.Get()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := applogger.GetLogrus()

	mon := monitoring.NewOpenTelemetry(
		fmt.Sprintf("%s/payment", c.Application.Name),
		c.Application.Environment,
		c.Monitoring.OTLPEndpoint,
	)
	mon.Start(ctx)

	jsonWebToken := jwt.NewJSONWebToken(c.JWT.Secret)

	psqldb := postgresql.GetDatabase()
	if err := psqldb.Ping(); err != nil {
		logger.WithContext(ctx).WithError(err).Error()
	}

	rc := redis.GetClient()
	if err := rc.Ping(ctx).Err(); err != nil {
		logger.WithContext(ctx).WithError(err).Error()
	}

	hc := http.DefaultClient

	publisher := pubsub.PublisherFromConfluentKafkaProducer(logger, kafka.NewProducer())
	subscriber := pubsub.SubscriberFromConfluentKafkaConsumer(logger, kafka.NewConsumer(fmt.Sprintf("%s-payment", c.Kafka.GroupID)))

	sessionStore := session.NewRedisSessionStore(logger, rc)

	customerSessionMiddleware := internalMiddleware.NewCustomerSessionMiddleware(jsonWebToken, sessionStore)
	adminSessionMiddleware := internalMiddleware.NewAdminSessionMiddleware(jsonWebToken, sessionStore)

	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(c.Application.Name),
		middleware.HTTPResponseTraceInjection,
		middleware.NewHTTPRequestLogger(logger, c.Application.Debug, http.StatusInternalServerError).Middleware,
	)

	bankRepo := bank.NewBankRepository(c.Bank.BaseURL, c.Bank.BasicAuthKey, logger, hc)
	transactionRepo := transaction.NewTransactionRepository(logger, psqldb)
	transactionUseCase := transaction.NewTransactionUseCase(transaction.TransactionUseCaseProperty{
		Logger:                logger,
		Timeout:               c.Application.Timeout,
		PaymentResultTopic:    c.Kafka.PaymentResultTopic,
		JSONWebToken:          jsonWebToken,
		TransactionRepository: transactionRepo,
		BankRepository:        bankRepo,
		Publisher:             publisher,
	})
	transaction.InitHTTPHandler(router, customerSessionMiddleware, adminSessionMiddleware, transactionUseCase)
	transaction.InitEventSubscriber(logger, subscriber, c.Kafka.PaymentRequestTopic, transactionUseCase)

	if err := subscriber.Start(ctx); err != nil {
		logger.WithContext(ctx).WithError(err).Fatal()
	}

	handler := middleware.SetChain(
		router,
		cors.New(cors.Options{
			AllowedOrigins:   c.CORS.AllowedOrigins,
			AllowedMethods:   c.CORS.AllowedMethods,
			AllowedHeaders:   c.CORS.AllowedHeaders,
			ExposedHeaders:   c.CORS.ExposedHeaders,
			MaxAge:           c.CORS.MaxAge,
			AllowCredentials: c.CORS.AllowCredentials,
		}).Handler,
	)

	srv := &server.Server{
		Server: http.Server{
			Addr:    fmt.Sprintf(":%d", c.Application.Port),
			Handler: handler,
		},
		Logger: logger,
	}

	go func() {
		srv.ListenAndServe()
	}()

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)
	<-sigterm

	srv.Shutdown(ctx)
	subscriber.Close()
	publisher.Close()
	psqldb.Close()
	rc.Close()
	mon.Stop(ctx)
}
