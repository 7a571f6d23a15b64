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
	adminapp_catalogue "github.com/cityline-transit/ct-ticket/internal/module/adminapp/catalogue"
	adminapp_order "github.com/cityline-transit/ct-ticket/internal/module/adminapp/order"
	customerapp_catalogue "github.com/cityline-transit/ct-ticket/internal/module/customerapp/catalogue"
	customerapp_order "github.com/cityline-transit/ct-ticket/internal/module/customerapp/order"
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
	"github.com/cityline-transit/ct-ticket/pkg/validator"
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
		fmt.Sprintf("%s/catalogue", c.Application.Name),
		c.Application.Environment,
		c.Monitoring.OTLPEndpoint,
	)
	mon.Start(ctx)

	validate := validator.Get()

	jsonWebToken := jwt.NewJSONWebToken(c.JWT.Secret)

	psqldb := postgresql.GetDatabase()
	if err := psqldb.Ping(); err != nil {
		logger.WithContext(ctx).WithError(err).Error()
	}

	rc := redis.GetClient()
	if err := rc.Ping(ctx).Err(); err != nil {
		logger.WithContext(ctx).WithError(err).Error()
	}

	publisher := pubsub.PublisherFromConfluentKafkaProducer(logger, kafka.NewProducer())
	subscriber := pubsub.SubscriberFromConfluentKafkaConsumer(logger, kafka.NewConsumer(fmt.Sprintf("%s-catalogue", c.Kafka.GroupID)))

	sessionStore := session.NewRedisSessionStore(logger, rc)

	customerSessionMiddleware := internalMiddleware.NewCustomerSessionMiddleware(jsonWebToken, sessionStore)
	adminSessionMiddleware := internalMiddleware.NewAdminSessionMiddleware(jsonWebToken, sessionStore)
	anySessionMiddleware := internalMiddleware.NewAnySessionMiddleware(jsonWebToken, sessionStore)

	router := mux.NewRouter()
	router.Use(
		otelmux.Middleware(c.Application.Name),
		middleware.HTTPResponseTraceInjection,
		middleware.NewHTTPRequestLogger(logger, c.Application.Debug, http.StatusInternalServerError).Middleware,
	)

	// customer's app
	customerappCatalogueRepo := customerapp_catalogue.NewTicketCatalogueRepository(logger, psqldb)
	customerappCatalogueUseCase := customerapp_catalogue.NewCatalogueUseCase(customerapp_catalogue.CatalogueUseCaseProperty{
		Logger:                    logger,
		Timeout:                   c.Application.Timeout,
		TicketCatalogueRepository: customerappCatalogueRepo,
	})
	customerapp_catalogue.InitHTTPHandler(router, customerappCatalogueUseCase)

	customerappOrderRepo := customerapp_order.NewOrderRepository(logger, psqldb)
	customerappOrderUseCase := customerapp_order.NewOrderUseCase(customerapp_order.OrderUseCaseProperty{
		Logger:                    logger,
		Timeout:                   c.Application.Timeout,
		PaymentRequestTopic:       c.Kafka.PaymentRequestTopic,
		TicketCatalogueRepository: customerappCatalogueRepo,
		OrderRepository:           customerappOrderRepo,
		Publisher:                 publisher,
	})
	customerapp_order.InitHTTPHandler(router, customerSessionMiddleware, anySessionMiddleware, validate, customerappOrderUseCase)
	customerapp_order.InitEventSubscriber(logger, subscriber, c.Kafka.PaymentResultTopic, customerappOrderUseCase)

	// admin's app
	adminappCatalogueRepo := adminapp_catalogue.NewTicketCatalogueRepository(logger, psqldb)
	adminappCatalogueUseCase := adminapp_catalogue.NewCatalogueUseCase(adminapp_catalogue.CatalogueUseCaseProperty{
		Logger:                    logger,
		Timeout:                   c.Application.Timeout,
		TicketCatalogueRepository: adminappCatalogueRepo,
	})
	adminapp_catalogue.InitHTTPHandler(router, adminSessionMiddleware, validate, adminappCatalogueUseCase)

	adminappOrderRepo := adminapp_order.NewOrderRepository(logger, psqldb)
	adminappOrderUseCase := adminapp_order.NewOrderUseCase(adminapp_order.OrderUseCaseProperty{
		Logger:          logger,
		Timeout:         c.Application.Timeout,
		OrderRepository: adminappOrderRepo,
	})
	adminapp_order.InitHTTPHandler(router, adminSessionMiddleware, adminappOrderUseCase)

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
