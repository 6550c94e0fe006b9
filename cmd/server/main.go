package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/evanazhr/simple-pos-api/internal/cart"
	"github.com/evanazhr/simple-pos-api/internal/catalog"
	"github.com/evanazhr/simple-pos-api/internal/config"
	"github.com/evanazhr/simple-pos-api/internal/es"
	"github.com/evanazhr/simple-pos-api/internal/handlers"
	"github.com/evanazhr/simple-pos-api/internal/logging"
	authmw "github.com/evanazhr/simple-pos-api/internal/middleware/auth"
	loggingmw "github.com/evanazhr/simple-pos-api/internal/middleware/logging"
	"github.com/evanazhr/simple-pos-api/internal/mykafka"
	"github.com/evanazhr/simple-pos-api/internal/order"
	"github.com/evanazhr/simple-pos-api/internal/payment"
	httpserver "github.com/evanazhr/simple-pos-api/internal/transport/http"
	"github.com/evanazhr/simple-pos-api/internal/upload"
)

func main() {
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	config.MustNonEmpty(configuration.JWT_SECRET, "JWT_SECRET")
	config.MustNonEmpty(configuration.PAYMENT_API_URL, "PAYMENT_API_URL")
	config.MustNonEmpty(configuration.PAYMENT_API_KEY, "PAYMENT_API_KEY")

	logger := logging.New(os.Getenv("LOG_LEVEL"))

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	searchClient, err := es.NewClient(configuration)
	if err != nil {
		log.Printf("elasticsearch unavailable, search disabled: %v", err)
		searchClient = nil
	}

	gateway := payment.NewClient(configuration.PAYMENT_API_URL, configuration.PAYMENT_API_KEY)

	var presigner *upload.Presigner
	if configuration.UPLOAD_BUCKET != "" {
		presigner, err = upload.NewPresigner(context.Background(), configuration.UPLOAD_BUCKET)
		if err != nil {
			log.Printf("presigner unavailable, uploads disabled: %v", err)
		}
	}

	carts := cart.NewStore()
	catalogSvc := &catalog.Service{DB: db}
	orderSvc := &order.Service{DB: db, Gateway: gateway}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Validator = handlers.NewValidator()

	const productIndex = "product"

	deps := httpserver.Deps{
		Auth: &authmw.Middleware{JWTSecret: []byte(configuration.JWT_SECRET)},
		CatalogHandler: &handlers.CatalogHandler{
			Svc:      catalogSvc,
			Producer: prod,
			ES:       searchClient,
			Index:    productIndex,
		},
		CartHandler: &handlers.CartHandler{
			Carts:    carts,
			Catalog:  catalogSvc,
			Producer: prod,
		},
		OrderHandler: &handlers.OrderHandler{
			Svc:      orderSvc,
			Carts:    carts,
			Producer: prod,
		},
		UploadHandler: &handlers.UploadHandler{Presigner: presigner},
		SearchHandler: &handlers.SearchHandler{ES: searchClient, Index: productIndex},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
