package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fdtraverso/mercadito/internal/blobstore"
	"github.com/fdtraverso/mercadito/internal/config"
	"github.com/fdtraverso/mercadito/internal/db"
	"github.com/fdtraverso/mercadito/internal/events"
	"github.com/fdtraverso/mercadito/internal/httpserver"
	"github.com/fdtraverso/mercadito/internal/identity"
	"github.com/fdtraverso/mercadito/internal/logging"
	"github.com/fdtraverso/mercadito/internal/repo"
	"github.com/fdtraverso/mercadito/internal/search"
	"github.com/fdtraverso/mercadito/internal/service"
	"github.com/fdtraverso/mercadito/internal/session"
)

func main() {
	ctx := context.Background()

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	configuration.Require()

	logger := logging.New(configuration.LOG_LEVEL)

	database, err := db.Open(ctx, configuration.DATABASE_URL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	storage, err := blobstore.NewS3Store(ctx, configuration.S3_BUCKET, configuration.S3_REGION)
	if err != nil {
		log.Fatalf("s3 init error: %v", err)
	}

	var producer *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer(config.CSV(configuration.KAFKA_ADDRESS))
	} else {
		log.Println("KAFKA_ADDRESS empty, events disabled")
	}

	var searchSvc *search.Service
	if configuration.ES_URL != "" {
		esClient, err := search.NewClient(configuration)
		if err != nil {
			log.Fatalf("es init error: %v", err)
		}
		searchSvc = search.NewService(esClient, "products")
	} else {
		log.Println("ES_URL empty, full-text search disabled")
	}

	gormRepo := repo.New(database)
	accounts := &service.AccountService{Repo: gormRepo}
	catalog := &service.CatalogService{Repo: gormRepo}
	orders := &service.OrderService{Repo: gormRepo}
	sessions := session.NewStore(database, time.Duration(configuration.SESSION_TTL_HOURS)*time.Hour)
	provider := identity.NewGoogleProvider(configuration)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), logging.RequestLogger(logger))

	var publisher events.Publisher
	if producer != nil {
		publisher = producer
	}

	deps := httpserver.Deps{
		Sessions: sessions,
		AuthHandler: &httpserver.AuthHandler{
			Sessions: sessions,
			Accounts: accounts,
			Orders:   orders,
			Provider: provider,
			Producer: publisher,
		},
		ProductHandler: &httpserver.ProductHandler{
			Catalog:  catalog,
			Storage:  storage,
			Producer: publisher,
			Indexer:  searchSvc,
		},
		OrderHandler: &httpserver.OrderHandler{
			Orders:   orders,
			Producer: publisher,
		},
		SearchHandler: &httpserver.SearchHandler{Svc: searchSvc},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.SERVER_PORT),
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
