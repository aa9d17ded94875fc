package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"puntoventa/internal/config"
	"puntoventa/internal/db"
	"puntoventa/internal/httpserver"
	invoicerepo "puntoventa/internal/repository/invoice"
	productrepo "puntoventa/internal/repository/product"
	salerepo "puntoventa/internal/repository/sale"
	settingsrepo "puntoventa/internal/repository/settings"
	tokenrepo "puntoventa/internal/repository/token"
	userrepo "puntoventa/internal/repository/user"
	authsvc "puntoventa/internal/service/auth"
	cartsvc "puntoventa/internal/service/cart"
	catalogsvc "puntoventa/internal/service/catalog"
	checkoutsvc "puntoventa/internal/service/checkout"
	salessvc "puntoventa/internal/service/sales"
	settingssvc "puntoventa/internal/service/settings"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	saleRepo := salerepo.NewPostgres(dbpool, logger)
	invoiceRepo := invoicerepo.NewPostgres(dbpool)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	settingsRepo := settingsrepo.NewPostgres(dbpool)

	authService := authsvc.New(userRepo, tokenRepo)
	catalogService := catalogsvc.New(productRepo)
	checkoutService := checkoutsvc.New(saleRepo, productRepo, invoiceRepo, logger)
	salesService := salessvc.New(saleRepo)
	settingsService := settingssvc.New(settingsRepo)
	carts := cartsvc.NewStore()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Auth:     authService,
		Catalog:  catalogService,
		Carts:    carts,
		Checkout: checkoutService,
		Sales:    salesService,
		Settings: settingsService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
