package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/pickupclub/storefront/internal/backend"
	"github.com/pickupclub/storefront/internal/billing"
	"github.com/pickupclub/storefront/internal/cart"
	"github.com/pickupclub/storefront/internal/checkout"
	"github.com/pickupclub/storefront/internal/session"
	"github.com/pickupclub/storefront/internal/snapshot"
	"github.com/pickupclub/storefront/internal/storefront"
)

const (
	appNamespace = "STOREFRONT"
	appName      = "storefront"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	storageDir := config.GetStringOrDef("storage.dir", "./data")
	snapshots := snapshot.NewStore(storageDir)

	vault := session.NewVault(snapshots)
	vault.Hydrate()

	sessions := session.NewStore(snapshots, vault, logger)
	sessions.Hydrate()

	carts := cart.NewStore(snapshots, logger)
	carts.Hydrate()

	backendURL := config.GetStringOrDef("services.backend.url", "http://localhost:8080")
	api := backend.NewClient(backendURL, vault, logger)

	refresher := session.NewRefresher(sessions, vault, api, logger)

	clientKey, _ := config.GetString("payments.client.key")
	authorizeURL := config.GetStringOrDef("payments.authorize.url", "https://pay.example.com/billing/authorize")
	provider := billing.NewProvider(clientKey, authorizeURL)

	baseURL := config.GetStringOrDef("public.base.url", "http://localhost:8090")
	orchestrator := checkout.NewOrchestrator(
		carts,
		sessions,
		api,
		api,
		provider,
		baseURL+"/mypage/billing/success",
		baseURL+"/payments/fail",
		logger,
	)

	hd := storefront.HandlerDeps{
		Sessions: sessions,
		Carts:    carts,
		Checkout: orchestrator,
		Auth:     api,
		Catalog:  api,
		Orders:   api,
		Payments: api,
		Reviews:  api,
		Sales:    api,
		Admin:    api,
	}
	handler := storefront.NewHandler(hd, config, logger)

	refresherLifecycle := apt.LifecycleHooks{
		OnStart: refresher.Start,
		OnStop:  refresher.Stop,
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: logger,
	})

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(refresherLifecycle),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
