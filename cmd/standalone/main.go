// Command standalone runs the Glossary API and the gateway in a single
// process. Either listener failing terminates the whole group.
package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"glossary-backend/infrastructure/config"
	"glossary-backend/infrastructure/di"
	"glossary-backend/interfaces/http/gateway"
	"glossary-backend/interfaces/http/rest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	apiHandler := rest.NewRouter(
		container.Config,
		container.Store,
		container.Mode,
		container.AI,
		logger,
	).Setup()

	gw, err := gateway.New(cfg.APIInternalURL(), cfg.StaticDir, logger)
	if err != nil {
		logger.Fatal("Failed to build gateway", zap.Error(err))
	}

	apiSrv := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      apiHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	gwSrv := &http.Server{
		Addr:         cfg.GatewayAddress(),
		Handler:      gw.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting Glossary API server",
			zap.String("address", cfg.ServerAddress()),
			zap.String("mode", string(container.Mode)),
		)
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting gateway",
			zap.String("address", cfg.GatewayAddress()),
			zap.String("apiTarget", cfg.APIInternalURL()),
		)
		if err := gwSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down services...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("API shutdown error", zap.Error(err))
		}
		if err := gwSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Gateway shutdown error", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("Service group terminated", zap.Error(err))
	}

	if err := logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Stopped")
}
