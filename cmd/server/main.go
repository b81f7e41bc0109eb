package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"churn-predictor/internal/artifact"
	"churn-predictor/internal/artifact/store"
	"churn-predictor/internal/common/config"
	"churn-predictor/internal/common/logger"
	"churn-predictor/internal/common/observability"
	"churn-predictor/internal/predictor"
	"churn-predictor/internal/response"
	"churn-predictor/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting churn prediction service", map[string]interface{}{
		"name":        cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	st, err := store.NewFromConfig(cfg.Artifact)
	if err != nil {
		log.WithError(err).Error("failed to initialize artifact store", nil)
		os.Exit(1)
	}
	if closer, ok := st.(io.Closer); ok {
		defer closer.Close()
	}

	manager := artifact.NewManager(st, log)

	// The initial load is fatal. A process without a valid artifact must
	// refuse to serve rather than hand out fabricated predictions.
	if err := manager.Load(context.Background()); err != nil {
		log.WithError(err).Error("initial artifact load failed, refusing to serve", map[string]interface{}{
			"source": st.Describe(),
		})
		os.Exit(1)
	}

	svc := predictor.NewService(
		manager,
		predictor.NewPool(cfg.Inference.MaxConcurrent),
		response.Thresholds{High: cfg.Thresholds.High, Medium: cfg.Thresholds.Medium},
		log,
	)

	srv := server.New(cfg, svc, manager, obs, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info("shutdown signal received", map[string]interface{}{"signal": sig.String()})
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("http server failed", nil)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed", nil)
		os.Exit(1)
	}

	log.Info("shutdown complete", nil)
}
