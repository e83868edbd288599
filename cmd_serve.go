package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tim-martinez/node-form/internal/handler"
	"github.com/tim-martinez/node-form/internal/questionnaire"
	"github.com/tim-martinez/node-form/internal/repository"
	"github.com/tim-martinez/node-form/internal/router"
	"github.com/tim-martinez/node-form/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the submission store HTTP API",
	Long: `Serves the questionnaire and the submission store:

  GET  /api/health       liveness
  POST /api/submit       store one submission
  GET  /api/submissions  list every stored submission
  GET  /api/form         the active questionnaire
  GET  /api/stats        form shape and stored submission count`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, closeStore, err := newServer(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("node-form server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", zap.Duration("drain", shutdownTimeout))
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// newServer wires form, store, service, handlers and router. The returned
// func closes the store.
func newServer(ctx context.Context) (*http.Server, func(), error) {
	form, err := questionnaire.Load(cfg.Form.Path)
	if err != nil {
		return nil, nil, err
	}
	store, err := repository.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}

	svc := service.NewSubmissionService(store, logger)
	subH := handler.NewSubmissionHandler(svc)
	formH := handler.NewFormHandler(form)
	statsH := handler.NewStatsHandler(form, svc)
	r := router.New(logger, subH, formH, statsH)

	logger.Info("form loaded",
		zap.String("form", form.ID),
		zap.Int("sections", len(form.Sections)),
		zap.Int("questions", form.QuestionCount()))

	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}, closeStore, nil
}
