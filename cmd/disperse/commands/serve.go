package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AlexZinkM/disperse/internal/api"
	"github.com/AlexZinkM/disperse/internal/config"
	"github.com/AlexZinkM/disperse/internal/handler"
	"github.com/AlexZinkM/disperse/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// serve: run the HTTP API around a single session.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.KeyFilePath == "" {
				return errors.New("KEY_FILE_PATH not set")
			}
			if err := config.PromptForPassword(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m, err := metrics.New(reg)
			if err != nil {
				return err
			}

			session, gateway, err := newSession(ctx, config.GetPasswordBytes, m)
			if err != nil {
				return err
			}
			defer session.Disconnect()

			wallet, err := handler.NewWalletHandler(cfg.KeyFilePath, config.GetPasswordBytes)
			if err != nil {
				return err
			}

			wallet.WithBalance(gateway, newParser())

			router := api.SetupRouter(handler.NewSessionHandler(session, cfg.SubmitCooldown), wallet, reg)
			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("failed to serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down: %w", err)
			}
			return nil
		},
	}
}
