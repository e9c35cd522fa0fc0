package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/martijn/clientcrud/internal/api"
	"github.com/spf13/cobra"
)

func newServerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the API server",
		Long:  "Start the REST API server exposing the client operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := a.initServices(cmd.Context())
			if err != nil {
				return err
			}
			defer services.Close()

			server := api.NewServer(a.cfg, services.ClientService, services.DB, a.log)

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for interrupt signal or server error
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			a.log.Info("server is ready, press Ctrl+C to stop")

			select {
			case err := <-serverErr:
				return fmt.Errorf("server error: %w", err)
			case <-sigChan:
				a.log.Info("shutting down gracefully")
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown error: %w", err)
			}

			a.log.Info("server stopped")
			return nil
		},
	}
}
