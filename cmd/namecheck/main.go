package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"incorporator/internal/logging"
	"incorporator/internal/registry"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr     string
		taken    []string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:          "namecheck",
		Short:        "Development name availability service",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.NewWriter(os.Stderr, logLevel)
			reg := registry.New(taken...)

			srv := &http.Server{
				Addr:              addr,
				Handler:           reg.Handler(log.WithComponent("registry")),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Info("name service listening", "addr", addr, "taken", len(taken))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Info("name service stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8088", "listen address")
	cmd.Flags().StringSliceVar(&taken, "taken", nil, "names already registered in Delaware (repeatable)")
	cmd.Flags().StringVar(&logLevel, "log-level", logging.LevelInfo, "log level")
	return cmd
}
