package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func serveMetrics(config *Config, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	config.Logger.Info("serving metrics", zap.String("addr", addr))

	return server
}

func chat(config *Config) *cobra.Command {
	var user string
	var metricsAddr string

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Read messages from stdin line by line and print the bot replies",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if ctx == nil {
				ctx = config.Ctx
			}

			addr := metricsAddr

			if addr == "" {
				addr = config.MetricsAddr
			}

			if addr != "" && config.Registry != nil {
				server := serveMetrics(config, addr)

				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
					defer cancel()

					_ = server.Shutdown(shutdownCtx)
				}()
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			for scanner.Scan() {
				if ctx.Err() != nil {
					return nil
				}

				reply, ok := config.Dispatcher.Handle(ctx, user, scanner.Text())

				if ok {
					fmt.Fprintln(out, reply)
				}
			}

			return scanner.Err()
		},
	}

	chatCmd.Flags().StringVar(&user, "user", "cli", "User the messages are sent as")
	chatCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while chatting")

	return chatCmd
}
