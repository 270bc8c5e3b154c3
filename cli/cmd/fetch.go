package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ErrInvalidInterval = errors.New("invalid refresh interval")

func handleRefresh(ctx context.Context, config *Config) error {
	sheets, err := config.Refresher.Refresh(ctx, config.Bases)

	if err != nil {
		return err
	}

	if !*config.debug {
		return nil
	}

	for base, sheet := range sheets {
		for code, rate := range sheet.Rates {
			config.Logger.Debug("rate refreshed",
				zap.String("base", base),
				zap.String("code", code),
				zap.Float64("rate", rate),
			)
		}
	}

	return nil
}

func fetchCobraCommand(standalone *bool, after *time.Duration, config *Config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if *standalone && *after <= 0 {
			return fmt.Errorf("%w: --after must be positive, got %s", ErrInvalidInterval, *after)
		}

		ctx := cmd.Context()

		if ctx == nil {
			ctx = config.Ctx
		}

		if err := handleRefresh(ctx, config); err != nil {
			if !*standalone {
				return err
			}

			config.Logger.Error("refresh failed", zap.Error(err))
		}

		if !*standalone {
			return nil
		}

		ticker := time.NewTicker(*after)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := handleRefresh(ctx, config); err != nil {
					config.Logger.Error("refresh failed", zap.Error(err))
				}
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func fetch(config *Config) *cobra.Command {
	var standalone bool
	var after time.Duration

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Refresh the cached rate sheets of the configured bases",
	}

	fetchCmd.RunE = fetchCobraCommand(&standalone, &after, config)
	fetchCmd.Flags().BoolVar(&standalone, "standalone", false, "Start up a long running refreshing service")
	fetchCmd.Flags().DurationVar(&after, "after", time.Duration(1)*time.Hour, "Refresh interval for the standalone process")

	return fetchCmd
}
