package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/malusev998/currency-bot"
	"github.com/malusev998/currency-bot/bot"
	"github.com/malusev998/currency-bot/logger"
)

const serviceName = "currency-bot"

var (
	rootCmd = &cobra.Command{
		Use:          "currency-bot",
		Short:        "Currency conversion chat bot",
		Version:      "v2.0.0",
		SilenceUsage: true,
	}
	debug      bool
	configFile string
)

type (
	Config struct {
		Ctx         context.Context
		Logger      *zap.Logger
		Bases       []string
		Refresher   currency.Service
		Dispatcher  *bot.Dispatcher
		Registry    *prometheus.Registry
		MetricsAddr string
		debug       *bool
	}
)

func Execute(ctx context.Context) error {
	config := &Config{Ctx: ctx, debug: &debug}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug flag")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./config.yml", "Path to config file")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return config.load()
	}

	rootCmd.AddCommand(fetch(config), ask(config), chat(config))

	defer func() {
		if config.Logger != nil {
			_ = config.Logger.Sync()
		}
	}()

	return rootCmd.ExecuteContext(ctx)
}

func (c *Config) load() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	log, err := logger.New(serviceName, *c.debug)
	if err != nil {
		return err
	}

	c.Logger = log

	v := viper.GetViper()
	absolutePath, _ := filepath.Abs(configFile)

	v.SetConfigFile(absolutePath)
	v.SetEnvPrefix("CURRENCY_BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError

		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", absolutePath, err)
		}

		log.Info("config file not found, using defaults and environment", zap.String("path", absolutePath))
	}

	settings, err := settingsFromViper(v)
	if err != nil {
		return err
	}

	return c.build(settings)
}
