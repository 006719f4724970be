package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/permachat/permachat/pkg/channels"
	"github.com/permachat/permachat/pkg/config"
	"github.com/permachat/permachat/pkg/logger"
	"github.com/permachat/permachat/pkg/relay"
	"github.com/permachat/permachat/pkg/watcher"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "permachat",
		Short:         "Chat front end for pushing Telegram bot files to permanent storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json", "path to config file")

	rootCmd.AddCommand(serveCmd(), uploadCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *watcher.Broker, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	client := relay.NewClient(cfg.Relay.BaseURL, cfg.Relay.Timeout())
	broker := watcher.NewBroker(client, cfg.Watcher.PollInterval())
	return cfg, broker, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, broker, err := setup()
			if err != nil {
				return err
			}

			if !cfg.Channels.WebChat.Enabled {
				return fmt.Errorf("webchat channel is disabled in config")
			}

			var notifier channels.Notifier
			if cfg.Channels.Telegram.Enabled {
				tn, err := channels.NewTelegramNotifier(cfg.Channels.Telegram)
				if err != nil {
					return fmt.Errorf("telegram notifier: %w", err)
				}
				notifier = tn
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			webchat := channels.NewWebChat(cfg.Channels.WebChat, broker, notifier, cfg.Watcher.MaxWait())
			if err := webchat.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return webchat.Stop(shutdownCtx)
		},
	}
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Wait for the next bot file to reach permanent storage and print its URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, broker, err := setup()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if maxWait := cfg.Watcher.MaxWait(); maxWait > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, maxWait)
				defer cancel()
			}

			url, err := broker.WaitForFirstUpload(ctx)
			if err != nil {
				return err
			}

			fmt.Println(url)
			return nil
		},
	}
}
