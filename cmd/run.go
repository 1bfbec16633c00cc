package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golem/pkg/config"
	"golem/pkg/golem"
	"golem/pkg/logger"
	"golem/pkg/plugins"
	"golem/pkg/transport"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to the network and run the bot",
	Long:  "Connects to the configured IRC server, authenticates, and runs every configured plugin until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		appLogger, err := logger.New(cfg.Logging)
		if err != nil {
			fmt.Printf("failed to initialize logger: %v\n", err)
			return
		}
		slog.SetDefault(appLogger)
		log := slog.Default().With("component", "cmd.run")

		inits, err := plugins.Select(cfg.Plugins)
		if err != nil {
			log.Error("Plugin configuration invalid", "error", err)
			return
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		conn, err := transport.Dial(runCtx, cfg.Server, log)
		if err != nil {
			log.Error("Failed to connect", "error", err)
			return
		}
		defer conn.Close()

		bot, err := golem.New(runCtx, cfg, conn, inits, log)
		if err != nil {
			log.Error("Failed to initialize runtime", "error", err)
			return
		}

		log.Info("Golem started", "server", cfg.Server.Host, "nick", cfg.Server.Nickname, "plugins", strings.Join(cfg.Plugins, ","))
		if err := bot.Run(runCtx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Runtime failed", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
