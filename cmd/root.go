package cmd

import (
	"fmt"
	"os"

	"stonehub/config"
	"stonehub/logger"
	"stonehub/server"

	"github.com/spf13/cobra"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "stonehub_server",
	Short: "Stonehub community and progress tracker backend.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		logger.InitLogger(logger.Config{
			Level:      cfg.LogLevel,
			OutputPath: cfg.LogFile,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

func runServer() {
	if err := server.Start(cfg); err != nil {
		logger.Fatal("[Server] 服务运行失败", logger.ErrorField(err))
	}
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
