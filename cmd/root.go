package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/waterlog/app"
	"github.com/kilianp07/waterlog/config"
	"github.com/kilianp07/waterlog/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "waterlog",
	Short:         "Configuration driven logging",
	Long:          "waterlog builds logs, listeners and sinks from a configuration file and serves their metrics.",
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "waterlog.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadService() (*app.Service, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(cfg)
}

func closeService(cmd *cobra.Command, svc *app.Service) {
	if err := svc.Close(); err != nil {
		if _, ferr := fmt.Fprintf(cmd.ErrOrStderr(), "error while closing service: %v\n", err); ferr != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := loadService()
	if err != nil {
		return err
	}
	defer closeService(cmd, svc)
	return svc.Run(ctx)
}
