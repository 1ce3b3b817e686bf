package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deusflow/cryptonews/internal/app"
	"github.com/deusflow/cryptonews/internal/config"
	"github.com/deusflow/cryptonews/internal/logger"
)

func main() {
	root := &cobra.Command{
		Use:   "cryptonews",
		Short: "Score crypto headlines and post the important ones",
		Long:  "Fetches crypto and market feeds, drops duplicates of what was already posted, scores the rest and publishes the top items.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init()
		},
		SilenceUsage: true,
	}

	root.AddCommand(
		runCmd(),
		previewCmd(),
		historyCmd(),
		serveCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads env settings and applies the --rules/--sources flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("rules"); v != "" {
		cfg.RulesConfigPath = v
	}
	if v, _ := cmd.Flags().GetString("sources"); v != "" {
		cfg.SourcesConfigPath = v
	}
	return cfg, nil
}

func addPathFlags(cmd *cobra.Command) {
	cmd.Flags().String("rules", "", "Rules file (overrides RULES_CONFIG_PATH)")
	cmd.Flags().String("sources", "", "Sources file (overrides SOURCES_CONFIG_PATH)")
}

func buildService(cmd *cobra.Command, opts app.Options) (*app.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.Build(cmd.Context(), cfg, opts)
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one pass: fetch, select, commit, enrich and publish",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd, app.Options{Publish: true})
			if err != nil {
				return err
			}
			defer svc.Close()

			rep, err := svc.Runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("run %s: %d selected, %d published in %s\n",
				rep.RunID, len(rep.Items), rep.Published, rep.Duration.Round(time.Millisecond))
			return nil
		},
	}
	addPathFlags(cmd)
	return cmd
}
