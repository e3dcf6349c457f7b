package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Rrens/legal-assistant/internal/bootstrap"
	"github.com/Rrens/legal-assistant/internal/config"
	"github.com/Rrens/legal-assistant/internal/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"

	// adminPassphrase is replaced at build time like the server's
	adminPassphrase = "252525"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "legalctl",
	Short: "Terminal client for the legal document assistant",
	Long: `legalctl manages the document repository and asks questions about it
using the same storage and inference configuration as the server.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (default is ./configs/config.yaml)")
}

// openRuntime loads configuration and starts a controller over the configured
// store. Suggestions are only computed when a command asks for them.
func openRuntime(cmd *cobra.Command) (*bootstrap.Runtime, func(), error) {
	_ = godotenv.Load()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		os.Setenv("CONFIG_PATH", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	// The CLI serves no scrapes
	cfg.Metrics.Enabled = false

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := bootstrap.New(ctx, cfg, adminPassphrase, bootstrap.ManualSuggestions())
	if err != nil {
		logCloser.Close()
		return nil, nil, err
	}
	rt.App.Start(ctx)

	cleanup := func() {
		rt.Close()
		logCloser.Close()
	}
	return rt, cleanup, nil
}
