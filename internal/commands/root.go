package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Dan9191/bank-onboarding/internal/buildinfo"
	"github.com/Dan9191/bank-onboarding/internal/config"
	"github.com/Dan9191/bank-onboarding/internal/integrations/basiq"
)

type options struct {
	envFile string
	verbose bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "basiqctl",
		Short:   "Inspect users, connections and accounts at Basiq",
		Version: fmt.Sprintf("%s (commit: %s)", buildinfo.Version, buildinfo.Commit),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log aggregator requests to stderr")

	rootCmd.AddCommand(newTokenCommand(opts))
	rootCmd.AddCommand(newUserCommand(opts))
	rootCmd.AddCommand(newConnectionsCommand(opts))
	rootCmd.AddCommand(newAccountsCommand(opts))
	rootCmd.AddCommand(newTransactionsCommand(opts))
	rootCmd.AddCommand(newLinkCommand(opts))

	return rootCmd
}

func (o *options) client(cmd *cobra.Command) (*basiq.Client, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(logrus.WarnLevel)
	if o.verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return basiq.NewClient(cfg, log), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
