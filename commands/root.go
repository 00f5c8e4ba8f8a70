package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ledokol-inc/socialload/config"
	"github.com/ledokol-inc/socialload/logger"
)

var (
	configFile string
	settings   = viper.New()
	cfg        *config.Config
	logCloser  io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "socialload",
	Short:         "socialload fills a social network backend with synthetic data and drives load against it.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(settings, configFile, !cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		cfg = loaded
		logCloser = logger.Setup(cfg.Logging)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", config.DefaultFile, "Path to the configuration file.")
	flags.Int64("seed", 0, "Seed of the record generator.")
	flags.String("social-url", "", "Base url of the social backend.")
	flags.String("store", "", "Store kind: bolt or file.")
	flags.String("store-path", "", "Store database file or directory.")
	bindFlag(flags.Lookup("seed"), "seed")
	bindFlag(flags.Lookup("social-url"), "backend.social-url")
	bindFlag(flags.Lookup("store"), "store.kind")
	bindFlag(flags.Lookup("store-path"), "store.path")
}

func ExecuteContext(ctx context.Context) {
	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command line and releases the log file whatever the
// command returned.
func run(ctx context.Context) error {
	defer closeLog()
	return rootCmd.ExecuteContext(ctx)
}

func closeLog() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}
