package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aordonez-dev/unimarc-ingest/cmd/ingest"
	"github.com/aordonez-dev/unimarc-ingest/cmd/inspect"
	"github.com/aordonez-dev/unimarc-ingest/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "unimarc-ingest",
		Short: "Unimarc hydration payload ingestion CLI",
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		ingest.Command(settings),
		inspect.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines the global command line flags. Flag values take
// precedence over the configuration file.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVarP(&settings.Input.Path, "input", "i", viper.GetString("input.path"), "Corpus file or directory of raw hydration documents")
	rootCmd.PersistentFlags().StringVar(&settings.Log.Level, "log-level", viper.GetString("log.level"), "Log level: debug, info, warn, error")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		cobra.CheckErr(fmt.Errorf("error binding flags: %w", err))
	}
}
