// Package cli holds shared helpers for the pitstopd command line.
package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pitstop/sync/config"
	"github.com/pitstop/sync/logging"
)

// NewStandardCommand creates a root command with the standard flags.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Log in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to pitstop.yml config file")

	return cmd
}

// Flags exposes the persistent flag set, mostly for tests.
func Flags(cmd *cobra.Command) *pflag.FlagSet {
	return cmd.PersistentFlags()
}

// GetLogger creates a logger honoring the command's flags.
func GetLogger(cmd *cobra.Command, component string) *logrus.Entry {
	entry := logging.NewLogger(component)

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		entry.Logger.SetLevel(logrus.DebugLevel)
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		entry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return entry
}

// LoadConfig resolves the configuration: the --config flag if given,
// otherwise the nearest pitstop.yml, otherwise defaults. The second
// return is the path the config came from, empty for defaults.
func LoadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err := config.Load(path)
		return cfg, path, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	if path, ok := config.FindConfigFile(cwd); ok {
		cfg, err := config.Load(path)
		return cfg, path, err
	}
	return config.Default(), "", nil
}
