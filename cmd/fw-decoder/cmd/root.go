// Package cmd implements the fw-decoder command line tool.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quara-dev/fw-decoder/internal/dict"
	"github.com/quara-dev/fw-decoder/internal/input"
)

var rootCmd = &cobra.Command{
	Use:   "fw-decoder",
	Short: "Decode compact binary firmware logs using a build-time dictionary",
	Long: `fw-decoder turns the compact binary logs captured on embedded devices
back into readable text. Devices log only numeric template references and
argument words; the template strings live in a dictionary extracted at
firmware build time and shipped alongside the build.

Settings can come from flags, FW_DECODER_* environment variables or a
config file (default $HOME/.fw-decoder.yaml).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

var (
	cfgFile  string
	logLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default $HOME/.fw-decoder.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Diagnostic log level (debug, info, warn, error)")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	logrus.SetOutput(os.Stderr)
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".fw-decoder")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FW_DECODER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" {
			// An explicitly requested config file must exist.
			return fmt.Errorf("read config: %w", err)
		}
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	lvl, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(lvl)
	return nil
}

// loadTable builds the dictionary table for path, falling back to the
// configured default dictionary when path is empty. Entries skipped during
// the build are logged as warnings.
func loadTable(path string) (*dict.Table, error) {
	if path == "" {
		path = viper.GetString("dictionary")
	}
	if path == "" {
		return nil, errors.New("no dictionary given (use --dictionary or FW_DECODER_DICTIONARY)")
	}

	raw, err := input.ReadFile(path)
	if err != nil {
		return nil, err
	}
	table, err := dict.Build(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, w := range table.Warnings() {
		logrus.WithField("dictionary", path).Warn(w)
	}
	return table, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
