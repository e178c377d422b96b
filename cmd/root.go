package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/adfmd/internal/config"
)

var (
	cfgFile   string
	verbose   bool
	appConfig = config.Default()
	version   = "0.1.0"
)

// logger reports conversion progress and problems on stderr. Converted
// output always goes to stdout or the requested files.
var logger = &logrus.Logger{
	Out:       os.Stderr,
	Formatter: &logrus.TextFormatter{DisableTimestamp: true},
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.WarnLevel,
}

var rootCmd = &cobra.Command{
	Use:     "adfmd",
	Short:   "Markdown <-> Atlassian Document Format converter",
	Long:    `A CLI tool for converting markdown into ADF documents accepted by the Jira and Confluence REST APIs, and for rendering ADF documents back to markdown with a report of anything that could not be expressed.`,
	Version: version,

	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.adfmd.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

// loadConfig loads and validates configuration, then applies the log level.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'adfmd config' to fix your settings", err)
	}
	appConfig = cfg

	logger.SetLevel(cfg.Level())
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.WithField("config", cfgFile).Debug("configuration loaded")
	return nil
}
