package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dt-pm-tools/adfmd/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure conversion settings",
	Long:  `Interactively set the warning report format, strictness, marker preservation, worker count and log level. Settings are saved to ~/.adfmd.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load existing config for defaults
		existing, err := config.Load(cfgFile)
		if err != nil {
			existing = config.Default()
		}

		cfg, err := promptConfig(cmd.InOrStdin(), cmd.OutOrStdout(), existing)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
		return nil
	},
}

// promptConfig asks for each setting on out, reading answers from in. An
// empty answer keeps the existing value.
func promptConfig(in io.Reader, out io.Writer, existing config.Config) (config.Config, error) {
	reader := bufio.NewReader(in)
	cfg := existing

	cfg.Warnings = prompt(reader, out, "Warning format (text, json, yaml, none)", existing.Warnings)

	strict, err := strconv.ParseBool(prompt(reader, out, "Fail on lossy conversion", strconv.FormatBool(existing.Strict)))
	if err != nil {
		return cfg, fmt.Errorf("strict: %w", err)
	}
	cfg.Strict = strict

	preserve, err := strconv.ParseBool(prompt(reader, out, "Preserve unsupported nodes", strconv.FormatBool(existing.Preserve)))
	if err != nil {
		return cfg, fmt.Errorf("preserve: %w", err)
	}
	cfg.Preserve = preserve

	workers, err := strconv.Atoi(prompt(reader, out, "Workers", strconv.Itoa(existing.Workers)))
	if err != nil {
		return cfg, fmt.Errorf("workers: %w", err)
	}
	cfg.Workers = workers

	cfg.LogLevel = prompt(reader, out, "Log level", existing.LogLevel)
	return cfg, nil
}

func prompt(reader *bufio.Reader, out io.Writer, label, def string) string {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def
	}
	return answer
}

func init() {
	rootCmd.AddCommand(configCmd)
}
