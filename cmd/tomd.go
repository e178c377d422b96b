package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dt-pm-tools/adfmd/internal/adf"
	"github.com/dt-pm-tools/adfmd/internal/config"
	"github.com/dt-pm-tools/adfmd/internal/markdown"
)

var (
	mdPath     string
	mdOutput   string
	mdWarnings string
	mdStrict   bool
	mdPreserve bool
)

var toMDCmd = &cobra.Command{
	Use:     "to-md [file]",
	Aliases: []string{"md"},
	Short:   "Render an ADF document as markdown",
	Long: `Reads ADF JSON from a file or stdin and renders it as markdown. Writes to
stdout by default, or to a file with --output.

Use --path to select a document nested in an API response, for example
"fields.description" for a Jira issue. Constructs markdown cannot express are
approximated and reported on stderr; --strict turns them into an error.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}
		if !cmd.Flags().Changed("warnings") {
			mdWarnings = appConfig.Warnings
		}
		if !cmd.Flags().Changed("strict") {
			mdStrict = appConfig.Strict
		}
		if !cmd.Flags().Changed("preserve") {
			mdPreserve = appConfig.Preserve
		}

		var path string
		if len(args) == 1 {
			path = args[0]
		}
		data, source, err := readInput(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}

		res, err := adfToMarkdown(data, mdPath, mdPreserve)
		if err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}

		if res.Warnings.Len() > 0 {
			logger.WithFields(logrus.Fields{"source": source, "kinds": res.Warnings.Kinds()}).Debug("lossy conversion")
			if err := writeWarnings(cmd.ErrOrStderr(), res.Warnings, mdWarnings); err != nil {
				return fmt.Errorf("reporting warnings: %w", err)
			}
			if mdStrict {
				return fmt.Errorf("%s: conversion is lossy for %d node kinds", source, res.Warnings.Len())
			}
		}

		text := res.Text
		if text != "" {
			text += "\n"
		}
		return writeOutput(cmd.OutOrStdout(), mdOutput, []byte(text))
	},
}

// adfToMarkdown decodes the document at path within data and renders it.
func adfToMarkdown(data []byte, path string, preserve bool) (*markdown.Result, error) {
	doc, err := adf.Decode(data, path)
	if err != nil {
		return nil, err
	}
	var opts []markdown.Option
	if preserve {
		opts = append(opts, markdown.WithPreserve())
	}
	return markdown.Marshal(doc, opts...)
}

// writeWarnings reports warnings to w in the given format.
func writeWarnings(w io.Writer, warnings *markdown.Warnings, format string) error {
	switch format {
	case config.WarningsNone:
		return nil
	case config.WarningsJSON:
		return json.NewEncoder(w).Encode(warnings)
	case config.WarningsYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(warnings); err != nil {
			return err
		}
		return enc.Close()
	case config.WarningsText:
		for _, kind := range warnings.Kinds() {
			for _, msg := range warnings.Get(kind) {
				if _, err := fmt.Fprintf(w, "warning: %s: %s\n", kind, msg); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown warnings format %q", format)
	}
}

func init() {
	toMDCmd.Flags().StringVar(&mdPath, "path", "", `gjson path of the document inside the input, e.g. "fields.description"`)
	toMDCmd.Flags().StringVarP(&mdOutput, "output", "o", "", "write markdown to this file instead of stdout")
	toMDCmd.Flags().StringVar(&mdWarnings, "warnings", config.WarningsText, "warning report format: text, json, yaml or none")
	toMDCmd.Flags().BoolVar(&mdStrict, "strict", false, "fail when the conversion loses information")
	toMDCmd.Flags().BoolVar(&mdPreserve, "preserve", false, "keep unsupported nodes as <!-- adf:... --> markers")
	rootCmd.AddCommand(toMDCmd)
}
