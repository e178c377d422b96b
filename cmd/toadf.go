package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dt-pm-tools/adfmd/internal/adf"
	"github.com/dt-pm-tools/adfmd/internal/markdown"
)

var (
	adfOutputDir    string
	keepFrontmatter bool
)

var toADFCmd = &cobra.Command{
	Use:     "to-adf [file...]",
	Aliases: []string{"adf"},
	Short:   "Convert markdown to an ADF document",
	Long: `Reads markdown from a file or stdin and prints the equivalent ADF document
as JSON, ready to be used as a Jira description or comment body.

A leading YAML frontmatter block is dropped unless --keep-frontmatter is set.
Conversion never fails: markdown that cannot be mapped is kept as plain text.

With --output-dir, every file is converted concurrently and written to
<dir>/<name>.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		if adfOutputDir != "" {
			if len(args) == 0 {
				return fmt.Errorf("--output-dir needs at least one input file")
			}
			return convertFiles(cmd.Context(), args, adfOutputDir)
		}
		if len(args) > 1 {
			return fmt.Errorf("converting %d files needs --output-dir", len(args))
		}

		var path string
		if len(args) == 1 {
			path = args[0]
		}
		content, source, err := readInput(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}

		data, err := encodeJSON(markdownToADF(string(content), source), appConfig.Indent)
		if err != nil {
			return fmt.Errorf("encoding ADF: %w", err)
		}
		return writeOutput(cmd.OutOrStdout(), "", data)
	},
}

// markdownToADF converts one markdown input. Failures are logged and the
// input is kept as a plain-text document.
func markdownToADF(content, source string) *adf.Document {
	entry := logger.WithField("source", source)

	body := content
	if !keepFrontmatter {
		meta, rest, err := markdown.SplitFrontmatter(content)
		if err != nil {
			entry.WithError(err).Warn("keeping malformed frontmatter as markdown")
		} else {
			body = rest
			if len(meta) > 0 {
				entry.WithField("keys", len(meta)).Debug("dropped frontmatter")
			}
		}
	}

	doc, err := markdown.Unmarshal(body)
	if err != nil {
		entry.WithError(err).Warn("converting as plain text")
		return markdown.PlainDocument(body)
	}
	entry.WithField("nodes", len(doc.Content)).Debug("converted markdown")
	return doc
}

// convertFiles converts files concurrently into dir, at most
// appConfig.Workers at a time. The first error stops files not yet started.
func convertFiles(ctx context.Context, files []string, dir string) error {
	seen := make(map[string]string, len(files))
	for _, file := range files {
		out := outputPath(dir, file, ".json")
		if prev, ok := seen[out]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, file, out)
		}
		seen[out] = file
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(appConfig.Workers)
	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, source, err := readInput(nil, file)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			data, err := encodeJSON(markdownToADF(string(content), source), appConfig.Indent)
			if err != nil {
				return fmt.Errorf("%s: encoding ADF: %w", file, err)
			}
			return writeOutput(nil, outputPath(dir, file, ".json"), data)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{"files": len(files), "dir": dir}).Info("converted")
	return nil
}

// outputPath maps an input file to <dir>/<name><ext>.
func outputPath(dir, file, ext string) string {
	base := filepath.Base(file)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+ext)
}

func init() {
	toADFCmd.Flags().StringVar(&adfOutputDir, "output-dir", "", "write each input to <dir>/<name>.json instead of stdout")
	toADFCmd.Flags().BoolVar(&keepFrontmatter, "keep-frontmatter", false, "convert a leading YAML frontmatter block as markdown")
	rootCmd.AddCommand(toADFCmd)
}
