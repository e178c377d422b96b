package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/dt-pm-tools/adfmd/internal/adf"
	"github.com/dt-pm-tools/adfmd/internal/config"
	"github.com/dt-pm-tools/adfmd/internal/markdown"
)

const issueJSON = `{
  "key": "PROJ-1",
  "fields": {
    "summary": "Example",
    "description": {
      "type": "doc",
      "version": 1,
      "content": [
        {"type": "heading", "attrs": {"level": 2}, "content": [{"type": "text", "text": "Plan"}]},
        {"type": "panel", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "note"}]}]}
      ]
    }
  }
}`

func TestReadInput(t *testing.T) {
	data, source, err := readInput(strings.NewReader("piped"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "piped" || source != "stdin" {
		t.Errorf("got %q from %q", data, source)
	}

	if _, _, err := readInput(nil, "-"); !errors.Is(err, errNoInput) {
		t.Errorf("expected errNoInput, got %v", err)
	}

	if _, _, err := readInput(nil, filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestMarkdownToADF_Frontmatter(t *testing.T) {
	content := "---\ntitle: Example\n---\n# Hi"

	doc := markdownToADF(content, "test")
	if len(doc.Content) != 1 || doc.Content[0].Type != adf.TypeHeading {
		t.Fatalf("expected a single heading, got %+v", doc.Content)
	}

	keepFrontmatter = true
	defer func() { keepFrontmatter = false }()
	doc = markdownToADF(content, "test")
	if len(doc.Content) < 2 {
		t.Errorf("expected frontmatter to be converted too, got %+v", doc.Content)
	}
}

func TestMarkdownToADF_MalformedFrontmatter(t *testing.T) {
	doc := markdownToADF("---\ntitle: x\n\nbody", "test")
	if doc.Type != adf.TypeDoc || len(doc.Content) == 0 {
		t.Errorf("expected the content to be converted, got %+v", doc)
	}
}

func TestConvertFiles(t *testing.T) {
	appConfig = config.Default()
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "json")

	var files []string
	for _, name := range []string{"a.md", "b.markdown", "c.md"} {
		path := filepath.Join(in, name)
		if err := os.WriteFile(path, []byte("# "+name), 0644); err != nil {
			t.Fatal(err)
		}
		files = append(files, path)
	}

	if err := convertFiles(context.Background(), files, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"a.json", "b.json", "c.json"} {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("missing output: %v", err)
		}
		doc, err := adf.Decode(data, "")
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if doc.Content[0].Type != adf.TypeHeading {
			t.Errorf("%s: expected heading, got %s", name, doc.Content[0].Type)
		}
	}
}

func TestConvertFiles_MissingInput(t *testing.T) {
	appConfig = config.Default()
	err := convertFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.md")}, t.TempDir())
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestConvertFiles_DuplicateOutput(t *testing.T) {
	appConfig = config.Default()
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "json")

	var files []string
	for _, sub := range []string{"a", "b"} {
		path := filepath.Join(in, sub, "x.md")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("# "+sub), 0644); err != nil {
			t.Fatal(err)
		}
		files = append(files, path)
	}

	err := convertFiles(context.Background(), files, out)
	if err == nil || !strings.Contains(err.Error(), "x.json") {
		t.Fatalf("expected a duplicate output error, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("expected nothing to be written, stat error = %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := map[string]string{
		"notes.md":           "out/notes.json",
		"dir/readme.MD":      "out/readme.json",
		"no-extension":       "out/no-extension.json",
		"archive.tar.md":     "out/archive.tar.json",
		"/abs/path/guide.md": "out/guide.json",
	}
	for in, want := range tests {
		if got := outputPath("out", in, ".json"); got != filepath.FromSlash(want) {
			t.Errorf("outputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestADFToMarkdown(t *testing.T) {
	res, err := adfToMarkdown([]byte(issueJSON), "fields.description", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "## Plan\n\nnote" {
		t.Errorf("text = %q", res.Text)
	}
	want := map[string][]string{"panel": {"Unsupported node type: panel"}}
	if diff := cmp.Diff(want, res.Warnings.Map()); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}

	res, err = adfToMarkdown([]byte(issueJSON), "fields.description", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Warnings.Len() != 0 || !strings.Contains(res.Text, "<!-- adf:") {
		t.Errorf("expected a preserved panel, got %q", res.Text)
	}

	if _, err := adfToMarkdown([]byte(issueJSON), "fields.summary", false); !errors.Is(err, adf.ErrInvalidDocument) {
		t.Errorf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestWriteWarnings(t *testing.T) {
	warnings := markdown.NewWarnings()
	warnings.Record("panel", "Unsupported node type: panel")
	warnings.Record("media", "media attachments are rendered as placeholders")

	tests := []struct {
		format string
		want   string
	}{
		{config.WarningsText, "warning: panel: Unsupported node type: panel\nwarning: media: media attachments are rendered as placeholders\n"},
		{config.WarningsJSON, `{"panel":["Unsupported node type: panel"],"media":["media attachments are rendered as placeholders"]}` + "\n"},
		{config.WarningsNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeWarnings(&buf, warnings, tt.format); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("report mismatch (-want +got):\n%s", diff)
			}
		})
	}

	var buf bytes.Buffer
	if err := writeWarnings(&buf, warnings, config.WarningsYAML); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded map[string][]string
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not YAML: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(warnings.Map(), decoded); diff != "" {
		t.Errorf("yaml report mismatch (-want +got):\n%s", diff)
	}

	if err := writeWarnings(&bytes.Buffer{}, warnings, "xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestPromptConfig(t *testing.T) {
	in := strings.NewReader("json\n\ntrue\n2\n\n")
	var out bytes.Buffer

	got, err := promptConfig(in, &out, config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := config.Default()
	want.Warnings = config.WarningsJSON
	want.Preserve = true
	want.Workers = 2
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "Workers [4]: ") {
		t.Errorf("unexpected prompts %q", out.String())
	}

	if _, err := promptConfig(strings.NewReader("\n\n\nmany\n"), &out, config.Default()); err == nil {
		t.Error("expected an error for a non-numeric worker count")
	}
}

func TestCommands(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "missing.yaml")

	t.Run("to-md", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		rootCmd.SetIn(strings.NewReader(issueJSON))
		rootCmd.SetOut(&stdout)
		rootCmd.SetErr(&stderr)
		rootCmd.SetArgs([]string{"md", "--config", cfg, "--path", "fields.description"})

		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout.String() != "## Plan\n\nnote\n" {
			t.Errorf("stdout = %q", stdout.String())
		}
		if !strings.Contains(stderr.String(), "warning: panel: Unsupported node type: panel") {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("to-adf", func(t *testing.T) {
		var stdout bytes.Buffer
		rootCmd.SetIn(strings.NewReader("- [x] done\n- [ ] todo\n"))
		rootCmd.SetOut(&stdout)
		rootCmd.SetArgs([]string{"adf", "--config", cfg})

		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var doc adf.Document
		if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
		}
		if len(doc.Content) != 1 || doc.Content[0].Type != adf.TypeBulletList {
			t.Fatalf("unexpected document %+v", doc)
		}
		for _, item := range doc.Content[0].Content {
			if item.Type != adf.TypeTaskItem {
				t.Errorf("expected taskItem, got %s", item.Type)
			}
		}
	})

	t.Run("to-adf rejects several files without output dir", func(t *testing.T) {
		rootCmd.SetArgs([]string{"adf", "--config", cfg, "a.md", "b.md"})
		if err := rootCmd.Execute(); err == nil {
			t.Fatal("expected an error")
		}
	})
}
