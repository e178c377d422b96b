package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// errNoInput is returned when input would be read from an interactive
// terminal.
var errNoInput = errors.New("no input: pass a file or pipe data to stdin")

// readInput returns the contents of path, or of stdin when path is empty or
// "-", together with a name for log messages.
func readInput(stdin io.Reader, path string) ([]byte, string, error) {
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, path, fmt.Errorf("reading file: %w", err)
		}
		return data, path, nil
	}

	if stdin == nil {
		return nil, "stdin", errNoInput
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, "stdin", errNoInput
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, "stdin", fmt.Errorf("reading stdin: %w", err)
	}
	return data, "stdin", nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	logger.WithField("output", path).Info("written")
	return nil
}

// encodeJSON renders v as indented JSON followed by a newline.
func encodeJSON(v any, indent string) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
