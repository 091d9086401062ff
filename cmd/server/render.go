package main

import (
	"fmt"
	"io"
	"os"

	"github.com/eugenenazirov/treemap-grid/internal/treemap"
	"github.com/eugenenazirov/treemap-grid/internal/ui"
)

// render validates the document read from path (or stdin) and prints the grid.
// It returns the process exit code: 0 on success, 1 for invalid input, 2 for I/O failures.
func render(stdin io.Reader, stdout, stderr io.Writer, path, rows string) int {
	raw, err := readDocument(stdin, path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	errs, grid := treemap.New().Generate(string(raw), rows)
	if !errs.Valid() {
		_ = ui.RenderErrors(stderr, errs)
		return 1
	}

	if err := ui.RenderText(stdout, grid); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	return 0
}

func readDocument(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
