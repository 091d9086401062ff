package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/eugenenazirov/treemap-grid/internal/treemap"
)

// cellUnit is the number of characters drawn per weight unit.
const cellUnit = 8

// RenderText writes rows as a plain-text grid, one line per row. Each cell is
// as wide as its weight; a trailing '+' or '-' mirrors the green and red colors.
func RenderText(w io.Writer, rows []treemap.Row) error {
	for _, row := range rows {
		var line strings.Builder
		fmt.Fprintf(&line, "row %d |", row.Index)
		if len(row.Items) == 0 {
			line.WriteString(" (empty)")
		}
		for _, item := range row.Items {
			line.WriteString(" ")
			line.WriteString(textCell(item))
			line.WriteString(" |")
		}
		line.WriteString("\n")

		if _, err := io.WriteString(w, line.String()); err != nil {
			return fmt.Errorf("write row %d: %w", row.Index, err)
		}
	}
	return nil
}

// RenderErrors writes the violations of every invalid field as a bulleted list.
func RenderErrors(w io.Writer, errs treemap.ErrorSet) error {
	for _, field := range []string{treemap.FieldTreemapJSON, treemap.FieldRowNumber} {
		messages := errs.Messages(field)
		if len(messages) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s:\n", field); err != nil {
			return err
		}
		for _, msg := range messages {
			if _, err := fmt.Fprintf(w, "  - %s\n", msg); err != nil {
				return err
			}
		}
	}
	return nil
}

func textCell(item treemap.PlacedItem) string {
	sign := "-"
	if item.Positive() {
		sign = "+"
	}
	label := fmt.Sprintf("%s %s%% %s", item.Name, item.Percent, sign)

	width := item.Span() / 2 * cellUnit
	if width < cellUnit {
		width = cellUnit
	}
	if len([]rune(label)) > width {
		runes := []rune(label)
		label = string(runes[:width-1]) + "…"
	}
	return label + strings.Repeat(" ", width-len([]rune(label)))
}
