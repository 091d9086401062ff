package treemap

import (
	"strconv"
)

const (
	// MaxItems is the largest number of items a treemap document may contain.
	MaxItems = 50
	// MaxNameLength is the longest item name accepted, in characters.
	MaxNameLength = 50
	// MaxRowWeight is the total weight budget of a single row.
	MaxRowWeight = 6
	// GridColumns is the width of the rendering grid. Each weight unit spans two columns.
	GridColumns = 12
)

// Item is a single entry of a treemap document.
type Item struct {
	Name   string  `json:"name"`
	Weight int     `json:"weight"`
	Value  float64 `json:"value"`
}

// PlacedItem is an Item after packing: it knows its row and display percentage.
type PlacedItem struct {
	Name     string  `json:"name"`
	Weight   int     `json:"weight"`
	Percent  string  `json:"value"`
	RawValue float64 `json:"rawValue"`
	Row      int     `json:"row"`
}

// Positive reports whether the displayed percentage is above zero.
func (p PlacedItem) Positive() bool {
	v, err := strconv.ParseFloat(p.Percent, 64)
	return err == nil && v > 0
}

// Span returns the number of grid columns the item occupies.
func (p PlacedItem) Span() int {
	span := p.Weight * 2
	if span < 1 {
		return 1
	}
	if span > GridColumns {
		return GridColumns
	}
	return span
}

// Row groups the placed items sharing a row index.
type Row struct {
	Index int          `json:"row"`
	Items []PlacedItem `json:"items"`
}

// Weight returns the summed weight of the row.
func (r Row) Weight() int {
	total := 0
	for _, item := range r.Items {
		total += item.Weight
	}
	return total
}

// FormatPercent renders a ratio as a percentage with exactly two decimals (0.1234 -> "12.34").
func FormatPercent(value float64) string {
	out := strconv.FormatFloat(value*100, 'f', 2, 64)
	if out == "-0.00" {
		return "0.00"
	}
	return out
}

// Generator describes the behaviour required by the form and API layers.
type Generator interface {
	Validate(rawJSON, rowNumberInput string) ErrorSet
	Generate(rawJSON, rowNumberInput string) (ErrorSet, []Row)
}
