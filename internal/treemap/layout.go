package treemap

import (
	"cmp"
	"slices"
)

type rowPacker struct {
	capacity int
}

// New creates a Generator that packs rows against MaxRowWeight.
func New() Generator {
	return &rowPacker{capacity: MaxRowWeight}
}

func (p *rowPacker) Validate(rawJSON, rowNumberInput string) ErrorSet {
	return Validate(rawJSON, rowNumberInput)
}

// Generate validates the input and, only when it is valid, lays it out.
func (p *rowPacker) Generate(rawJSON, rowNumberInput string) (ErrorSet, []Row) {
	errs, items, rowNumber := check(rawJSON, rowNumberInput)
	if !errs.Valid() {
		return errs, nil
	}
	return errs, layout(items, rowNumber, p.capacity)
}

// Layout sorts items by descending weight, packs them greedily into rows of
// MaxRowWeight and returns rows 0..rowNumber-1. Rows that packing did not
// produce are returned empty; rows past rowNumber are dropped. Empty input
// or a non-positive rowNumber yields no rows.
func Layout(items []Item, rowNumber int) []Row {
	return layout(items, rowNumber, MaxRowWeight)
}

func layout(items []Item, rowNumber, capacity int) []Row {
	if len(items) == 0 || rowNumber <= 0 {
		return nil
	}

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return cmp.Compare(b.Weight, a.Weight)
	})

	rows := make([]Row, rowNumber)
	for i := range rows {
		rows[i] = Row{Index: i, Items: []PlacedItem{}}
	}
	for _, placed := range pack(sorted, capacity) {
		if placed.Row >= rowNumber {
			continue
		}
		rows[placed.Row].Items = append(rows[placed.Row].Items, placed)
	}
	return rows
}

// pack assigns a row to every item of an already sorted slice. An item joins
// the current row only when it fits the remaining capacity.
func pack(sorted []Item, capacity int) []PlacedItem {
	placed := make([]PlacedItem, 0, len(sorted))
	row, remaining := 0, 0

	for i, item := range sorted {
		switch {
		case i == 0:
			remaining = capacity - item.Weight
		case remaining > 0 && remaining >= item.Weight:
			remaining -= item.Weight
		default:
			row++
			remaining = capacity - item.Weight
		}

		placed = append(placed, PlacedItem{
			Name:     item.Name,
			Weight:   item.Weight,
			Percent:  FormatPercent(item.Value),
			RawValue: item.Value,
			Row:      row,
		})
	}
	return placed
}
