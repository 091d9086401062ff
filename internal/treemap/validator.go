package treemap

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxSafeInteger = 1<<53 - 1

const (
	msgTreemapRequired  = "treemapJson is required!"
	msgInvalidJSON      = "json is invalid!"
	msgArrayShape       = "It must be an array which cannot contain more than 50 items!"
	msgNameRequired     = "property name is required!"
	msgNameNotString    = "name must be a string!"
	msgNameTooLong      = "name cannot be more than 50 characters!"
	msgWeightRequired   = "property weight is required!"
	msgWeightNotInteger = "weight must be an integer!"
	msgValueNotNumber   = "value must be a number!"
	msgRowRequired      = "rowNumber is required!"
	msgRowNotInteger    = "rowNumber must be an integer!"
	msgRowNotPositive   = "rowNumber must be a positive integer!"
	msgRowTooLarge      = "row number must be less than or equal to treemap array length!"
)

// Validate checks the raw treemap document and row number input and returns every
// violation found. It never panics and never stops at the first failure.
func Validate(rawJSON, rowNumberInput string) ErrorSet {
	errs, _, _ := check(rawJSON, rowNumberInput)
	return errs
}

// ParseItems decodes a treemap document into items. Any violation of the
// document shape is returned as a joined error; nothing is returned partially.
func ParseItems(rawJSON string) ([]Item, error) {
	errs := newErrorSet()
	items, _ := checkDocument(&errs, rawJSON)
	if len(errs.TreemapJSON) > 0 {
		return nil, errs.Err()
	}
	return items, nil
}

// ParseRowNumber parses the row number field the same way Validate does,
// without the comparison against the document length.
func ParseRowNumber(input string) (int, error) {
	n, violation := parseRowNumber(input)
	if violation != nil {
		return 0, *violation
	}
	return n, nil
}

// check runs both field validations. Items and the row number are only
// meaningful when the returned set is valid.
func check(rawJSON, rowNumberInput string) (ErrorSet, []Item, int) {
	errs := newErrorSet()
	items, arrayLen := checkDocument(&errs, rawJSON)

	rowNumber, violation := parseRowNumber(rowNumberInput)
	switch {
	case violation != nil:
		errs.RowNumber = append(errs.RowNumber, *violation)
	case arrayLen >= 0 && rowNumber > arrayLen:
		errs.addRowNumber(KindRangeViolation, msgRowTooLarge)
	}

	return errs, items, rowNumber
}

// checkDocument validates the document and returns its items together with the
// array length, or -1 when the document did not parse to an array.
func checkDocument(errs *ErrorSet, rawJSON string) ([]Item, int) {
	if rawJSON == "" {
		errs.addTreemap(KindMissingInput, msgTreemapRequired)
		return nil, -1
	}

	doc, ok := decodeDocument(rawJSON)
	if !ok {
		errs.addTreemap(KindMalformedJSON, msgInvalidJSON)
		return nil, -1
	}

	array, isArray := doc.([]any)
	if !isArray {
		errs.addTreemap(KindSchemaViolation, msgArrayShape)
		return nil, -1
	}
	if len(array) > MaxItems {
		errs.addTreemap(KindSchemaViolation, msgArrayShape)
		return nil, len(array)
	}

	items := make([]Item, 0, len(array))
	for _, raw := range array {
		items = append(items, checkItem(errs, raw))
	}
	return items, len(array)
}

func decodeDocument(rawJSON string) (any, bool) {
	dec := json.NewDecoder(strings.NewReader(rawJSON))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, false
	}
	// A document that decodes to a falsy value is reported as invalid json.
	if !truthy(doc) {
		return nil, false
	}
	return doc, true
}

// checkItem records the name and weight violations of a single array element.
// Elements that are not objects behave as objects without properties.
func checkItem(errs *ErrorSet, raw any) Item {
	obj, _ := raw.(map[string]any)
	var item Item

	name := obj["name"]
	if !truthy(name) {
		errs.addTreemap(KindSchemaViolation, msgNameRequired)
	} else if s, ok := name.(string); !ok {
		errs.addTreemap(KindSchemaViolation, msgNameNotString)
	} else if utf8.RuneCountInString(s) > MaxNameLength {
		errs.addTreemap(KindSchemaViolation, msgNameTooLong)
	} else {
		item.Name = s
	}

	// weight 0 is falsy and therefore reported as missing.
	weight := obj["weight"]
	if !truthy(weight) {
		errs.addTreemap(KindSchemaViolation, msgWeightRequired)
	} else if w, ok := integerValue(weight); !ok {
		errs.addTreemap(KindSchemaViolation, msgWeightNotInteger)
	} else {
		item.Weight = w
	}

	if value, present := obj["value"]; present && value != nil {
		if v, ok := numberValue(value); ok {
			item.Value = v
		} else {
			errs.addTreemap(KindSchemaViolation, msgValueNotNumber)
		}
	}

	return item
}

func parseRowNumber(input string) (int, *Violation) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, &Violation{Kind: KindMissingInput, Message: msgRowRequired}
	}

	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &Violation{Kind: KindSchemaViolation, Message: msgRowNotInteger}
	}
	switch {
	case n == 0:
		return 0, &Violation{Kind: KindMissingInput, Message: msgRowRequired}
	case n < 0:
		return 0, &Violation{Kind: KindRangeViolation, Message: msgRowNotPositive}
	}
	return n, nil
}

// truthy applies JSON-level truthiness: null, false, 0, NaN and "" are falsy.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return true
		}
		return f != 0 && !math.IsNaN(f)
	default:
		return true
	}
}

func numberValue(v any) (float64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// integerValue accepts integral numbers such as 3 or 3.0 within the exactly
// representable integer range.
func integerValue(v any) (int, bool) {
	f, ok := numberValue(v)
	if !ok || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, false
	}
	if math.Abs(f) > maxSafeInteger {
		return 0, false
	}
	return int(f), true
}
