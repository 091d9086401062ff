// Package ui is the browser facing side of the service. It renders the treemap
// form, turns each submission into a new FormState and draws the resulting grid.
// It also provides a plain-text rendering of the grid for the command line.
package ui
