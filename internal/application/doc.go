// Package application provides application initialization and dependency wiring.
// It creates the treemap generator, the JSON API, the form page and the HTTP
// server, keeping the main package focused on CLI parsing and orchestration.
package application
