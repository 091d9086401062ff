// Package treemap validates user supplied treemap documents and packs their
// items into rows of a fixed weight budget. Both operations are pure: they hold
// no state between calls and are safe to use from concurrent requests.
package treemap
