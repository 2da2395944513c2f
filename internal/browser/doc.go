// Package browser drives headless Chrome through go-rod. A Page is a live
// document that implements mdview.ScrollTarget, so a Navigator can scroll
// a real viewport; Pool shares a bounded number of browsers between
// workers.
package browser
