// Package ui runs the desktop-side client: one status bus feeding the
// terminal overlay and the tray, a single-instance lock, and an optional
// Prometheus endpoint for bus metrics.
package ui
