// Package config loads, normalizes, and validates the voxtype settings used
// by the status, record and ui commands.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// resolves the runtime directory from XDG_RUNTIME_DIR, and turns the
// `state_file = "auto"` shorthand into a concrete path. Icon themes and
// profile lookups live here so every client renders and validates the same
// way.
package config
