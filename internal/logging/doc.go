// Package logging assembles structured slog loggers for the voxtype CLI and
// ui clients.
//
// It owns the console and JSON handlers, maps configured level names, and
// provides a no-op logger for tests and wiring code that cannot fail. Logs
// always go to stderr (or files), never stdout: status followers use stdout
// as their data channel.
package logging
