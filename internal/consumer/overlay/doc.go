// Package overlay renders the recording overlay as a bubbletea program.
//
// The program's event loop is single-threaded, so the model never blocks on
// the status bus: every 50ms tick drains a bounded number of lines with
// TryRecv and applies them in order.
package overlay
