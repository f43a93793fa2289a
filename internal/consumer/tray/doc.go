// Package tray models the system tray icon: daemon state, icon name,
// tooltip and menu. Drawing is delegated to a Host.
//
// Status lines cross from the bus into the tray through one forwarding
// goroutine, which is the only place that blocks on the bus queue.
package tray
