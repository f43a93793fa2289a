// Package notifications raises desktop notifications for daemon status
// transitions observed by the ui client.
//
// The default implementation goes through beeep (D-Bus on Linux) and
// degrades to a no-op when [ui] notifications is disabled. Callers depend
// only on the Service interface.
package notifications
