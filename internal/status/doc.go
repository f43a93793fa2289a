// Package status defines the daemon state vocabulary and the status record
// consumed by status bars, the overlay and the tray.
//
// The record is a single-line JSON object whose four base fields (text, alt,
// class, tooltip) are always present. Level is attached only while
// recording, and model/device/backend appear as a group when extended output
// is requested. Formatting never fails: if encoding breaks, a minimal
// literal with the same four fields is emitted instead.
package status
