// Package follow implements the status reader behind `voxtype status`.
//
// In follow mode it watches the state file's directory (plus the state and
// level files when present) and additionally wakes on an adaptive timeout:
// 50ms while recording so level updates flow, 500ms otherwise so a crashed
// daemon is noticed even when no file changes. Records are emitted only when
// the reported state or level changes.
package follow
