// Package main hosts the voxtype control-plane CLI.
//
// The Cobra command tree covers status reporting for status bars (one-shot
// and follow mode), remote control of the daemon through `record`, the
// overlay and tray client started by `ui`, and configuration helpers. The
// heavy lifting lives in internal packages; commands here parse flags, print
// remediation text, and map failures to exit codes.
package main
