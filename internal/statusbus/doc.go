// Package statusbus shares a single `voxtype status --follow` subprocess
// between several in-process consumers.
//
// Each consumer gets its own unbounded Queue so a slow renderer never stalls
// the others. When the follower exits the bus injects a synthetic
// {"class":"stopped"} line, waits, and respawns it; when every queue has been
// closed the bus shuts down.
package statusbus
