// Package control implements `voxtype record`: it confirms the daemon is
// alive through its PID lock, writes one-shot mailbox files, and delivers
// SIGUSR1 (start) or SIGUSR2 (stop).
//
// Toggle reads the persisted state and then signals. The state can change
// between the read and the delivery; the worst case is one missed toggle.
package control
