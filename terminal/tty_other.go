//go:build !linux

package terminal

// restoreCooked is a no-op off linux; EmergencyReset's escape sequences are all that run
func restoreCooked() {}
