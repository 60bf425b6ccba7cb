//go:build !linux && !darwin

package log

// isTerminal is conservative on platforms without termios support.
func isTerminal(fd uintptr) bool {
	return false
}
