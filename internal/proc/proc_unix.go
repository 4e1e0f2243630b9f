//go:build unix

package proc

import "syscall"

// signalName returns the name of the terminating signal, if the process was
// signaled.
func signalName(sys interface{}) string {
	if ws, ok := sys.(syscall.WaitStatus); ok && ws.Signaled() {
		return ws.Signal().String()
	}
	return ""
}
