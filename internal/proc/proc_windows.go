//go:build windows

package proc

// signalName always returns the empty string: Windows reports termination
// through exit codes only.
func signalName(sys interface{}) string {
	return ""
}
