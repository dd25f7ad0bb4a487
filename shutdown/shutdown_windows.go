//go:build windows

package shutdown

import "os"

// Console close and logoff arrive as os.Interrupt on Windows.
var signals = []os.Signal{os.Interrupt}
