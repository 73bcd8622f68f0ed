// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// IsWindows reports whether the program runs on Windows, where serial ports
// are always opened exclusively and configuration lives under %APPDATA%.
func IsWindows() bool {
	return runtime.GOOS == Windows
}
