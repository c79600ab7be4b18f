package util

import "os"

// IsTTY returns true if stdout is a terminal. Piped or redirected output
// disables the interactive browser and colored output.
func IsTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
