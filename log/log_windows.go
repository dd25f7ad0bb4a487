//go:build windows

package log

import (
	"os"
	"path/filepath"
)

// %LOCALAPPDATA%\splitkeys\logs
func getDefaultDir() (string, error) {
	local, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(local, "splitkeys", "logs"), nil
}
