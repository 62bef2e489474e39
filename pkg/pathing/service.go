package pathing

import (
	"os"
	"path/filepath"
)

// EnsureDirs creates the directories the services write to.
// Call it on startup, before loading config or opening the database.
func EnsureDirs() error {
	// Directories that must exist:
	dirs := []string{
		GetConfigDir(),
		GetDataDir(),
	}

	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

func GetRangeDbPath() string {
	return filepath.Join(GetDataDir(), "sf11-range.db")
}

func GetDataDir() string {
	return "/var/lib/sf11_rangefinder"
}

func GetConfigDir() string {
	return "/etc/sf11_rangefinder"
}
