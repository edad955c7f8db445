package pathing

import (
	"log"
	"os"
	"path/filepath"
)

// Ensure directories exist on startup
func init() {
	// Directories that must exist:
	dirs := []string{
		GetDataDir(),
	}

	// Create all directories
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			err := os.MkdirAll(dir, 0755)
			if err != nil {
				log.Fatal(err)
			}
		}
	}
}

func GetSolarDbPath() string {
	// Join path
	return filepath.Join(GetDataDir(), "solar-readings.db")
}

func GetMetricsDir() string {
	return filepath.Join(GetDataDir(), "metrics")
}

func GetDataDir() string {
	return "/var/lib/solar_notifier"
}

func GetConfigDir() string {
	return "/etc/solar_notifier"
}
