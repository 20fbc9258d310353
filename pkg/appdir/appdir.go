// Package appdir locates the per-user directory where randkit tools keep
// their state (log databases, benchmark output).
package appdir

import (
	"log"
	"os"
	"path/filepath"
)

var appDirCache string

// AppDir returns ~/.randkit, creating the cache on first use.
func AppDir() string {
	if appDirCache == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("appdir: %v", err)
		}
		appDirCache = filepath.Join(home, ".randkit")
	}
	return appDirCache
}

// Path returns the given file name joined onto the app directory.
func Path(name string) string {
	return filepath.Join(AppDir(), name)
}

func ensureDirectory() {
	dir := AppDir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		os.Mkdir(dir, 0755)
	}
}

func init() {
	ensureDirectory()
}
