package model

import (
	"os"
	"path/filepath"
)

// HomeDir is the per-user ecosnap directory (~/.ecosnap).
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ecosnap"
	}
	return filepath.Join(home, ".ecosnap")
}

func defaultCacheDir() string {
	return filepath.Join(HomeDir(), "cache")
}
