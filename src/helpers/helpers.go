// Package helpers contains a few helper functions which are used throughout
// the project.
package helpers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// calliopeDir is the name of the calliope directory in the user's home
// directory.
const calliopeDir = ".calliope"

// ProjectUserPath returns the directory in which the user files of the
// service (configuration, logs, the database) live. The directory is
// created if it does not exist yet.
func ProjectUserPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding the user home directory: %w", err)
	}

	path := filepath.Join(home, calliopeDir)
	if err := os.MkdirAll(path, 0750); err != nil {
		return "", fmt.Errorf("creating the user path %s: %w", path, err)
	}

	return path, nil
}

// SetLogsFile sets the logfile of the server.
func SetLogsFile(logFilePath string) error {
	logFile, err := os.OpenFile(
		logFilePath,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
	if err != nil {
		return fmt.Errorf("could not open logfile %s: %w", logFilePath, err)
	}

	log.SetOutput(logFile)
	return nil
}

// AbsolutePath returns the absolute path for `path`. Relative paths are
// resolved against `workDir` instead of the process working directory.
func AbsolutePath(path, workDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}
