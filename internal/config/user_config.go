package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig manages the per-user data directory.
type UserConfig struct {
	BaseDir     string // $HOME/.gptoss-agent
	HistoryFile string // $HOME/.gptoss-agent/history.txt
	LogsDir     string // $HOME/.gptoss-agent/logs
}

// DefaultUserConfig creates the default user configuration, ensuring the
// directories exist.
func DefaultUserConfig() (*UserConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	baseDir := filepath.Join(homeDir, ".gptoss-agent")
	cfg := &UserConfig{
		BaseDir:     baseDir,
		HistoryFile: filepath.Join(baseDir, "history.txt"),
		LogsDir:     filepath.Join(baseDir, "logs"),
	}

	for _, dir := range []string{cfg.BaseDir, cfg.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return cfg, nil
}
