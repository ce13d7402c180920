package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "megantax"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/megantax by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/megantax/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/megantax/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// TreePath returns the path of the Newick output file.
func (c *Config) TreePath() string {
	return filepath.Join(c.Taxonomy.OutputDir, c.Taxonomy.TreeFile)
}

// MapPath returns the path of the map output file.
func (c *Config) MapPath() string {
	return filepath.Join(c.Taxonomy.OutputDir, c.Taxonomy.MapFile)
}
