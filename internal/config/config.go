package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
}

// Printer describes the print queue and the identity strings embedded in the
// finished profile.
type Printer struct {
	Queue        string   `toml:"queue"`
	Options      []string `toml:"options"`
	Manufacturer string   `toml:"manufacturer"`
	Model        string   `toml:"model"`
	Description  string   `toml:"description"`
}

// Chart contains configuration for test chart generation and layout.
type Chart struct {
	PatchCount    int     `toml:"patch_count"`
	InkLimit      float64 `toml:"ink_limit"`
	PageSize      string  `toml:"page_size"`
	ResolutionDPI int     `toml:"resolution_dpi"`
	PageMarker    string  `toml:"page_marker"`
}

// Scanner contains configuration for the scan stage. Backend selects between
// the generic multi-scan driver and a vendor-specific driver; both feed the
// same rename-and-verify path afterwards.
type Scanner struct {
	Backend            string `toml:"backend"`
	Device             string `toml:"device"`
	SettingsFile       string `toml:"settings_file"`
	CalibrationProfile string `toml:"calibration_profile"`
	OutputExt          string `toml:"output_ext"`
}

// Profile contains configuration for profile construction.
type Profile struct {
	InkLimit       float64 `toml:"ink_limit"`
	BlackInkLimit  float64 `toml:"black_ink_limit"`
	NoiseTolerance float64 `toml:"noise_tolerance"`
	LinkProfile    string  `toml:"link_profile"`
	Quality        string  `toml:"quality"`
}

// Tools maps each external collaborator to its executable name. Overridable
// so tests can substitute stub binaries and installs can use absolute paths.
type Tools struct {
	Targen    string `toml:"targen"`
	Printtarg string `toml:"printtarg"`
	Scanin    string `toml:"scanin"`
	Colprof   string `toml:"colprof"`
	Xicclu    string `toml:"xicclu"`
	Print     string `toml:"print"`
	Scan      string `toml:"scan"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for a profiling project.
//
// Configuration sections by subsystem:
//   - Paths: working and log directories
//   - Printer: spooler queue and profile identity strings
//   - Chart: patch generation and page layout settings
//   - Scanner: scan backend selection and driver settings
//   - Profile: ink limits, link profile, and quality for colprof
//   - Tools: external executable names
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Printer Printer `toml:"printer"`
	Chart   Chart   `toml:"chart"`
	Scanner Scanner `toml:"scanner"`
	Profile Profile `toml:"profile"`
	Tools   Tools   `toml:"tools"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/gamut/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("gamut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a profiling run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SessionDir returns the directory holding all artifacts for one session.
func (c *Config) SessionDir(session string) string {
	return filepath.Join(c.Paths.WorkDir, session)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
