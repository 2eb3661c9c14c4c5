package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateChart(); err != nil {
		return err
	}
	if err := c.validateScanner(); err != nil {
		return err
	}
	if err := c.validateProfile(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateChart() error {
	if c.Chart.PatchCount <= 0 {
		return errors.New("chart.patch_count must be positive")
	}
	if c.Chart.InkLimit <= 0 || c.Chart.InkLimit > 400 {
		return fmt.Errorf("chart.ink_limit must be in (0, 400], got %v", c.Chart.InkLimit)
	}
	if c.Chart.ResolutionDPI <= 0 {
		return errors.New("chart.resolution_dpi must be positive")
	}
	return nil
}

func (c *Config) validateScanner() error {
	switch c.Scanner.Backend {
	case "generic", "vendor":
	default:
		return fmt.Errorf("scanner.backend must be %q or %q, got %q", "generic", "vendor", c.Scanner.Backend)
	}
	if c.Scanner.Backend == "vendor" && c.Scanner.SettingsFile == "" {
		return errors.New("scanner.settings_file is required for the vendor backend")
	}
	return nil
}

func (c *Config) validateProfile() error {
	if c.Profile.InkLimit <= 0 || c.Profile.InkLimit > 400 {
		return fmt.Errorf("profile.ink_limit must be in (0, 400], got %v", c.Profile.InkLimit)
	}
	if c.Profile.BlackInkLimit < 0 || c.Profile.BlackInkLimit > 100 {
		return fmt.Errorf("profile.black_ink_limit must be in [0, 100], got %v", c.Profile.BlackInkLimit)
	}
	if c.Profile.NoiseTolerance < 0 {
		return errors.New("profile.noise_tolerance must not be negative")
	}
	switch c.Profile.Quality {
	case "l", "m", "h", "u":
	default:
		return fmt.Errorf("profile.quality must be one of l, m, h, u, got %q", c.Profile.Quality)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
