package config

import "strings"

func (c *Config) normalize() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}
	if c.Scanner.SettingsFile != "" {
		if c.Scanner.SettingsFile, err = expandPath(strings.TrimSpace(c.Scanner.SettingsFile)); err != nil {
			return err
		}
	}
	if c.Scanner.CalibrationProfile != "" {
		if c.Scanner.CalibrationProfile, err = expandPath(strings.TrimSpace(c.Scanner.CalibrationProfile)); err != nil {
			return err
		}
	}
	if c.Profile.LinkProfile != "" {
		if c.Profile.LinkProfile, err = expandPath(strings.TrimSpace(c.Profile.LinkProfile)); err != nil {
			return err
		}
	}

	c.Printer.Queue = strings.TrimSpace(c.Printer.Queue)
	c.Printer.Manufacturer = strings.TrimSpace(c.Printer.Manufacturer)
	c.Printer.Model = strings.TrimSpace(c.Printer.Model)
	c.Printer.Description = strings.TrimSpace(c.Printer.Description)

	c.Scanner.Backend = strings.ToLower(strings.TrimSpace(c.Scanner.Backend))
	if c.Scanner.Backend == "" {
		c.Scanner.Backend = defaultScanBackend
	}
	c.Scanner.Device = strings.TrimSpace(c.Scanner.Device)
	c.Scanner.OutputExt = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Scanner.OutputExt)), ".")
	if c.Scanner.OutputExt == "" {
		c.Scanner.OutputExt = defaultScanOutputExt
	}

	c.Chart.PageMarker = strings.TrimSpace(c.Chart.PageMarker)
	if c.Chart.PageMarker == "" {
		c.Chart.PageMarker = defaultPageMarker
	}
	c.Chart.PageSize = strings.TrimSpace(c.Chart.PageSize)
	if c.Chart.PageSize == "" {
		c.Chart.PageSize = defaultPageSize
	}

	c.Profile.Quality = strings.ToLower(strings.TrimSpace(c.Profile.Quality))
	if c.Profile.Quality == "" {
		c.Profile.Quality = defaultProfileQuality
	}

	normalizeTool := func(value *string, fallback string) {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			*value = fallback
		}
	}
	normalizeTool(&c.Tools.Targen, defaultTargenBinary)
	normalizeTool(&c.Tools.Printtarg, defaultPrinttargBinary)
	normalizeTool(&c.Tools.Scanin, defaultScaninBinary)
	normalizeTool(&c.Tools.Colprof, defaultColprofBinary)
	normalizeTool(&c.Tools.Xicclu, defaultXiccluBinary)
	normalizeTool(&c.Tools.Print, defaultPrintBinary)
	normalizeTool(&c.Tools.Scan, defaultScanBinary)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
