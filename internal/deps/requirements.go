package deps

import "gamut/internal/config"

// Requirements lists every external binary the pipeline stages invoke, in
// stage order.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "Target generator",
			Command:     cfg.Tools.Targen,
			Description: "Generates patch values for the test chart",
		},
		{
			Name:        "Chart layout",
			Command:     cfg.Tools.Printtarg,
			Description: "Lays patches out into printable chart pages",
		},
		{
			Name:        "Print spooler",
			Command:     cfg.Tools.Print,
			Description: "Submits chart pages to the printer queue",
		},
		{
			Name:        "Scan driver",
			Command:     cfg.Tools.Scan,
			Description: "Digitizes printed chart pages",
		},
		{
			Name:        "Chart reader",
			Command:     cfg.Tools.Scanin,
			Description: "Measures patch values from scanned pages",
		},
		{
			Name:        "Profile builder",
			Command:     cfg.Tools.Colprof,
			Description: "Builds ICC profiles from measurement data",
		},
		{
			Name:        "Curve viewer",
			Command:     cfg.Tools.Xicclu,
			Description: "Graphs black generation curves for inspection",
		},
	}
}

// FileChecks lists the configured support files worth verifying alongside
// the binaries.
func FileChecks(cfg *config.Config) []Status {
	return []Status{
		CheckFile("Scanner calibration profile", cfg.Scanner.CalibrationProfile,
			"Scanner ICC profile applied during chart reading", true),
		CheckFile("Scanner settings file", cfg.Scanner.SettingsFile,
			"Vendor driver settings", cfg.Scanner.Backend != "vendor"),
		CheckFile("Gamut link profile", cfg.Profile.LinkProfile,
			"Source profile for perceptual gamut mapping", true),
	}
}
