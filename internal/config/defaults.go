package config

const (
	defaultWorkDir        = "~/.local/share/gamut/work"
	defaultLogDir         = "~/.local/share/gamut/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultPatchCount     = 840
	defaultChartInkLimit  = 260.0
	defaultPageSize       = "A4"
	defaultResolutionDPI  = 300
	defaultPageMarker     = "END_PAGE"
	defaultScanBackend    = "generic"
	defaultScanOutputExt  = "tif"
	defaultProfileInkLmt  = 250.0
	defaultProfileQuality = "m"

	defaultTargenBinary    = "targen"
	defaultPrinttargBinary = "printtarg"
	defaultScaninBinary    = "scanin"
	defaultColprofBinary   = "colprof"
	defaultXiccluBinary    = "xicclu"
	defaultPrintBinary     = "lpr"
	defaultScanBinary      = "scanimage"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Chart: Chart{
			PatchCount:    defaultPatchCount,
			InkLimit:      defaultChartInkLimit,
			PageSize:      defaultPageSize,
			ResolutionDPI: defaultResolutionDPI,
			PageMarker:    defaultPageMarker,
		},
		Scanner: Scanner{
			Backend:   defaultScanBackend,
			OutputExt: defaultScanOutputExt,
		},
		Profile: Profile{
			InkLimit: defaultProfileInkLmt,
			Quality:  defaultProfileQuality,
		},
		Tools: Tools{
			Targen:    defaultTargenBinary,
			Printtarg: defaultPrinttargBinary,
			Scanin:    defaultScaninBinary,
			Colprof:   defaultColprofBinary,
			Xicclu:    defaultXiccluBinary,
			Print:     defaultPrintBinary,
			Scan:      defaultScanBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
