package config

const (
	defaultDataDir        = "~/.local/share/fieldbook"
	defaultImagesDir      = "~/.local/share/fieldbook/images"
	defaultLogDir         = "~/.local/share/fieldbook/logs"
	defaultReportDir      = "~/fieldbook-reports"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultSheetName      = "Report"
	defaultImageMaxWidth  = 360
	defaultImageMaxHeight = 270
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			ImagesDir: defaultImagesDir,
			LogDir:    defaultLogDir,
			ReportDir: defaultReportDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Report: Report{
			SheetName:      defaultSheetName,
			ImageMaxWidth:  defaultImageMaxWidth,
			ImageMaxHeight: defaultImageMaxHeight,
		},
	}
}
