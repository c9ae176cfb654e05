package config

const (
	defaultDatapackageDir      = "~/camtrap/datapackage"
	defaultLogDir              = "~/.local/share/camtrap/logs"
	defaultUTCOffset           = "EST"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultDetectionsThreshold = 0.5

	// IncludeLinked keeps only cleanly linked media in the observation table.
	IncludeLinked = "linked"
	// IncludeAll also keeps unmatched and ambiguous media, with an empty
	// deploymentID and a visible link status.
	IncludeAll = "all"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DatapackageDir: defaultDatapackageDir,
			LogDir:         defaultLogDir,
		},
		Registry: Registry{
			DefaultUTCOffset: defaultUTCOffset,
		},
		Observations: Observations{
			Include:           IncludeLinked,
			EmitLabelTemplate: true,
		},
		Merge: Merge{
			MediaIDFallback:     true,
			DetectionsThreshold: defaultDetectionsThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
