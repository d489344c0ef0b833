package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagFormat  = flag.String("format", "", "Output format: json or yaml")
	flagIndent  = flag.Int("indent", -1, "Output indentation (0 = compact JSON)")
	flagStrict  = flag.Bool("strict", false, "Fail on semantic validation errors")
	flagLogJSON = flag.Bool("log-json", false, "Write logs as JSON")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagIndent >= 0 {
		cfg.Output.Indent = *flagIndent
	}
	if *flagStrict {
		cfg.Validation.Strict = true
	}
	if *flagLogJSON {
		cfg.Logging.Format = "json"
	}
}
