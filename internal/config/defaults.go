package config

// Default values for configuration options. These are the first layer of
// the override chain and match what the CLI assumes when no config file
// exists.
const (
	defaultLogLevel  = "info"
	defaultLogFormat = "auto"
)

// DefaultConfig returns a Config populated with all default values. It is
// both the starting point for TOML decoding (so unset keys retain
// defaults) and the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		LoggingConfig: LoggingConfig{
			LogLevel:  defaultLogLevel,
			LogFormat: defaultLogFormat,
		},
	}
}
