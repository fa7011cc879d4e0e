package config

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ClipPerPage:                 20,
		ClipMaxShowLength:           50,
		SearchPageClipMaxShowLength: 500,
		SearchClipPerBatch:          2,
		LogLevel:                    LevelInfo,
		DarkMode:                    false,
		Language:                    "en-GB",
		AutoDeleteDuplicateClip:     false,
		PauseMonitoring:             false,
	}
}
