package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.HistoryKey == "" {
		cfg.Storage.HistoryKey = "search-history"
	}
	if cfg.Search.DebounceMS == 0 {
		cfg.Search.DebounceMS = 250
	}
	if cfg.Search.MaxHistoryItems == 0 {
		cfg.Search.MaxHistoryItems = 20
	}
	if cfg.Search.MaxSuggestions == 0 {
		cfg.Search.MaxSuggestions = 8
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	cfg.Scoring.ApplyDefaults()
}
