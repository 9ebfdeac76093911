// Package config provides table configuration management for the solitaire
// server.
//
// The config package handles:
//   - Loading table configurations from JSON and YAML files
//   - Configuration validation through engine.ValidateGameConfig
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Each file in the configs directory defines one table. The config id is the
// file name without its .json, .yaml or .yml extension. A table sets:
//   - rows: number of tableau columns (1 to 7)
//   - suits: number of suits in the deck and foundation piles (1 to 4)
//   - seed: optional fixed shuffle seed
//   - messages: welcome and victory texts, plus optional illegal and
//     recycle texts
//
// Usage:
//
//	manager, err := config.NewManager("configs", logger)
//	if err != nil {
//		logger.Fatal("setup failed", zap.Error(err))
//	}
//
//	// Load specific configuration
//	table, err := manager.LoadConfig("easy")
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
//
// When no classic config exists, the first valid file becomes the default;
// an empty directory falls back to engine.DefaultConfig.
package config
