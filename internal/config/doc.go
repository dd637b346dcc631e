// Package config handles configuration loading for the aloka client.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion, on top of Default(). Without a file, Default() alone is a
// runnable configuration.
//
// # Configuration File
//
// Locations (in order):
//
//  1. Path from ALOKA_CONFIG environment variable
//  2. ~/.config/aloka/config.yaml (or $XDG_CONFIG_HOME/aloka/config.yaml)
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	analysis:
//	  api_key: "${GEMINI_API_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Storage:
//
//	storage:
//	  path: "/home/me/.local/share/aloka/aloka.db"  # default: data dir
//	  key: "aloka_nexus_stable_v11"
//	  quota_bytes: 5242880                          # 0: unlimited
//
// Timing of the simulated checks, in time.ParseDuration syntax:
//
//	timing:
//	  audit_delay: "2s"
//	  sync_delay: "2s"
//
// Analysis:
//
//	analysis:
//	  model: "gemini-3-flash-preview"
//	  api_key: "${GEMINI_API_KEY}"
//	  translate_language: "Malagasy"
//
// Platform catalog override (TOML):
//
//	catalog:
//	  path: "/home/me/.config/aloka/platforms.toml"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Environment Overrides
//
// ApplyEnv reads ALOKA_API_KEY, GEMINI_API_KEY, ALOKA_STORAGE_PATH,
// ALOKA_CATALOG and ALOKA_LOG_LEVEL and overlays them on the file values.
package config
