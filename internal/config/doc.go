// Package config provides configuration management for crate.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Conversion to scanner and executor options for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Template "{artist} - {title}"
//	// Four move workers
//	// Fifteen-minute undo window
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Malformed file; a missing file just yields defaults
//	}
//
// # Saving Settings
//
//	settings.DefaultTemplate = "{artist} - {title} {key_bpm}"
//	err := settings.Save(config.DefaultPath())
//
// # Configuration Options
//
// Settings includes options for:
//   - The default filename template
//   - Worker pool size and recursion
//   - Audio extensions and include patterns considered for renaming
//   - Maximum filename stem length
//   - Undo session time-to-live
//   - Logging level
package config
