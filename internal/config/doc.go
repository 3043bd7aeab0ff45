// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/pdfiler-setup/config.cue (or XDG equivalent on
// Linux, ~/Library/Application Support/pdfiler-setup/config.cue on macOS,
// %APPDATA%\pdfiler-setup\config.cue on Windows). The package provides type-safe access
// to the source repository location, the filesystem layout of the installation, the
// Python runtime layout, and UI settings. When no config file exists, defaults reproduce
// the upstream installer's fixed paths.
//
// Loaded files are validated against a CUE schema (config_schema.cue);
// violations are reported with the file and field that caused them.
package config
