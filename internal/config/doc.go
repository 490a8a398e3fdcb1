// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/optipack/config.cue on Linux
// (~/Library/Application Support/optipack/config.cue on macOS,
// %APPDATA%\optipack\config.cue on Windows), falling back to ./config.cue.
// Every key can be overridden with an OPTIPACK_* environment variable, for
// example OPTIPACK_PACKWIZ_BINARY or OPTIPACK_CONCURRENCY.
//
// Configuration files are validated against an embedded CUE schema
// (config_schema.cue) before they are merged over the defaults.
package config
