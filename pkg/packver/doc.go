// SPDX-License-Identifier: MPL-2.0

// Package packver parses and formats canonical modpack version strings.
//
// A canonical version string has the form:
//
//	<major>.<minor>.<patch>[-<prerelease>.<revision>]+<game_version>_<mod_loader>
//
// for example "1.2.0-beta.1+1.20.4_fabric" or "2.0.0+1.21.0_forge".
//
// The release part (everything before "+") follows semantic versioning
// precedence; the game version and mod loader behave like build metadata and
// never affect ordering. Descriptors are plain values: once parsed they are
// never mutated, and Format always reproduces the exact input of Parse.
package packver
