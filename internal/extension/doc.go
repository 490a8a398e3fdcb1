// SPDX-License-Identifier: MPL-2.0

// Package extension builds extended modpack variants.
//
// An extension is an extensions.toml file listing extra mods per loader and
// game version, optionally next to a versions/ directory whose files are
// overlaid onto the base packs. Several extensions can be merged into one
// build; later extensions override earlier ones.
package extension
