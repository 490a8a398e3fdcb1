// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates documents against embedded CUE schemas.
//
// Two entry points cover the formats optipack reads:
//
//   - ParseAndDecode compiles CUE source (the user config file), unifies it
//     with a schema definition and decodes the result.
//   - ValidateAndDecode encodes an already-decoded Go value (for example a
//     TOML manifest decoded into map[string]any) into CUE, unifies it with a
//     schema definition and decodes the result into a typed struct.
//
// Both return errors whose messages carry JSON-path style locations such as
// "mod[2].fabric".
package cueutil
