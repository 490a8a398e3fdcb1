// SPDX-License-Identifier: MPL-2.0

// Package modpack implements the maintenance workflows run across a versions
// tree: syncing resources between two pack directories, updating every pack,
// and exporting distributable artifacts.
//
// All workflows keep going after a single pack fails. Failures are collected
// and returned to the caller; only context cancellation stops a workflow
// early.
package modpack
