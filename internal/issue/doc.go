// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors for the optipack CLI.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Issue holds longer Markdown guidance for well-known
// failure classes and renders it through glamour.
package issue
