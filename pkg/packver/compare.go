// SPDX-License-Identifier: MPL-2.0

package packver

import (
	"strconv"

	"golang.org/x/mod/semver"
)

// Semver returns the release part of d in the "vMAJOR.MINOR.PATCH[-pre.rev]"
// form understood by golang.org/x/mod/semver.
func (d Descriptor) Semver() string {
	v := "v" + strconv.Itoa(d.Major) + "." + strconv.Itoa(d.Minor) + "." + strconv.Itoa(d.Patch)
	if d.HasPrerelease() {
		v += "-" + d.Prerelease + "." + strconv.Itoa(d.Revision)
	}
	return v
}

// Compare returns -1, 0 or +1 according to the semantic version precedence of
// the release parts of a and b. A prerelease sorts before its release, and
// revisions of the same prerelease compare numerically. Game version and mod
// loader never influence the result.
func Compare(a, b Descriptor) int {
	return semver.Compare(a.Semver(), b.Semver())
}

// SameTarget reports whether a and b were built for the same game version
// and mod loader.
func SameTarget(a, b Descriptor) bool {
	return a.GameVersion == b.GameVersion && a.ModLoader == b.ModLoader
}
