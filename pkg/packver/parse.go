// SPDX-License-Identifier: MPL-2.0

package packver

import (
	"strconv"
	"strings"
)

// Parse converts a canonical version string into a Descriptor.
//
// It returns a *FormatError when text does not match the grammar: missing
// separators, non-numeric or zero-padded major/minor/patch, a prerelease
// without a revision (or the reverse), and a missing game version or mod
// loader after "+".
func Parse(text string) (Descriptor, error) {
	fail := func(reason string) (Descriptor, error) {
		return Descriptor{}, &FormatError{Input: text, Reason: reason}
	}

	release, build, ok := strings.Cut(text, "+")
	if !ok {
		return fail(`missing "+" before <game_version>_<mod_loader>`)
	}
	if strings.Contains(build, "+") {
		return fail(`unexpected second "+"`)
	}

	gameVersion, loader, ok := strings.Cut(build, "_")
	switch {
	case !ok:
		return fail(`missing "_" between game version and mod loader`)
	case gameVersion == "":
		return fail("missing game version")
	case loader == "":
		return fail("missing mod loader")
	case !gameVersionPattern.MatchString(gameVersion):
		return fail("game version " + strconv.Quote(gameVersion) + " contains invalid characters")
	case !identifierPattern.MatchString(loader):
		return fail("mod loader " + strconv.Quote(loader) + " must be lowercase alphanumerics separated by hyphens")
	}

	core, pre, hasPre := strings.Cut(release, "-")
	fields := strings.Split(core, ".")
	if len(fields) != 3 {
		return fail("expected <major>.<minor>.<patch>")
	}

	var nums [3]int
	for i, name := range [3]string{"major", "minor", "patch"} {
		n, reason := parseNumber(fields[i])
		if reason != "" {
			return fail(name + " " + reason)
		}
		nums[i] = n
	}

	d := Descriptor{
		Major:       nums[0],
		Minor:       nums[1],
		Patch:       nums[2],
		GameVersion: gameVersion,
		ModLoader:   loader,
	}

	if hasPre {
		tag, rev, ok := strings.Cut(pre, ".")
		switch {
		case tag == "":
			return fail("empty prerelease")
		case !ok || rev == "":
			return fail("prerelease " + strconv.Quote(tag) + " is missing its revision")
		case !prereleasePattern.MatchString(tag):
			return fail("prerelease " + strconv.Quote(tag) + " must start with a letter and contain only lowercase alphanumerics and hyphens")
		}
		n, reason := parseNumber(rev)
		if reason != "" {
			return fail("revision " + reason)
		}
		if n == 0 {
			return fail("revision must be positive")
		}
		d.Prerelease = tag
		d.Revision = n
	}

	return d, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Descriptor {
	d, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return d
}

// parseNumber parses a canonical non-negative decimal. It returns a
// non-empty reason instead of an error so callers can prefix the field name.
func parseNumber(s string) (int, string) {
	if s == "" {
		return 0, "is empty"
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, strconv.Quote(s) + " is not a non-negative integer"
		}
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, strconv.Quote(s) + " has a leading zero"
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, strconv.Quote(s) + " is out of range"
	}
	return n, ""
}
