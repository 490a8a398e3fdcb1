// SPDX-License-Identifier: MPL-2.0

package packver

import "testing"

func BenchmarkParse(b *testing.B) {
	for b.Loop() {
		if _, err := Parse("12.4.1-beta.17+1.20.4_neoforge"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFormat(b *testing.B) {
	d := Descriptor{Major: 12, Minor: 4, Patch: 1, Prerelease: "beta", Revision: 17, GameVersion: "1.20.4", ModLoader: "neoforge"}
	for b.Loop() {
		_ = Format(d)
	}
}

func BenchmarkCompare(b *testing.B) {
	x := MustParse("1.2.0-rc.2+1.21_fabric")
	y := MustParse("1.2.0+1.21_fabric")
	for b.Loop() {
		_ = Compare(x, y)
	}
}
