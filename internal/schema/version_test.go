package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "equal", a: "1.0.0", b: "1.0.0", want: 0},
		{name: "patch bump", a: "1.0.1", b: "1.0.0", want: 1},
		{name: "minor bump", a: "1.2.0", b: "1.10.0", want: -1},
		{name: "major bump", a: "2.0.0", b: "1.99.0", want: 1},
		{name: "prerelease below release", a: "1.0.0-rc.1", b: "1.0.0", want: -1},
		{name: "non-semver falls back to lexicographic", a: "alpha", b: "beta", want: -1},
		{name: "non-semver equal", a: "draft", b: "draft", want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CompareVersions(tc.a, tc.b))
			assert.Equal(t, -tc.want, CompareVersions(tc.b, tc.a))
		})
	}
}

func TestIsSemver(t *testing.T) {
	assert.True(t, IsSemver("1.0.0"))
	assert.True(t, IsSemver("0.2.1-beta.3"))
	assert.False(t, IsSemver("draft"))
	assert.False(t, IsSemver(""))
}
