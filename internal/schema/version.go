package schema

import (
	"strings"

	"golang.org/x/mod/semver"
)

// CompareVersions orders two version strings. Versions that are valid
// semantic versions (with or without the "v" prefix) compare semantically,
// so "1.10.0" sorts after "1.2.0". Anything else falls back to plain string
// comparison, which keeps ordering total for the odd legacy tag.
func CompareVersions(a, b string) int {
	ca, cb := canonicalVersion(a), canonicalVersion(b)
	if ca != "" && cb != "" {
		return semver.Compare(ca, cb)
	}
	return strings.Compare(a, b)
}

// canonicalVersion returns the "v"-prefixed canonical form, or "" when v is
// not a semantic version.
func canonicalVersion(v string) string {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// IsSemver reports whether v parses as a semantic version.
func IsSemver(v string) bool {
	return canonicalVersion(v) != ""
}
