package canon

import (
	"errors"
	"regexp"
	"sort"
)

// Namespace construction errors. These are structural: an identifier that
// would carry a bad namespace must never come into existence, so the
// factories fail hard instead of producing a result value.
var (
	ErrInvalidNamespace   = errors.New("invalid namespace")
	ErrReservedNamespace  = errors.New("reserved namespace")
	ErrAmbiguousNamespace = errors.New("namespace collides with a grammar token")
)

// namespacePattern enforces the kebab-case namespace grammar: lowercase
// alphanumeric runs joined by single hyphens, starting with a letter.
// No leading, trailing, or doubled hyphen can match.
var namespacePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(?:-[a-z0-9]+)*$`)

// reservedNamespaces is the fixed set of tokens extensions may never claim.
var reservedNamespaces = map[string]struct{}{
	"gofai":    {},
	"core":     {},
	"cardplay": {},
	"builtin":  {},
	"system":   {},
	"user":     {},
	"canon":    {},
	"std":      {},
}

// ReservedNamespaces returns the reserved namespace tokens, sorted.
func ReservedNamespaces() []string {
	out := make([]string, 0, len(reservedNamespaces))
	for ns := range reservedNamespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// IsReservedNamespace reports whether ns is a member of the reserved set.
func IsReservedNamespace(ns string) bool {
	_, ok := reservedNamespaces[ns]
	return ok
}

// IsValidNamespace reports whether ns satisfies the namespace grammar and is
// neither reserved nor colliding with a category or part-of-speech token.
func IsValidNamespace(ns string) bool {
	return CheckNamespace(ns) == nil
}

// CheckNamespace validates ns against the full namespace rules and returns
// the specific violation, or nil when ns is usable.
func CheckNamespace(ns string) error {
	if !namespacePattern.MatchString(ns) {
		return ErrInvalidNamespace
	}
	if IsReservedNamespace(ns) {
		return ErrReservedNamespace
	}
	// Category and part-of-speech tokens occupy the same slot as a
	// namespace when an ID is split, so a namespace equal to one of them
	// would make parsing ambiguous.
	if IsCategory(ns) || IsPartOfSpeech(ns) {
		return ErrAmbiguousNamespace
	}
	return nil
}
