package urlmatch

import (
	"regexp"
	"strings"
)

// schemes are stripped from the start of a URL during normalization, at most
// one, checked in this order. A "git@" user prefix is stripped after the
// scheme, so "ssh://git@host/..." and "git@host:..." normalize alike.
var schemes = []string{"https://", "http://", "ssh://"}

// Normalize canonicalizes a remote URL or pattern so that HTTPS, HTTP and
// SSH forms of the same repository compare equal: lower-case, strip one
// scheme prefix, strip one "git@" user prefix, strip one trailing ".git",
// and turn the SSH "host:path" separator into a "/". Idempotent: the output
// carries none of the stripped prefixes.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, p := range schemes {
		if strings.HasPrefix(s, p) {
			s = strings.TrimPrefix(s, p)
			break
		}
	}
	s = strings.TrimPrefix(s, "git@")
	s = strings.TrimSuffix(s, ".git")
	s = strings.Replace(s, ":", "/", 1)
	return s
}

// Matches reports whether url matches the glob pattern. Both sides are
// normalized first, so matching is case-insensitive and protocol-agnostic.
// "**" matches across path segments, "*" matches within a single segment,
// and the pattern is anchored at both ends. A pattern without any wildcard
// is prefix-tolerant: "github.com/org" matches itself and any repository
// beneath it.
func Matches(url, pattern string) bool {
	re, err := compile(Normalize(pattern))
	if err != nil {
		return false
	}
	return re.MatchString(Normalize(url))
}

// MatchesAny evaluates patterns in order and returns true on the first
// match. Order carries tie-break meaning for callers that map patterns to
// different outcomes.
func MatchesAny(url string, patterns []string) bool {
	for _, p := range patterns {
		if Matches(url, p) {
			return true
		}
	}
	return false
}

// compile translates a normalized glob pattern into an anchored regexp.
func compile(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '*' {
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
			continue
		}
		if i+1 < len(pattern) && pattern[i+1] == '*' {
			b.WriteString(".*")
			i++
		} else {
			b.WriteString("[^/]*")
		}
	}
	if !strings.Contains(pattern, "*") {
		// Bare patterns double as host/organization prefixes.
		b.WriteString("(/.*)?")
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
