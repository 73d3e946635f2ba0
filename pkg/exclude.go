package fastdupes

import (
	"fmt"
	"regexp"
	"strings"
)

// defaultExcludePatterns are the version-control directories skipped unless
// the caller overrides them
var defaultExcludePatterns = []string{"*/.svn", "*/.bzr", "*/.git", "*/.hg"}

// DefaultExcludes returns the built-in exclude patterns
func DefaultExcludes() []string {
	return append([]string(nil), defaultExcludePatterns...)
}

// ExcludeManager matches paths against glob-style exclude patterns.
// Patterns are compiled to regexps once up front rather than re-evaluated
// per path; the glob dialect is fnmatch-like, so '*' matches across path
// separators ("*/.git" excludes a .git directory at any depth).
type ExcludeManager struct {
	raw      []string
	patterns []*regexp.Regexp
}

// NewExcludeManager compiles the given glob patterns. An invalid character
// class makes the whole set invalid.
func NewExcludeManager(patterns []string) (*ExcludeManager, error) {
	em := &ExcludeManager{
		raw:      append([]string(nil), patterns...),
		patterns: make([]*regexp.Regexp, 0, len(patterns)),
	}
	for _, pattern := range patterns {
		re, err := regexp.Compile(translateGlob(pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		em.patterns = append(em.patterns, re)
	}
	return em, nil
}

// Patterns returns the raw patterns this manager was built from
func (em *ExcludeManager) Patterns() []string {
	return append([]string(nil), em.raw...)
}

// Match reports whether the path is excluded
func (em *ExcludeManager) Match(path string) bool {
	for _, re := range em.patterns {
		if re.MatchString(path) {
			if IsDebugEnabled("walk") {
				VerboseLog(3, "exclude: %s matched %s", re.String(), path)
			}
			return true
		}
	}
	return false
}

// NormalizeExcludes applies the command-line exclude semantics: a bare "-"
// entry discards everything before it (including the built-in defaults),
// and trailing path separators are stripped so patterns match directories.
func NormalizeExcludes(patterns []string) []string {
	for i := len(patterns) - 1; i >= 0; i-- {
		if patterns[i] == "-" {
			patterns = patterns[i+1:]
			break
		}
	}
	normalized := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		normalized = append(normalized, strings.TrimRight(pattern, "/"))
	}
	return normalized
}

// translateGlob converts an fnmatch-style glob into an anchored regexp.
// '*' matches any run of characters including separators, '?' matches one
// character, and '[seq]' / '[!seq]' character classes pass through.
func translateGlob(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '[':
			j := i + 1
			if j < len(pattern) && (pattern[j] == '!' || pattern[j] == '^') {
				j++
			}
			if j < len(pattern) && pattern[j] == ']' {
				j++
			}
			for j < len(pattern) && pattern[j] != ']' {
				j++
			}
			if j >= len(pattern) {
				// Unterminated class: treat the bracket literally
				b.WriteString(`\[`)
			} else {
				set := pattern[i+1 : j]
				b.WriteString("[")
				if strings.HasPrefix(set, "!") {
					b.WriteString("^")
					set = set[1:]
				}
				b.WriteString(strings.ReplaceAll(set, `\`, `\\`))
				b.WriteString("]")
				i = j
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	return b.String()
}
