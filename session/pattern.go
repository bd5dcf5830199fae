package session

import (
	"regexp"
	"strconv"
	"strings"
)

// Pattern is a synchronization marker: either exact text or a regular
// expression matched against the streamed engine output.
type Pattern struct {
	exact string
	re    *regexp.Regexp
}

// Exact matches s verbatim.
func Exact(s string) Pattern { return Pattern{exact: s} }

// Regex matches the compiled regular expression re.
func Regex(re *regexp.Regexp) Pattern { return Pattern{re: re} }

func (p Pattern) String() string {
	if p.re != nil {
		return "/" + p.re.String() + "/"
	}
	return strconv.Quote(p.exact)
}

// find locates the first occurrence of p in buf.
func (p Pattern) find(buf []byte) (start, end int, ok bool) {
	if p.re != nil {
		loc := p.re.FindIndex(buf)
		if loc == nil {
			return 0, 0, false
		}
		return loc[0], loc[1], true
	}
	i := strings.Index(string(buf), p.exact)
	if i < 0 {
		return 0, 0, false
	}
	return i, i + len(p.exact), true
}

type matchLoc struct {
	start, end int
}

// matchEarliest returns the match starting earliest in buf; ties go to
// the pattern listed first.
func matchEarliest(buf []byte, patterns []Pattern) (matchLoc, bool) {
	best := matchLoc{}
	found := false
	for _, p := range patterns {
		start, end, ok := p.find(buf)
		if !ok {
			continue
		}
		if !found || start < best.start {
			best = matchLoc{start: start, end: end}
			found = true
		}
	}
	return best, found
}

func describePatterns(patterns []Pattern) string {
	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
