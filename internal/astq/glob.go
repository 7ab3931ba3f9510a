package astq

import "strings"

// MatchGlob reports whether a slash-separated project path matches a glob.
// Supported syntax: "{a,b}" alternation, "**" for zero or more path
// segments, and "*" for any run of characters within one segment. A glob
// with no metacharacters is an exact path.
func MatchGlob(glob, path string) bool {
	for _, alt := range expandBraces(glob) {
		if matchSegments(strings.Split(alt, "/"), strings.Split(path, "/")) {
			return true
		}
	}
	return false
}

// expandBraces rewrites each "{a,b}" group into the full set of
// alternatives. Groups do not nest.
func expandBraces(glob string) []string {
	open := strings.IndexByte(glob, '{')
	if open < 0 {
		return []string{glob}
	}
	end := strings.IndexByte(glob[open:], '}')
	if end < 0 {
		return []string{glob}
	}
	end += open
	var out []string
	for _, opt := range strings.Split(glob[open+1:end], ",") {
		out = append(out, expandBraces(glob[:open]+opt+glob[end+1:])...)
	}
	return out
}

func matchSegments(pat, parts []string) bool {
	if len(pat) == 0 {
		return len(parts) == 0
	}
	if pat[0] == "**" {
		for skip := 0; skip <= len(parts); skip++ {
			if matchSegments(pat[1:], parts[skip:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	if !matchSegment(pat[0], parts[0]) {
		return false
	}
	return matchSegments(pat[1:], parts[1:])
}

// matchSegment matches one glob segment ("*" wildcards only) against one
// path segment.
func matchSegment(pat, s string) bool {
	if !strings.Contains(pat, "*") {
		return pat == s
	}
	pieces := strings.Split(pat, "*")
	if !strings.HasPrefix(s, pieces[0]) {
		return false
	}
	s = s[len(pieces[0]):]
	for i := 1; i < len(pieces)-1; i++ {
		idx := strings.Index(s, pieces[i])
		if idx < 0 {
			return false
		}
		s = s[idx+len(pieces[i]):]
	}
	return strings.HasSuffix(s, pieces[len(pieces)-1])
}
