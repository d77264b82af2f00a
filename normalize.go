package fluentpath

import "strings"

// normalize canonicalizes a raw path slice into a set: blank entries go,
// surrounding whitespace goes, one trailing separator goes unless the path
// is a root, and duplicates under the configured case folding collapse to
// their first occurrence. Iteration order is first-seen order.
func (o Options) normalize(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = o.trimTrailingSeparator(p)
		key := o.fold(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// key canonicalizes a single path the same way normalize does, for
// membership and exclusion checks.
func (o Options) key(p string) string {
	return o.fold(o.trimTrailingSeparator(strings.TrimSpace(p)))
}

func (o Options) fold(p string) string {
	if o.CaseSensitive {
		return p
	}
	return strings.ToLower(p)
}

// trimTrailingSeparator strips exactly one trailing separator, keeping
// roots ("/", "\", "C:\") intact.
func (o Options) trimTrailingSeparator(p string) string {
	sep := string(o.Separator)
	if !strings.HasSuffix(p, sep) {
		return p
	}
	if o.isRoot(p) {
		return p
	}
	return p[:len(p)-len(sep)]
}

// isRoot reports whether p is a filesystem root: the bare separator or a
// drive letter followed by the separator.
func (o Options) isRoot(p string) bool {
	sep := string(o.Separator)
	if p == sep {
		return true
	}
	if len(p) == 2+len(sep) && isDriveLetter(p[0]) && p[1] == ':' && strings.HasSuffix(p, sep) {
		return true
	}
	return false
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
