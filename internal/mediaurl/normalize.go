package mediaurl

import (
	"net/url"
	"strings"
)

// DefaultPrefix is the public path media files are served under.
const DefaultPrefix = "/media/"

// Normalizer rewrites stored media references into public paths.
type Normalizer struct {
	// Prefix is the media URL prefix, with leading and trailing slashes.
	Prefix string
}

func (n Normalizer) prefix() string {
	if n.Prefix == "" {
		return DefaultPrefix
	}
	return n.Prefix
}

// IsMediaPath reports whether raw is a path under the media prefix, with or
// without its leading slash.
func (n Normalizer) IsMediaPath(raw string) bool {
	prefix := n.prefix()
	return strings.HasPrefix(raw, prefix) || strings.HasPrefix(raw, prefix[1:])
}

// Normalize converts a stored media reference into the path the media server
// publishes. Absolute storage URLs, including ones that were wrapped in the
// media prefix with or without percent-encoding, collapse to their path.
// Unrecognized input is returned unchanged, so Normalize never fails.
func (n Normalizer) Normalize(raw string) string {
	if raw == "" {
		return raw
	}
	prefix := n.prefix()
	bare := prefix[1:]

	// /media/http%3A//host/media/x.png
	if strings.HasPrefix(raw, prefix) && (strings.Contains(raw, "%3A") || strings.Contains(raw, "%3a")) {
		if path, ok := absoluteURLPath(unquote(raw[len(prefix):])); ok {
			return path
		}
	}
	// /media/http://host/media/x.png
	if hasURLPrefix(raw, prefix) {
		if path, ok := absoluteURLPath(raw[len(prefix):]); ok {
			return path
		}
	}
	// media/http://host/media/x.png
	if hasURLPrefix(raw, bare) {
		if path, ok := absoluteURLPath(raw[len(bare):]); ok {
			return path
		}
	}
	if n.IsMediaPath(raw) {
		if strings.HasPrefix(raw, "/") {
			return raw
		}
		return "/" + raw
	}
	if path, ok := absoluteURLPath(raw); ok {
		return path
	}
	return raw
}

func hasURLPrefix(raw, prefix string) bool {
	return strings.HasPrefix(raw, prefix+"http://") || strings.HasPrefix(raw, prefix+"https://")
}

// absoluteURLPath returns the path of an http or https URL with a non-empty path.
func absoluteURLPath(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return splitURLPath(raw)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", false
	}
	if parsed.Path == "" {
		return "", false
	}
	return parsed.EscapedPath(), true
}

// splitURLPath cuts the path out of an http or https URL that url.Parse
// rejected, for example one with a non-numeric port. The path starts at the
// first slash after the authority and ends before any query or fragment.
func splitURLPath(raw string) (string, bool) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "http", "https":
	default:
		return "", false
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return "", false
	}
	return rest[slash:], true
}

// unquote decodes %XX escapes and leaves malformed escapes in place.
func unquote(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// quote percent-encodes a stored file name the way Django's storage URLs do:
// unreserved characters and "/~!*()'" are kept, everything else is escaped.
func quote(s string) string {
	const hexDigits = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldKeep(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
	return b.String()
}

func shouldKeep(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-._~/!*()'", c) >= 0
}
