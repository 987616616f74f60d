package mediaurl

import "strings"

// Source is a stored media reference as found on a record. It is one of
// Text, URLSource or NameSource.
type Source interface {
	isSource()
}

// Text is a plain stored string: a public path, a stored name or an absolute URL.
type Text string

// URLSource is a file reference that already knows its resolved URL.
type URLSource struct {
	URL string
}

// NameSource is a file reference that only exposes its raw stored name.
type NameSource struct {
	Name string
}

func (Text) isSource()       {}
func (URLSource) isSource()  {}
func (NameSource) isSource() {}

// FieldFile is a stored file reference: a name relative to the media root,
// served below BaseURL.
type FieldFile struct {
	Name    string
	BaseURL string
}

// URL joins the base URL and the escaped stored name. Names that are
// themselves absolute URLs end up wrapped, e.g. /media/http%3A//host/x.png.
func (f FieldFile) URL() string {
	if f.Name == "" {
		return ""
	}
	base := f.BaseURL
	if base == "" {
		base = DefaultPrefix
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + quote(strings.TrimPrefix(f.Name, "/"))
}

// Source returns the file as a URLSource, or a NameSource when no URL can
// be built for it.
func (f FieldFile) Source() Source {
	if u := f.URL(); u != "" {
		return URLSource{URL: u}
	}
	return NameSource{Name: f.Name}
}

// isAbsoluteName reports whether a raw stored name carries an absolute URL,
// either bare or wrapped in the media prefix.
func (n Normalizer) isAbsoluteName(name string) bool {
	prefix := n.prefix()
	for _, p := range []string{"http://", "https://", prefix + "http", prefix[1:] + "http"} {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}
