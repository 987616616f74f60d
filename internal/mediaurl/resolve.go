package mediaurl

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolver decides where a normalized media path is actually served from.
type Resolver struct {
	Normalizer Normalizer
	// MediaRoot is the local directory the media prefix maps to.
	MediaRoot string
	// Origin is the remote storage service, without a trailing slash.
	// Empty disables the remote fallback.
	Origin string
	// Exists overrides the filesystem probe. Nil uses os.Stat.
	Exists func(path string) bool
}

// Resolve returns path unchanged unless it is a media path whose file is
// missing under MediaRoot, in which case the remote origin is prepended.
func (r Resolver) Resolve(path string) string {
	if !r.Normalizer.IsMediaPath(path) {
		return path
	}
	origin := strings.TrimRight(r.Origin, "/")
	if origin == "" {
		return path
	}
	public := path
	if !strings.HasPrefix(public, "/") {
		public = "/" + public
	}
	local, ok := r.localPath(public)
	if !ok {
		return path
	}
	if r.exists(local) {
		return path
	}
	return origin + public
}

// localPath maps a public media path onto MediaRoot. Paths that would leave
// MediaRoot are rejected.
func (r Resolver) localPath(public string) (string, bool) {
	if r.MediaRoot == "" {
		return "", false
	}
	rel := unquote(strings.TrimPrefix(public, r.Normalizer.prefix()))
	root := filepath.Clean(r.MediaRoot)
	local := filepath.Join(root, filepath.FromSlash(rel))
	if local != root && !strings.HasPrefix(local, root+string(filepath.Separator)) {
		return "", false
	}
	return local, true
}

func (r Resolver) exists(path string) bool {
	if r.Exists != nil {
		return r.Exists(path)
	}
	_, err := os.Stat(path)
	return err == nil
}
