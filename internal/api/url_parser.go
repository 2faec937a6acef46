package api

import (
	"net/url"
	"regexp"
	"strings"
)

// bareIDPattern matches a catalog identifier given on its own.
var bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// CheckTrackRef reports whether ref points into the catalog identified by
// catalogHost, and returns the track id it names. A reference is a catalog
// reference when it contains catalogHost or is a bare identifier; the id is
// the trailing path segment with query and fragment stripped.
func CheckTrackRef(ref, catalogHost string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	if bareIDPattern.MatchString(ref) {
		return ref, true
	}
	if catalogHost == "" || !strings.Contains(ref, catalogHost) {
		return "", false
	}
	id := ExtractTrackID(ref)
	return id, id != ""
}

// ExtractTrackID returns the last non-empty path segment of ref.
func ExtractTrackID(ref string) string {
	path := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		path = u.Path
	} else if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimRight(path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path
}

// IsHTTPURL reports whether ref is an absolute http or https URL.
func IsHTTPURL(ref string) bool {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
