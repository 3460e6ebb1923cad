// Package resolver turns a share URL, URI or bare token into a show ID.
package resolver

import (
	"net/url"
	"regexp"
	"strings"

	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// uriPrefix is the form the desktop client's "Copy Spotify URI" produces
const uriPrefix = "spotify:show:"

// Resolve returns the canonical show identifier for input.
//
// Accepted forms:
//
//	https://open.spotify.com/show/ID?si=...
//	https://open.spotify.com/intl-de/show/ID
//	https://open.spotify.com/embed/show/ID
//	spotify:show:ID
//	ID
func Resolve(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", apperrors.InvalidReference(input, "empty reference")
	}

	if strings.HasPrefix(input, uriPrefix) {
		return validate(input, strings.TrimPrefix(input, uriPrefix))
	}

	if u, ok := parseWebURL(input); ok {
		id, found := showSegment(u.Path)
		if !found {
			return "", apperrors.InvalidReference(input, "URL has no show segment")
		}
		return validate(input, id)
	}

	return validate(input, input)
}

// parseWebURL reports whether input is an absolute http(s) URL with a host
func parseWebURL(input string) (*url.URL, bool) {
	u, err := url.Parse(input)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Host == "" {
		return nil, false
	}
	return u, true
}

// showSegment returns the path segment that follows "show"
func showSegment(path string) (string, bool) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := 0; i < len(segments)-1; i++ {
		if segments[i] == "show" && segments[i+1] != "" {
			return segments[i+1], true
		}
	}
	return "", false
}

func validate(input, id string) (string, error) {
	if !idPattern.MatchString(id) {
		return "", apperrors.InvalidReference(input, "identifier must be alphanumeric")
	}
	return id, nil
}
