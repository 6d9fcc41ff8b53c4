package admin

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidBaseURL is returned when the admin API base URL cannot be used.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// ParseBaseURL parses and checks the base URL of the target service.
func ParseBaseURL(v string) (*url.URL, error) {
	u, err := url.Parse(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}

	switch u.Scheme {
	case "http", "https":
	case "":
		return nil, fmt.Errorf("%w: %q is missing a scheme", ErrInvalidBaseURL, v)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidBaseURL, u.Scheme)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q is missing a host", ErrInvalidBaseURL, v)
	}

	return u, nil
}

// FeaturesURL returns {base}/api/admin/projects/{project}/features.
func FeaturesURL(base *url.URL, project string) *url.URL {
	return join(base, "api", "admin", "projects", project, "features")
}

// StrategiesURL returns {features}/{feature}/environments/{environment}/strategies.
func StrategiesURL(features *url.URL, feature, environment string) *url.URL {
	return join(features, feature, "environments", environment, "strategies")
}

// EnableURL returns {features}/{feature}/environments/{environment}/on.
func EnableURL(features *url.URL, feature, environment string) *url.URL {
	return join(features, feature, "environments", environment, "on")
}

// join appends each segment to a copy of u, escaping them independently
// so that a segment containing "/" stays a single path element and a "."
// or ".." segment is never resolved against its parent.
func join(u *url.URL, segments ...string) *url.URL {
	var (
		joined = *u
		path   = strings.TrimSuffix(u.Path, "/")
		raw    = strings.TrimSuffix(u.EscapedPath(), "/")
	)

	for _, segment := range segments {
		path += "/" + segment
		raw += "/" + escapeSegment(segment)
	}

	joined.Path = path
	joined.RawPath = raw

	return &joined
}

func escapeSegment(segment string) string {
	if segment == "." || segment == ".." {
		return strings.Repeat("%2E", len(segment))
	}

	return url.PathEscape(segment)
}
