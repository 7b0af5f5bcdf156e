// Package identity normalizes and validates profile natural keys. A key is
// normalized exactly once, at the ingestion or query boundary; every
// comparison below that boundary is an exact, case-sensitive match.
// No fuzzy matching is performed anywhere: records with different keys are
// different people, even if every other field coincides.
package identity

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/avolkov/profiledb/internal/common"
)

// NormalizeKey canonicalizes a raw profile URL:
//
//   - surrounding whitespace is trimmed
//   - the URL must be absolute http/https with a host
//   - scheme and host are lowercased, default ports dropped
//   - query, fragment and trailing slashes are stripped
//
// Path case is preserved: profile slugs are case significant.
func NormalizeKey(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: profile url is required", common.ErrValidation)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: malformed profile url %q", common.ErrValidation, raw)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: profile url must be http(s), got %q", common.ErrValidation, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: profile url has no host: %q", common.ErrValidation, raw)
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimSuffix(host, defaultPort(scheme))

	path := strings.TrimRight(u.Path, "/")

	return scheme + "://" + host + path, nil
}

func defaultPort(scheme string) string {
	if scheme == "https" {
		return ":443"
	}
	return ":80"
}
