// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package net holds URL checks shared by configuration and logging.
package net

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// SanitizeURL removes user info and query parameters for safe logging.
func SanitizeURL(rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsedURL.User = nil
	parsedURL.RawQuery = ""
	return parsedURL.String()
}

// CheckServerURL validates a media server root. It enforces:
//   - Scheme must be "http" or "https"
//   - Host must be non-empty
//   - No embedded credentials; the token travels in a header
//   - No fragment
func CheckServerURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	// strict scheme check (case-insensitive)
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	if u.User != nil {
		return errors.New("credentials in the URL are not allowed")
	}
	if u.Fragment != "" {
		return errors.New("fragment is not allowed")
	}
	return nil
}
