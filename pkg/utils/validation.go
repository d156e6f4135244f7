package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrURLRequired    = errors.New("URL is required")
	ErrURLNotAbsolute = errors.New("URL must include a scheme and host")
)

// ValidateURL trims and validates a URL string, returning a normalized value
// or an error if the URL is empty or not absolute.
func ValidateURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrURLRequired
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrURLNotAbsolute, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", ErrURLNotAbsolute
	}
	return s, nil
}

// MaskSecret shows the first and last two characters of s.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("•", len(s))
	}
	return s[:2] + strings.Repeat("•", len(s)-4) + s[len(s)-2:]
}
