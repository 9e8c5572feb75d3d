package errors

import (
	"strings"
	"unicode"
)

// ValidateTag validates a release tag. Tags are passed verbatim to the feed
// and escaped into a single path segment, so "/", "?" and "#" are allowed.
//
// Rejected:
//   - Empty tags and the segments "." and ".."
//   - Control characters or null bytes
//   - More than 256 characters
func ValidateTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidTag, "tag cannot be empty")
	}
	if len(tag) > 256 {
		return New(ErrCodeInvalidTag, "tag too long (max 256 characters)")
	}
	for _, r := range tag {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTag, "tag contains invalid control characters")
		}
	}
	if tag == "." || tag == ".." {
		return New(ErrCodeInvalidTag, "invalid tag %q", tag)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
