package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// MaxNameLength bounds node ids and relation names sent to the backend.
const MaxNameLength = 256

// ValidateName checks a node id or relation name before it is sent to the
// backend as a query parameter.
//
// The rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of MaxNameLength bytes
func ValidateName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidQuery, "%s cannot be empty", kind)
	}

	if len(name) > MaxNameLength {
		return New(ErrCodeInvalidQuery, "%s too long (max %d characters)", kind, MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "%s contains invalid control characters", kind)
		}
	}

	return nil
}

// ValidateRelations checks a relation filter. Relations are sent joined by
// commas, so a relation name cannot contain one.
func ValidateRelations(relations []string) error {
	for _, r := range relations {
		if err := ValidateName("relation", r); err != nil {
			return err
		}
		if strings.Contains(r, ",") {
			return New(ErrCodeInvalidQuery, "relation cannot contain a comma: %q", r)
		}
	}
	return nil
}

// ValidateDirection checks a subgraph traversal direction.
func ValidateDirection(direction string) error {
	switch direction {
	case "in", "out", "both":
		return nil
	}
	return New(ErrCodeInvalidQuery, "direction must be in, out or both: %q", direction)
}

// ValidateURL validates a backend base URL.
// It must be absolute with an http or https scheme and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must have a host")
	}

	return nil
}
