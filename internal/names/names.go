// Package names derives valid Kubernetes Secret names from user input,
// file paths or the current date.
package names

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// maxNameLength is the DNS-1123 subdomain limit the API server enforces.
const maxNameLength = 253

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRuns   = regexp.MustCompile(`-{2,}`)
	leadingJunk  = regexp.MustCompile(`^[^a-z0-9]+`)
	trailingJunk = regexp.MustCompile(`[^a-z0-9]+$`)
)

// Adding the following variable, so that the date fallback can be tested
var timeNow = time.Now

// DateName returns the lowercase three-letter month plus the zero-padded
// day, e.g. "aug05". It is the name of last resort when nothing usable
// can be derived from the input.
func DateName(t time.Time) string {
	return strings.ToLower(t.Format("Jan")) + t.Format("02")
}

// Sanitize turns an arbitrary string into a DNS-1123 compliant Secret name:
// lowercased, every character outside [a-z0-9-] replaced with a hyphen,
// hyphen runs collapsed, leading/trailing hyphens stripped and the result
// truncated to 253 characters. Input that sanitizes away entirely falls
// back to the current date name.
func Sanitize(name string) string {
	name = strings.ToLower(name)
	name = invalidChars.ReplaceAllString(name, "-")
	name = hyphenRuns.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = DateName(timeNow())
	}
	if len(name) > maxNameLength {
		name = strings.TrimRight(name[:maxNameLength], "-")
	}
	name = leadingJunk.ReplaceAllString(name, "")
	name = trailingJunk.ReplaceAllString(name, "")
	if name == "" {
		name = DateName(timeNow())
	}
	return name
}

// FromFile derives a Secret name from the file's base name with every
// extension stripped, so "voting-keystore.json" becomes "voting-keystore"
// and "backup.tar.gz" becomes "backup". The result is sanitized like any
// other name.
func FromFile(path string) string {
	base := filepath.Base(path)
	for {
		ext := filepath.Ext(base)
		// Ext treats a lone dotfile like ".env" as all extension; stop
		// instead of stripping the name to nothing.
		if ext == "" || ext == base {
			break
		}
		base = strings.TrimSuffix(base, ext)
	}
	return Sanitize(base)
}
