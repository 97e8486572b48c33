// Package validation checks names read from disc before they are used as host paths.
package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnsafePath is returned when a walk path would resolve outside the destination directory.
var ErrUnsafePath = errors.New("path escapes destination directory")

// disallowed holds the characters that cannot appear in a host filename component.
const disallowed = "/\\:*?\"<>|"

// ValidFilename reports whether name can be used unchanged as a single host path component.
func ValidFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return validateFilenameRune(name)
}

// validateFilenameRune checks each rune for separators, reserved characters and control codes.
func validateFilenameRune(name string) bool {
	for _, r := range name {
		if r < 0x20 || r == 0x7F || strings.ContainsRune(disallowed, r) {
			return false
		}
	}
	return true
}

var invalidRegexp = regexp.MustCompile(`[\x00-\x1F\x7F` + regexp.QuoteMeta(disallowed) + `]`)

// validateFilenameRegex is the regular expression equivalent of validateFilenameRune.
func validateFilenameRegex(name string) bool {
	return !invalidRegexp.MatchString(name)
}

// SanitizeFilename replaces every character ValidFilename rejects with an underscore. Empty and dot names become
// underscores too.
func SanitizeFilename(name string) string {
	switch name {
	case "":
		return "_"
	case ".", "..":
		return strings.Repeat("_", len(name))
	}
	return invalidRegexp.ReplaceAllString(name, "_")
}

// SafeJoin appends name to dir as a single sanitized path component and checks the result stays inside dir.
func SafeJoin(dir, name string) (string, error) {
	joined := filepath.Join(dir, SanitizeFilename(name))
	rel, err := filepath.Rel(dir, joined)
	if err != nil || rel == "." || rel == ".." || strings.ContainsRune(rel, filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return joined, nil
}
