package record

import (
	"path/filepath"
	"strings"
	"unicode"
)

// fileExt is the extension every record file carries (spec §6).
const fileExt = ".dbobj"

// SnakeCase converts a host type name to the file-name stem spec §6
// describes: lowercase the first letter, insert an underscore before each
// uppercase letter that is not part of a run of uppercase letters,
// collapse runs of uppercase letters (no underscore between the letters
// of an acronym), and strip whitespace and '.' entirely.
func SnakeCase(name string) string {
	filtered := make([]rune, 0, len(name))
	for _, r := range name {
		if r == '.' || unicode.IsSpace(r) {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) == 0 {
		return ""
	}

	var b strings.Builder
	prevUpper := false
	for i, r := range filtered {
		isUpper := unicode.IsUpper(r)
		switch {
		case i == 0:
			b.WriteRune(unicode.ToLower(r))
		case isUpper:
			if !prevUpper {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevUpper = isUpper
	}
	return b.String()
}

// PathFor returns the on-disk path for a record type named name, rooted at
// dir: "<dir>/<snake_case(name)>.dbobj" (spec §6).
func PathFor(dir, name string) string {
	return filepath.Join(dir, SnakeCase(name)+fileExt)
}
