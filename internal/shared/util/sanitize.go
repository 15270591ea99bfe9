package util

import (
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxFileNameRunes = 128

// SanitizeFileName reduces a client supplied name to a display-safe base name:
// no directories, no control characters, bounded length.
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return "upload"
	}
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || r == utf8.RuneError {
			return -1
		}
		return r
	}, name)
	if utf8.RuneCountInString(name) > maxFileNameRunes {
		runes := []rune(name)
		name = string(runes[len(runes)-maxFileNameRunes:])
	}
	if strings.TrimSpace(name) == "" {
		return "upload"
	}
	return name
}
