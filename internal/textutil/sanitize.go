package textutil

import "strings"

// fileNameReplacer strips characters that are unsafe in filenames.
var fileNameReplacer = strings.NewReplacer(
	"/", "",
	"\\", "",
	":", "",
	"*", "",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName removes filesystem-unsafe characters from a name.
// Slashes, backslashes, colons, asterisks, question marks, quotes, angle
// brackets, and pipes are dropped. The result is trimmed of surrounding
// whitespace and trailing dots.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	cleaned := fileNameReplacer.Replace(name)
	cleaned = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, cleaned)
	return strings.TrimRight(strings.TrimSpace(cleaned), ".")
}

// SanitizeDirName sanitizes a directory segment and falls back when the
// cleaned value is empty.
func SanitizeDirName(name, fallback string) string {
	if cleaned := SanitizeFileName(name); cleaned != "" {
		return cleaned
	}
	return fallback
}

// EscapeTemplate escapes percent signs so a literal path survives a
// printf-style output template.
func EscapeTemplate(value string) string {
	return strings.ReplaceAll(value, "%", "%%")
}
