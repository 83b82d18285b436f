package services

import (
	"regexp"
	"strings"
)

var (
	pageNumberLine = regexp.MustCompile(`(?m)^[ \t]*\d+[ \t]*$`)
	bulletPrefix   = regexp.MustCompile(`(?m)^[\x{2022}\x{2023}\x{25E6}\x{2043}\x{2219}*-][ \t]+`)
	horizontalWS   = regexp.MustCompile(`[ \t]+`)
	excessNewlines = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes extraction artifacts without deleting content: page
// numbers, bullet glyphs and whitespace only. Idempotent.
func Clean(rawText string) string {
	text := strings.ReplaceAll(rawText, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	// Standalone page numbers become blank lines, collapsed below.
	text = pageNumberLine.ReplaceAllString(text, "")

	text = bulletPrefix.ReplaceAllString(text, "- ")

	text = horizontalWS.ReplaceAllString(text, " ")

	text = excessNewlines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
