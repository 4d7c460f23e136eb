package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	lineEndings    = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u00a0", " ")
	horizontalRuns = regexp.MustCompile(`[ \t\f\v]+`)
	blankRuns      = regexp.MustCompile(`\n{3,}`)
)

// Normalize canonicalizes raw message text. Leading indentation on each line
// is kept (as spaces) because item extraction reads it; interior whitespace
// runs collapse to one space, trailing whitespace is dropped and runs of blank
// lines collapse to a single blank line. Normalize is idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	lines := strings.Split(lineEndings.Replace(raw), "\n")
	for i, line := range lines {
		body := strings.TrimLeft(line, " \t\f\v")
		indent := len(line) - len(body)
		body = strings.TrimRight(body, " \t\f\v")
		if body == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.Repeat(" ", indent) + horizontalRuns.ReplaceAllString(body, " ")
	}
	text := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}

// HashKey reduces text to the form used for content dedup: the Normalize form
// with every indentation run collapsed to one space, so forwarded copies that
// were re-indented by a mail client still produce the same key.
func HashKey(text string) string {
	return horizontalRuns.ReplaceAllString(Normalize(text), " ")
}

// BodyHash returns the sha256 hex digest of HashKey(text), or "" when the
// text is empty after normalization.
func BodyHash(text string) string {
	key := HashKey(text)
	if key == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
