package receipt

import (
	"regexp"
	"strings"
)

// runOfSpaces collapses runs of spaces/tabs within a single line.
var runOfSpaces = regexp.MustCompile(`[ \t]{2,}`)

// digitAdjacentConfusable matches a letter that is directly adjacent (no
// intervening space) to a decimal digit: either "<digit><letter>" or
// "<letter><digit>". Only l/O/S participate, per spec.md §4.1 — scoped so
// that ordinary alphabetic words are never touched.
var digitAdjacentConfusable = regexp.MustCompile(`(\d)([lOS])|([lOS])(\d)`)

var digitConfusionReplacement = map[byte]byte{
	'l': '1',
	'O': '0',
	'S': '5',
}

// denoise normalizes whitespace (preserving line breaks) and corrects
// digit/letter confusions that only occur directly adjacent to a digit,
// i.e. inside what is almost certainly a price or quantity column.
func denoise(transcript string) string {
	lines := strings.Split(transcript, "\n")
	for i, line := range lines {
		collapsed := runOfSpaces.ReplaceAllString(line, " ")
		lines[i] = fixDigitConfusions(collapsed)
	}
	return strings.Join(lines, "\n")
}

// fixDigitConfusions repeatedly replaces l/O/S with 1/0/5 wherever they sit
// directly next to a digit, until no more adjacent pairs remain (handles
// runs like "1O0" -> "100").
func fixDigitConfusions(line string) string {
	for {
		loc := digitAdjacentConfusable.FindStringSubmatchIndex(line)
		if loc == nil {
			return line
		}
		// Group 1/2 is "<digit><letter>"; group 3/4 is "<letter><digit>".
		letterStart := loc[4]
		if letterStart == -1 {
			letterStart = loc[6]
		}
		b := []byte(line)
		b[letterStart] = digitConfusionReplacement[b[letterStart]]
		line = string(b)
	}
}
