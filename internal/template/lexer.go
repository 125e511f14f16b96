package template

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	openMarker  = "{@"
	closeMarker = "@}"
)

type segmentKind int

const (
	segmentText segmentKind = iota
	segmentPlaceholder
)

// segment is a run of literal text or one complete placeholder.
// For placeholders, raw holds the original span and name the variable.
type segment struct {
	kind segmentKind
	raw  string
	name string
}

// lex splits s into literal and placeholder segments in a single
// left-to-right pass. A "{@" that does not open a well-formed placeholder is
// literal text, and scanning resumes at the next byte.
func lex(s string) []segment {
	var segments []segment
	textStart := 0

	for i := 0; i < len(s); {
		if s[i] != '{' {
			i++
			continue
		}

		name, end, ok := matchPlaceholder(s, i)
		if !ok {
			i++
			continue
		}

		if i > textStart {
			segments = append(segments, segment{kind: segmentText, raw: s[textStart:i]})
		}
		segments = append(segments, segment{kind: segmentPlaceholder, raw: s[i:end], name: name})
		i = end
		textStart = end
	}

	if textStart < len(s) {
		segments = append(segments, segment{kind: segmentText, raw: s[textStart:]})
	}
	return segments
}

// matchPlaceholder reports whether a placeholder starts at s[start] and
// returns its name and the index just past its closing marker.
func matchPlaceholder(s string, start int) (string, int, bool) {
	if !strings.HasPrefix(s[start:], openMarker) {
		return "", 0, false
	}

	i := skipSpace(s, start+len(openMarker))

	nameStart := i
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isNameRune(r) {
			break
		}
		i += size
	}
	if i == nameStart {
		return "", 0, false
	}
	name := s[nameStart:i]

	i = skipSpace(s, i)
	if !strings.HasPrefix(s[i:], closeMarker) {
		return "", 0, false
	}
	return name, i + len(closeMarker), true
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
