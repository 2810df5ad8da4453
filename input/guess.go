package input

import (
	"strings"
	"unicode"
)

const (
	// Bodies shorter than this are checked for an empty object such as "{ }".
	emptyObjectMaxLen = 20

	// Browsers, curl and Postman all start boundaries with at least six
	// hyphens (Chromium has the fewest).
	multipartMinHyphens = 5
)

var multipartPrefix = strings.Repeat("-", multipartMinHyphens)

// GuessContentType classifies body when the user gave no content type.
// The checks overlap, so the order below decides the winner.
func GuessContentType(body string) ContentType {
	switch {
	case LooksLikeJSON(body):
		return ContentTypeJSON
	case LooksLikeURLEncoded(body):
		return ContentTypeForm
	case LooksLikeMultipart(body):
		return ContentTypeMultipart
	default:
		return ContentTypeText
	}
}

type jsonScanState int

const (
	seekOpenBrace jsonScanState = iota
	seekOpenQuote
	inKey
	seekColon
	jsonFound
	notJSON
)

func (s jsonScanState) next(c rune) jsonScanState {
	if s == inKey {
		// Escape sequences in the key are not handled.
		if c == '"' {
			return seekColon
		}
		return inKey
	}
	if unicode.IsSpace(c) {
		return s
	}
	switch {
	case s == seekOpenBrace && c == '{':
		return seekOpenQuote
	case s == seekOpenQuote && c == '"':
		return inKey
	case s == seekColon && c == ':':
		return jsonFound
	default:
		return notJSON
	}
}

// LooksLikeJSON reports whether body starts like a JSON object, i.e. `{"key":`
// ignoring whitespace. Short bodies that are just an empty object also count.
// Top-level arrays and scalars are never recognized.
func LooksLikeJSON(body string) bool {
	if len(body) < emptyObjectMaxLen && removeSpaces(body) == "{}" {
		return true
	}

	state := seekOpenBrace
	for _, c := range body {
		state = state.next(c)
		if state == jsonFound {
			return true
		}
		if state == notJSON {
			return false
		}
	}
	return false
}

func removeSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// LooksLikeURLEncoded reports whether body starts with `key=` where key only
// holds RFC 3986 unreserved characters, '+' and complete %-escapes.
func LooksLikeURLEncoded(body string) bool {
	digitsLeft := 0
	n := 0
	for ; n < len(body); n++ {
		c := body[n]
		if digitsLeft > 0 {
			if !isDigit(c) {
				break
			}
			digitsLeft--
			continue
		}
		if c == '%' {
			digitsLeft = 2
			continue
		}
		if !isUnreserved(c) && c != '+' {
			break
		}
	}
	if n == 0 || digitsLeft > 0 {
		return false
	}
	return n < len(body) && body[n] == '='
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', isDigit(c):
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	default:
		return false
	}
}

// LooksLikeMultipart reports whether body starts with a boundary marker.
func LooksLikeMultipart(body string) bool {
	return strings.HasPrefix(body, multipartPrefix)
}
