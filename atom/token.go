package atom

import "strings"

// Tokenize splits text into messages and tokens.
//
// Tokens are separated by unescaped whitespace, messages by an unescaped ';'.
// A backslash makes the following byte literal and is dropped from the token,
// except before a '$' or another backslash where it is kept so that
// HasSubstitution can tell an escaped dollar from a substitution marker.
// Unescape removes the kept backslashes. Empty messages are not returned.
func Tokenize(text string) [][]string {
	var (
		messages [][]string
		current  []string
		token    strings.Builder
		inToken  bool
	)

	flushToken := func() {
		if inToken {
			current = append(current, token.String())
			token.Reset()
			inToken = false
		}
	}

	flushMessage := func() {
		flushToken()
		if len(current) > 0 {
			messages = append(messages, current)
		}
		current = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case c == '\\' && i+1 < len(text):
			i++
			if text[i] == '$' || text[i] == '\\' {
				token.WriteByte('\\')
			}
			token.WriteByte(text[i])
			inToken = true
		case c == ';':
			flushMessage()
		case isSpace(c):
			flushToken()
		default:
			token.WriteByte(c)
			inToken = true
		}
	}

	flushMessage()

	return messages
}

// IsNumeric reports whether token is a plain decimal number:
// an optional sign, digits with an optional fraction, and an optional exponent.
func IsNumeric(token string) bool {
	i := 0
	n := len(token)

	if i < n && (token[i] == '+' || token[i] == '-') {
		i++
	}

	digits := 0
	for i < n && isDigit(token[i]) {
		i++
		digits++
	}

	if i < n && token[i] == '.' {
		i++
		for i < n && isDigit(token[i]) {
			i++
			digits++
		}
	}

	if digits == 0 {
		return false
	}

	if i < n && (token[i] == 'e' || token[i] == 'E') {
		i++
		if i < n && (token[i] == '+' || token[i] == '-') {
			i++
		}
		expDigits := 0
		for i < n && isDigit(token[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}

	return i == n
}

// HasSubstitution reports whether token contains an unescaped '$' followed by a digit.
func HasSubstitution(token string) bool {
	for i := 0; i < len(token)-1; i++ {
		if token[i] == '\\' {
			i++
			continue
		}
		if token[i] == '$' && isDigit(token[i+1]) {
			return true
		}
	}
	return false
}

// Unescape drops the backslashes Tokenize kept in front of a '$' or a backslash.
func Unescape(token string) string {
	if !strings.Contains(token, `\`) {
		return token
	}

	var b strings.Builder
	b.Grow(len(token))

	for i := 0; i < len(token); i++ {
		if token[i] == '\\' && i+1 < len(token) {
			i++
		}
		b.WriteByte(token[i])
	}

	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
