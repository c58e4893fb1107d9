package jsonfix

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokColon
	tokComma
	tokOpenBrace
	tokCloseBrace
	tokOpenBracket
	tokCloseBracket
	tokString
	tokSpace
	tokOther
)

// token is a raw slice of the input. Concatenating all token texts
// reproduces the input exactly.
type token struct {
	kind tokenKind
	text string
}

func (t token) significant() bool {
	return t.kind != tokSpace
}

// lex splits s into tokens. It never fails: unterminated strings run to the
// end of input and unknown characters become tokOther.
func lex(s string) []token {
	tokens := make([]token, 0, len(s)/2)
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '"':
			end := scanString(s, i)
			tokens = append(tokens, token{kind: tokString, text: s[i:end]})
			i = end
		case isSpace(c):
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			tokens = append(tokens, token{kind: tokSpace, text: s[i:j]})
			i = j
		case isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			tokens = append(tokens, token{kind: tokIdent, text: s[i:j]})
			i = j
		default:
			tokens = append(tokens, token{kind: punctKind(c), text: s[i : i+1]})
			i++
		}
	}
	return tokens
}

// scanString returns the index just past the closing quote of the string
// literal starting at s[start], honoring backslash escapes.
func scanString(s string, start int) int {
	i := start + 1
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return i + 1
		}
		i++
	}
	return len(s)
}

func punctKind(c byte) tokenKind {
	switch c {
	case ':':
		return tokColon
	case ',':
		return tokComma
	case '{':
		return tokOpenBrace
	case '}':
		return tokCloseBrace
	case '[':
		return tokOpenBracket
	case ']':
		return tokCloseBracket
	default:
		return tokOther
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '-' || (c >= '0' && c <= '9')
}

// prevSignificant returns the index of the closest non-space token before i, or -1
func prevSignificant(tokens []token, i int) int {
	for j := i - 1; j >= 0; j-- {
		if tokens[j].significant() {
			return j
		}
	}
	return -1
}

// nextSignificant returns the index of the closest non-space token after i, or -1
func nextSignificant(tokens []token, i int) int {
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].significant() {
			return j
		}
	}
	return -1
}
