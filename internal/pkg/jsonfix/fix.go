// Package jsonfix repairs the syntax mistakes language models commonly make
// when asked for JSON. Fixers only rewrite text; parsing is left to the caller.
package jsonfix

import "strings"

// Fixer rewrites quasi-JSON text into text that is closer to valid JSON
type Fixer func(text string) string

// Chain composes fixers left to right
func Chain(fixers ...Fixer) Fixer {
	return func(text string) string {
		for _, fix := range fixers {
			text = fix(text)
		}
		return text
	}
}

// DefaultChain extracts the JSON payload from a model response, quotes bare
// keys and drops trailing commas
func DefaultChain() Fixer {
	return Chain(ExtractJSON, FixUnquotedKeys, RemoveTrailingCommas)
}

// FixUnquotedKeys wraps bare object keys in double quotes.
//
// A bare key is an identifier ([A-Za-z_][A-Za-z0-9_-]*) preceded by '{' or ','
// and followed by ':' (whitespace ignored on both sides). String literals are
// never modified and whitespace is preserved, so the function is idempotent.
func FixUnquotedKeys(text string) string {
	tokens := lex(text)

	var sb strings.Builder
	sb.Grow(len(text) + 16)
	for i, tok := range tokens {
		if tok.kind == tokIdent && isBareKey(tokens, i) {
			sb.WriteByte('"')
			sb.WriteString(tok.text)
			sb.WriteByte('"')
			continue
		}
		sb.WriteString(tok.text)
	}
	return sb.String()
}

func isBareKey(tokens []token, i int) bool {
	prev := prevSignificant(tokens, i)
	if prev < 0 {
		return false
	}
	if k := tokens[prev].kind; k != tokOpenBrace && k != tokComma {
		return false
	}
	next := nextSignificant(tokens, i)
	return next >= 0 && tokens[next].kind == tokColon
}

// RemoveTrailingCommas drops commas that directly precede a closing brace or
// bracket outside string literals
func RemoveTrailingCommas(text string) string {
	tokens := lex(text)

	var sb strings.Builder
	sb.Grow(len(text))
	for i, tok := range tokens {
		if tok.kind == tokComma {
			next := nextSignificant(tokens, i)
			if next >= 0 && (tokens[next].kind == tokCloseBrace || tokens[next].kind == tokCloseBracket) {
				continue
			}
		}
		sb.WriteString(tok.text)
	}
	return sb.String()
}
