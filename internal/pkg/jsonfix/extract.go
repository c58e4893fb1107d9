package jsonfix

import (
	"encoding/json"
	"regexp"
	"strings"
)

var codeBlockPattern = regexp.MustCompile("```(?:json|JSON)?[ \t]*\r?\n([\\s\\S]*?)\r?\n[ \t]*```")

// ExtractJSON pulls the JSON object out of a chatty model response.
//
// Text that starts with '{' or '[' yields its leading balanced value, so
// prose after the payload is dropped. Otherwise the first fenced code block
// holding an object that parses once its keys are quoted and trailing commas
// are dropped wins, then the first balanced object found anywhere in the
// text. When nothing qualifies the text is returned as is.
func ExtractJSON(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if span, ok := balancedSpan(trimmed, 0); ok {
			return span
		}
		return trimmed
	}

	for _, m := range codeBlockPattern.FindAllStringSubmatch(text, -1) {
		body := strings.TrimSpace(m[1])
		if strings.HasPrefix(body, "{") && strings.HasSuffix(body, "}") && parses(body) {
			return body
		}
	}

	if obj, ok := findBalancedObject(text); ok {
		return obj
	}

	return text
}

func parses(body string) bool {
	return json.Valid([]byte(RemoveTrailingCommas(FixUnquotedKeys(body))))
}

// findBalancedObject returns the first {...} span whose braces balance
func findBalancedObject(text string) (string, bool) {
	for start := strings.IndexByte(text, '{'); start >= 0; {
		if span, ok := balancedSpan(text, start); ok {
			return span, true
		}

		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", false
}

// balancedSpan returns text[start:end] where end closes the bracket opened at
// start. Brackets inside string literals are ignored.
func balancedSpan(text string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
