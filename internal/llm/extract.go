package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSONObject is returned by ExtractObject when the text contains no
// complete {...} block.
var ErrNoJSONObject = errors.New("no JSON object found in response")

// ExtractObject pulls the first balanced JSON object out of free-form
// model output. Markdown code fences and surrounding prose are ignored,
// as are // and /* */ comments outside strings. The returned bytes are
// valid JSON; malformed blocks yield *ErrInvalidResponse.
func ExtractObject(text string) (json.RawMessage, error) {
	block := firstObject(stripFences(text))
	if block == "" {
		return nil, &ErrInvalidResponse{Content: json.RawMessage(text), Err: ErrNoJSONObject}
	}
	block = stripComments(block)

	if !json.Valid([]byte(block)) {
		var probe any
		err := json.Unmarshal([]byte(block), &probe)
		return nil, &ErrInvalidResponse{Content: json.RawMessage(block), Err: err}
	}
	return json.RawMessage(block), nil
}

func stripFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// firstObject returns the first {...} block whose braces balance, skipping
// braces inside string literals.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	var sc stringScanner
	depth := 0
	for i := start; i < len(s); i++ {
		if sc.step(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var sc stringScanner
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.step(c) {
			b.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				for i+1 < len(s) && s[i+1] != '\n' {
					i++
				}
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end < 0 {
					i = len(s)
				} else {
					i += 2 + end + 1
				}
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// stringScanner tracks whether the scan position is inside a JSON string.
type stringScanner struct {
	inString bool
	escaped  bool
}

// step consumes c and reports whether it belongs to a string literal
// (including its quotes).
func (sc *stringScanner) step(c byte) bool {
	switch {
	case sc.escaped:
		sc.escaped = false
		return true
	case sc.inString && c == '\\':
		sc.escaped = true
		return true
	case c == '"':
		sc.inString = !sc.inString
		return true
	}
	return sc.inString
}
