package insight

import (
	"encoding/json"
	"fmt"

	"github.com/i474232898/farm-insight/internal/apperr"
)

// ExtractObject returns the first balanced {...} span in text. Braces inside
// JSON string literals are ignored. An unterminated object or text without
// any '{' yields ErrExtraction.
func ExtractObject(text string) (string, error) {
	start := -1
	depth := 0
	inString, escaped := false, false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if start < 0 {
			if c == '{' {
				start, depth = i, 1
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	if start < 0 {
		return "", fmt.Errorf("%w: no opening brace", apperr.ErrExtraction)
	}
	return "", fmt.Errorf("%w: unbalanced braces from offset %d", apperr.ErrExtraction, start)
}

// decodeObject extracts the first object in text and unmarshals it into out.
func decodeObject(text string, out any) error {
	raw, err := ExtractObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrExtraction, err)
	}
	return nil
}
