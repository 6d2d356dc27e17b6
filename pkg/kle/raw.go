package kle

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/kleviz/pkg/errors"
)

// decodeRows returns the top-level row list. Strict JSON is tried first; if
// that fails or yields a single bare row, the input is treated as KLE raw
// data: property names get quoted and the whole text is wrapped in brackets.
func decodeRows(data []byte) ([]any, error) {
	var v any
	strictErr := json.Unmarshal(data, &v)
	if strictErr == nil {
		if rows, ok := asRows(v); ok {
			return rows, nil
		}
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.Write(quoteKeys(data))
	buf.WriteByte(']')
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		if strictErr != nil {
			err = strictErr
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "layout is neither JSON nor KLE raw data")
	}
	rows, ok := asRows(v)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "layout must be a list of rows")
	}
	return rows, nil
}

// asRows reports whether v is a list whose every element is a row array or
// an object.
func asRows(v any) ([]any, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	for _, el := range list {
		switch el.(type) {
		case []any, map[string]any:
		default:
			return nil, false
		}
	}
	return list, true
}

// quoteKeys wraps bare identifiers that are followed by a colon in double
// quotes, leaving string literals untouched.
func quoteKeys(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/4)
	inString, escaped := false, false

	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
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
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}
		if !isIdentStart(c) {
			out = append(out, c)
			continue
		}

		j := i
		for j < len(data) && isIdentPart(data[j]) {
			j++
		}
		k := j
		for k < len(data) && isSpace(data[k]) {
			k++
		}
		if k < len(data) && data[k] == ':' {
			out = append(out, '"')
			out = append(out, data[i:j]...)
			out = append(out, '"')
		} else {
			out = append(out, data[i:j]...)
		}
		i = j - 1
	}
	return out
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
