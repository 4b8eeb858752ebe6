package catalog

import (
	"strconv"
	"strings"
)

// The dataset stores tags, steps, ingredients and nutrition as stringified
// Python lists, e.g. `['winter squash', "mexican"]` or `[51.5, 0.0, 13.0]`.
// These parsers are strict scanners that fail closed: any malformed input
// yields nil instead of a partial or guessed result. They never evaluate the
// input as code.

// parseStringList parses a stringified list of quoted strings.
func parseStringList(s string) []string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil
	}

	body := s[1 : len(s)-1]
	items := []string{}
	i := 0
	for {
		for i < len(body) && (body[i] == ' ' || body[i] == '\t' || body[i] == '\n') {
			i++
		}
		if i >= len(body) {
			return items
		}

		quote := body[i]
		if quote != '\'' && quote != '"' {
			return nil
		}
		i++

		var sb strings.Builder
		closed := false
		for i < len(body) {
			c := body[i]
			if c == '\\' && i+1 < len(body) {
				sb.WriteByte(body[i+1])
				i += 2
				continue
			}
			if c == quote {
				closed = true
				i++
				break
			}
			sb.WriteByte(c)
			i++
		}
		if !closed {
			return nil
		}
		items = append(items, sb.String())

		for i < len(body) && (body[i] == ' ' || body[i] == '\t' || body[i] == '\n') {
			i++
		}
		if i >= len(body) {
			return items
		}
		if body[i] != ',' {
			return nil
		}
		i++
	}
}

// parseFloatList parses a stringified list of numbers.
func parseFloatList(s string) []float64 {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil
	}

	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return []float64{}
	}

	parts := strings.Split(body, ",")
	vals := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil
		}
		vals = append(vals, f)
	}
	return vals
}
