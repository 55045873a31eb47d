package template

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/vulimport/internal/domain"
)

// RenderString replaces {name} placeholders with vars values.
// Only lower-case identifiers count as placeholders, so shell text such as
// ${HOME} or JSON braces is copied unchanged. An unknown placeholder is an error.
func RenderString(input string, vars map[string]string) (string, error) {
	if input == "" {
		return "", nil
	}

	var out strings.Builder
	rest := input
	for {
		start := strings.IndexByte(rest, '{')
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start:]

		end := strings.IndexByte(rest, '}')
		if end == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		key := rest[1:end]
		if !isPlaceholder(key) {
			out.WriteByte('{')
			rest = rest[1:]
			continue
		}

		value, ok := vars[key]
		if !ok {
			return "", &domain.OpError{
				Op:   "template.render",
				Kind: domain.KindInvalidConfig,
				Path: input,
				Err:  fmt.Errorf("unknown placeholder {%s}: %w", key, domain.ErrInvalidConfig),
			}
		}

		out.WriteString(value)
		rest = rest[end+1:]
	}
}

// RenderArgs renders every argument of an argv. The input is not modified.
func RenderArgs(args []string, vars map[string]string) ([]string, error) {
	out := make([]string, len(args))
	for i, arg := range args {
		s, err := RenderString(arg, vars)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func isPlaceholder(key string) bool {
	if key == "" || key[0] < 'a' || key[0] > 'z' {
		return false
	}
	for i := 1; i < len(key); i++ {
		c := key[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}
