package structargs

import (
	"strings"
	"unicode"
)

// splitCamel cuts a Go identifier into lower case words.
// "HTTPServer" gives http, server and "StoreTrue" gives store, true.
func splitCamel(s string) []string {
	rs := []rune(s)
	var (
		words []string
		cur   []rune
	)
	for i, r := range rs {
		if r == '_' || r == '-' {
			if len(cur) > 0 {
				words = append(words, string(cur))
				cur = cur[:0]
			}
			continue
		}
		if i > 0 && unicode.IsUpper(r) && len(cur) > 0 {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				words = append(words, string(cur))
				cur = cur[:0]
			}
		}
		cur = append(cur, unicode.ToLower(r))
	}
	if len(cur) > 0 {
		words = append(words, string(cur))
	}
	return words
}

func kebabCase(s string) string {
	return strings.Join(splitCamel(s), "-")
}

func snakeCase(s string) string {
	return strings.Join(splitCamel(s), "_")
}

// optionName is the long option of a field name: "store_true" gives
// "--store-true".
func optionName(name string) string {
	return "--" + strings.ReplaceAll(name, "_", "-")
}
