package stylesheet

import "strings"

// SplitList splits s at every sep that is not nested in parentheses,
// brackets or a quoted string. Items are trimmed and empty items dropped.
func SplitList(s string, sep byte) []string {
	var (
		out   []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case (c == ')' || c == ']') && depth > 0:
			depth--
		case c == sep && depth == 0:
			out = appendItem(out, s[start:i])
			start = i + 1
		}
	}
	return appendItem(out, s[start:])
}

// JoinList joins list items the way the printer lays out selector and media
// query lists.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

func appendItem(out []string, item string) []string {
	item = strings.TrimSpace(item)
	if item == "" {
		return out
	}
	return append(out, item)
}
