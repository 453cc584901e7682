package stages

import (
	"slices"
	"strings"

	"go.trai.ch/lumen/internal/adapters/stylesheet"
)

type customProperties struct {
	preserve bool
}

func newCustomProperties(opts options) (rewriter, error) {
	preserve, err := opts.boolean("preserve", true)
	if err != nil {
		return nil, err
	}
	c := &customProperties{preserve: preserve}
	return c.apply, nil
}

func (c *customProperties) apply(sheet *stylesheet.Sheet) {
	vars := make(map[string]string)
	for _, n := range sheet.Nodes {
		r, ok := n.(*stylesheet.Rule)
		if !ok || !isRootRule(r) {
			continue
		}
		for _, d := range stylesheet.Decls(r.Nodes) {
			if d.IsCustom() {
				vars[d.Prop] = d.Value
			}
		}
	}

	res := &varResolver{vars: vars}
	sheet.Nodes = stylesheet.Rewrite(sheet.Nodes, func(n stylesheet.Node) []stylesheet.Node {
		d, ok := n.(*stylesheet.Decl)
		if !ok || d.IsCustom() || !strings.Contains(d.Value, "var(") {
			return []stylesheet.Node{n}
		}
		resolved, ok := res.resolve(d.Value, nil)
		if !ok || resolved == d.Value {
			return []stylesheet.Node{n}
		}
		if c.preserve {
			return []stylesheet.Node{&stylesheet.Decl{Prop: d.Prop, Value: resolved, Important: d.Important}, d}
		}
		d.Value = resolved
		return []stylesheet.Node{d}
	})

	if !c.preserve {
		sheet.Nodes = dropRootCustomProperties(sheet.Nodes)
	}
}

func dropRootCustomProperties(nodes []stylesheet.Node) []stylesheet.Node {
	out := nodes[:0]
	for _, n := range nodes {
		r, ok := n.(*stylesheet.Rule)
		if !ok || !isRootRule(r) {
			out = append(out, n)
			continue
		}
		kept := r.Nodes[:0]
		for _, c := range r.Nodes {
			if d, ok := c.(*stylesheet.Decl); ok && d.IsCustom() {
				continue
			}
			kept = append(kept, c)
		}
		r.Nodes = kept
		if len(r.Nodes) > 0 {
			out = append(out, r)
		}
	}
	return out
}

func isRootRule(r *stylesheet.Rule) bool {
	sels := r.Selectors()
	if len(sels) == 0 {
		return false
	}
	for _, s := range sels {
		if s != ":root" && s != "html" {
			return false
		}
	}
	return true
}

type varResolver struct {
	vars map[string]string
}

// resolve substitutes every var() in value. It fails when a reference has
// neither a resolvable definition nor a resolvable fallback.
func (r *varResolver) resolve(value string, visiting []string) (string, bool) {
	var sb strings.Builder
	i := 0
	for {
		j := strings.Index(value[i:], "var(")
		if j < 0 {
			sb.WriteString(value[i:])
			return sb.String(), true
		}
		j += i
		end := closingParen(value, j+len("var"))
		if end < 0 {
			return value, false
		}

		name, fallback, hasFallback := strings.Cut(value[j+len("var("):end], ",")
		name = strings.TrimSpace(name)

		var (
			sub string
			ok  bool
		)
		if def, found := r.vars[name]; found && !slices.Contains(visiting, name) {
			sub, ok = r.resolve(def, append(slices.Clone(visiting), name))
		}
		if !ok && hasFallback {
			sub, ok = r.resolve(strings.TrimSpace(fallback), visiting)
		}
		if !ok {
			return value, false
		}

		sb.WriteString(value[i:j])
		sb.WriteString(sub)
		i = end + 1
	}
}

// closingParen returns the index of the ')' matching the '(' at open.
func closingParen(s string, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
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
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
