package stages

import (
	"strings"

	"go.trai.ch/lumen/internal/adapters/stylesheet"
)

// conditionalGroups are the at-rules hoisted above the selector they are
// nested in.
var conditionalGroups = map[string]bool{
	"media":     true,
	"supports":  true,
	"container": true,
	"layer":     true,
}

func newNesting(options) (rewriter, error) {
	return func(sheet *stylesheet.Sheet) {
		sheet.Nodes = unnest(sheet.Nodes)
	}, nil
}

// unnest flattens every rule in a block that is not itself a style rule.
func unnest(nodes []stylesheet.Node) []stylesheet.Node {
	out := make([]stylesheet.Node, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *stylesheet.Rule:
			if len(n.Nodes) == 0 {
				out = append(out, n)
				continue
			}
			out = append(out, flattenRule(n.Selector, n.Nodes)...)
		case *stylesheet.AtRule:
			if n.Block {
				n.Nodes = unnest(n.Nodes)
			}
			out = append(out, n)
		default:
			out = append(out, n)
		}
	}
	return out
}

// flattenRule emits the rule for selector followed by one rule per nested
// rule, in source order. Declarations after a nested rule open a new rule with
// the same selector, and rules left without declarations are dropped.
func flattenRule(selector string, children []stylesheet.Node) []stylesheet.Node {
	var out []stylesheet.Node
	cur := &stylesheet.Rule{Selector: selector}
	flush := func() {
		if len(cur.Nodes) > 0 {
			out = append(out, cur)
			cur = &stylesheet.Rule{Selector: selector}
		}
	}

	for _, c := range children {
		switch c := c.(type) {
		case *stylesheet.Rule:
			flush()
			out = append(out, flattenRule(resolveNested(selector, c.Selector), c.Nodes)...)
		case *stylesheet.AtRule:
			switch {
			case c.Name == "nest" && c.Block:
				flush()
				out = append(out, flattenRule(resolveNested(selector, c.Params), c.Nodes)...)
			case conditionalGroups[c.Name] && c.Block:
				flush()
				inner := flattenRule(selector, c.Nodes)
				if len(inner) > 0 {
					out = append(out, &stylesheet.AtRule{Name: c.Name, Params: c.Params, Block: true, Nodes: inner})
				}
			default:
				cur.Nodes = append(cur.Nodes, c)
			}
		default:
			cur.Nodes = append(cur.Nodes, c)
		}
	}
	flush()
	return out
}

// resolveNested combines a parent and a nested selector list. Every nested
// selector is paired with every parent selector, nested selectors varying
// slowest. '&' stands for the parent; without it the nested selector is a
// descendant, and a leading combinator is relative to the parent.
func resolveNested(parent, nested string) string {
	parents := stylesheet.SplitList(parent, ',')
	var out []string
	for _, n := range stylesheet.SplitList(nested, ',') {
		for _, p := range parents {
			if strings.Contains(n, "&") {
				out = append(out, strings.ReplaceAll(n, "&", p))
				continue
			}
			out = append(out, p+" "+n)
		}
	}
	return stylesheet.JoinList(out)
}
