package stages

import (
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/lumen/internal/adapters/stylesheet"
)

var customMediaRef = regexp.MustCompile(`\(\s*(--[A-Za-z0-9_-]+)\s*\)`)

type customMedia struct {
	preserve bool
}

func newCustomMedia(opts options) (rewriter, error) {
	preserve, err := opts.boolean("preserve", false)
	if err != nil {
		return nil, err
	}
	c := &customMedia{preserve: preserve}
	return c.apply, nil
}

func (c *customMedia) apply(sheet *stylesheet.Sheet) {
	defs := make(map[string]string)
	kept := sheet.Nodes[:0]
	for _, n := range sheet.Nodes {
		at, ok := n.(*stylesheet.AtRule)
		if !ok || at.Name != "custom-media" || at.Block {
			kept = append(kept, n)
			continue
		}
		name, query, found := strings.Cut(at.Params, " ")
		if found && strings.HasPrefix(name, "--") {
			defs[name] = strings.TrimSpace(query)
		}
		if c.preserve {
			kept = append(kept, n)
		}
	}
	sheet.Nodes = kept
	if len(defs) == 0 {
		return
	}

	r := &mediaResolver{defs: defs}
	sheet.Nodes = stylesheet.Rewrite(sheet.Nodes, func(n stylesheet.Node) []stylesheet.Node {
		if at, ok := n.(*stylesheet.AtRule); ok && at.Name == "media" {
			at.Params = r.expandList(at.Params, nil)
		}
		return []stylesheet.Node{n}
	})
}

type mediaResolver struct {
	defs map[string]string
}

// expandList substitutes every known (--name) in a media query list. visiting
// holds the names being expanded so cycles are left unresolved.
func (r *mediaResolver) expandList(list string, visiting []string) string {
	if !customMediaRef.MatchString(list) {
		return list
	}
	var out []string
	for _, q := range stylesheet.SplitList(list, ',') {
		out = append(out, r.expandQuery(q, 0, visiting)...)
	}
	return stylesheet.JoinList(out)
}

// expandQuery resolves the first substitutable reference at or after from.
// A definition that is itself a list multiplies the query.
func (r *mediaResolver) expandQuery(q string, from int, visiting []string) []string {
	for _, m := range customMediaRef.FindAllStringSubmatchIndex(q[from:], -1) {
		start, end := from+m[0], from+m[1]
		name := q[from+m[2] : from+m[3]]
		def, ok := r.defs[name]
		if !ok || slices.Contains(visiting, name) {
			continue
		}

		var out []string
		for _, alt := range stylesheet.SplitList(r.expandList(def, append(slices.Clone(visiting), name)), ',') {
			next := q[:start] + alt + q[end:]
			out = append(out, r.expandQuery(next, start+len(alt), visiting)...)
		}
		return out
	}
	return []string{q}
}
