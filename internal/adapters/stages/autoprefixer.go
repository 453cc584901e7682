package stages

import (
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/lumen/internal/adapters/stylesheet"
)

// propertyPrefixes lists the vendor prefixes still needed per property.
var propertyPrefixes = map[string][]string{
	"user-select":          {"-webkit-", "-moz-", "-ms-"},
	"appearance":           {"-webkit-", "-moz-"},
	"backdrop-filter":      {"-webkit-"},
	"text-size-adjust":     {"-webkit-", "-moz-", "-ms-"},
	"hyphens":              {"-webkit-", "-ms-"},
	"tab-size":             {"-moz-"},
	"mask-image":           {"-webkit-"},
	"clip-path":            {"-webkit-"},
	"box-decoration-break": {"-webkit-"},
}

var vendorPrefixes = []string{"-webkit-", "-moz-", "-ms-", "-o-"}

var selectorPrefixes = []struct {
	pseudo   string
	variants []string
}{
	{"::placeholder", []string{"::-webkit-input-placeholder", "::-moz-placeholder"}},
	{":fullscreen", []string{":-webkit-full-screen"}},
}

var resolutionFeature = regexp.MustCompile(`\((min|max)-resolution:\s*([0-9]*\.?[0-9]+)(?:dppx|x)\)`)

type autoprefixer struct {
	remove bool
}

func newAutoprefixer(opts options) (rewriter, error) {
	remove, err := opts.boolean("remove", true)
	if err != nil {
		return nil, err
	}
	a := &autoprefixer{remove: remove}
	return a.apply, nil
}

func (a *autoprefixer) apply(sheet *stylesheet.Sheet) {
	sheet.Nodes = a.block(sheet.Nodes)
}

func (a *autoprefixer) block(nodes []stylesheet.Node) []stylesheet.Node {
	present := make(map[string]bool)
	siblings := make(map[string]bool)
	for _, n := range nodes {
		switch n := n.(type) {
		case *stylesheet.Decl:
			present[n.Prop] = true
			present[n.Prop+":"+n.Value] = true
		case *stylesheet.Rule:
			siblings[n.Selector] = true
		}
	}

	out := make([]stylesheet.Node, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *stylesheet.Decl:
			out = append(out, a.decl(n, present)...)
		case *stylesheet.Rule:
			n.Nodes = a.block(n.Nodes)
			out = append(out, selectorClones(n, siblings)...)
			out = append(out, n)
		case *stylesheet.AtRule:
			if n.Name == "media" {
				n.Params = prefixResolution(n.Params)
			}
			if n.Block {
				n.Nodes = a.block(n.Nodes)
			}
			out = append(out, n)
		default:
			out = append(out, n)
		}
	}
	return out
}

func (a *autoprefixer) decl(d *stylesheet.Decl, present map[string]bool) []stylesheet.Node {
	if a.remove && outdated(d.Prop, present) {
		return nil
	}

	var out []stylesheet.Node
	for _, p := range propertyPrefixes[d.Prop] {
		if !present[p+d.Prop] {
			out = append(out, &stylesheet.Decl{Prop: p + d.Prop, Value: d.Value, Important: d.Important})
		}
	}
	if d.Prop == "position" && strings.EqualFold(d.Value, "sticky") && !present["position:-webkit-sticky"] {
		out = append(out, &stylesheet.Decl{Prop: "position", Value: "-webkit-sticky", Important: d.Important})
	}
	return append(out, d)
}

// outdated reports whether prop carries a vendor prefix that is no longer
// needed while the unprefixed property is declared alongside it.
func outdated(prop string, present map[string]bool) bool {
	for _, vp := range vendorPrefixes {
		base, ok := strings.CutPrefix(prop, vp)
		if !ok {
			continue
		}
		return present[base] && !slices.Contains(propertyPrefixes[base], vp)
	}
	return false
}

func selectorClones(rule *stylesheet.Rule, siblings map[string]bool) []stylesheet.Node {
	var out []stylesheet.Node
	for _, sp := range selectorPrefixes {
		if !strings.Contains(rule.Selector, sp.pseudo) {
			continue
		}
		for _, v := range sp.variants {
			sel := strings.ReplaceAll(rule.Selector, sp.pseudo, v)
			if siblings[sel] {
				continue
			}
			clone := rule.Clone().(*stylesheet.Rule)
			clone.Selector = sel
			out = append(out, clone)
		}
	}
	return out
}

// prefixResolution adds a -webkit-device-pixel-ratio alternative before each
// media query that tests resolution in dppx.
func prefixResolution(params string) string {
	return prependAlternatives(params, func(q string) (string, bool) {
		m := resolutionFeature.FindStringSubmatchIndex(q)
		if m == nil {
			return "", false
		}
		return q[:m[0]] + "(-webkit-" + q[m[2]:m[3]] + "-device-pixel-ratio: " + q[m[4]:m[5]] + ")" + q[m[1]:], true
	})
}
