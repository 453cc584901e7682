package stages

import (
	"regexp"
	"strconv"
	"strings"

	"go.trai.ch/lumen/internal/adapters/stylesheet"
)

// Feature names accepted in the "features" option.
const (
	FeatureGapProperties           = "gap-properties"
	FeatureMediaQueryRanges        = "media-query-ranges"
	FeatureColorFunctionalNotation = "color-functional-notation"
	FeatureHexadecimalAlpha        = "hexadecimal-alpha-notation"
	FeatureAnyLinkPseudoClass      = "any-link-pseudo-class"
	FeaturePlaceProperties         = "place-properties"
	FeatureOverflowProperty        = "overflow-property"
	FeaturePrefersColorScheme      = "prefers-color-scheme-query"
)

const (
	defaultEnvStage = 2
	maxEnvStage     = 4
)

// envFeatures maps each feature to its standardization stage. A feature is
// enabled when its stage is at least the configured one.
var envFeatures = map[string]int{
	FeatureGapProperties:           3,
	FeatureMediaQueryRanges:        3,
	FeatureColorFunctionalNotation: 2,
	FeatureHexadecimalAlpha:        2,
	FeatureAnyLinkPseudoClass:      2,
	FeaturePlaceProperties:         2,
	FeatureOverflowProperty:        2,
	FeaturePrefersColorScheme:      1,
}

var (
	mediaGroup   = regexp.MustCompile(`\(([^()]*)\)`)
	rangeTwo     = regexp.MustCompile(`^\s*([^\s<>=]+)\s*(<=|>=|<|>|=)\s*([^\s<>=]+)\s*$`)
	rangeThree   = regexp.MustCompile(`^\s*([^\s<>=]+)\s*(<=|<|>=|>)\s*([^\s<>=]+)\s*(<=|<|>=|>)\s*([^\s<>=]+)\s*$`)
	featureName  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z-]*$`)
	colorScheme  = regexp.MustCompile(`\(\s*prefers-color-scheme\s*:\s*(dark|light)\s*\)`)
	colorFunc    = regexp.MustCompile(`(?i)\b(rgba?|hsla?)\(([^()]*)\)`)
	hexWithAlpha = regexp.MustCompile(`#([0-9a-fA-F]{8}|[0-9a-fA-F]{4})\b`)
)

var gapFallbacks = map[string]string{
	"gap":        "grid-gap",
	"row-gap":    "grid-row-gap",
	"column-gap": "grid-column-gap",
}

var placeProperties = map[string]string{
	"place-content": "content",
	"place-items":   "items",
	"place-self":    "self",
}

type presetEnv struct {
	enabled map[string]bool
}

func newPresetEnv(opts options) (rewriter, error) {
	stage, err := opts.integer("stage", defaultEnvStage)
	if err != nil {
		return nil, err
	}
	if stage < 0 || stage > maxEnvStage {
		return nil, opts.invalid("stage", stage)
	}
	overrides, err := opts.flags("features")
	if err != nil {
		return nil, err
	}

	p := &presetEnv{enabled: make(map[string]bool, len(envFeatures))}
	for name, s := range envFeatures {
		p.enabled[name] = s >= stage
	}
	for name, on := range overrides {
		if _, known := envFeatures[name]; known {
			p.enabled[name] = on
		}
	}
	return p.apply, nil
}

func (p *presetEnv) apply(sheet *stylesheet.Sheet) {
	sheet.Nodes = p.block(sheet.Nodes)
}

func (p *presetEnv) block(nodes []stylesheet.Node) []stylesheet.Node {
	present := make(map[string]bool)
	for _, d := range stylesheet.Decls(nodes) {
		present[d.Prop] = true
	}

	out := make([]stylesheet.Node, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *stylesheet.Decl:
			out = append(out, p.decl(n, present)...)
		case *stylesheet.Rule:
			if p.enabled[FeatureAnyLinkPseudoClass] {
				n.Selector = anyLink(n.Selector)
			}
			n.Nodes = p.block(n.Nodes)
			out = append(out, n)
		case *stylesheet.AtRule:
			if n.Name == "media" || n.Name == "custom-media" {
				n.Params = p.media(n.Params, n.Name == "media")
			}
			if n.Block {
				n.Nodes = p.block(n.Nodes)
			}
			out = append(out, n)
		default:
			out = append(out, n)
		}
	}
	return out
}

func (p *presetEnv) media(params string, isMedia bool) string {
	if p.enabled[FeatureMediaQueryRanges] {
		params = mediaGroup.ReplaceAllStringFunc(params, rangeToMinMax)
	}
	if isMedia && p.enabled[FeaturePrefersColorScheme] {
		params = prependAlternatives(params, colorIndexQuery)
	}
	return params
}

func (p *presetEnv) decl(d *stylesheet.Decl, present map[string]bool) []stylesheet.Node {
	if p.enabled[FeatureColorFunctionalNotation] {
		d.Value = colorFunc.ReplaceAllStringFunc(d.Value, legacyColorFunc)
	}
	if p.enabled[FeatureHexadecimalAlpha] && !strings.Contains(d.Value, "url(") {
		d.Value = hexWithAlpha.ReplaceAllStringFunc(d.Value, hexToRGBA)
	}

	var before []*stylesheet.Decl
	if p.enabled[FeatureGapProperties] {
		if legacy, ok := gapFallbacks[d.Prop]; ok {
			before = append(before, &stylesheet.Decl{Prop: legacy, Value: d.Value})
		}
	}
	if p.enabled[FeaturePlaceProperties] {
		before = append(before, placeLonghands(d)...)
	}
	if p.enabled[FeatureOverflowProperty] && d.Prop == "overflow" {
		if vals := stylesheet.SplitList(d.Value, ' '); len(vals) == 2 {
			before = append(before,
				&stylesheet.Decl{Prop: "overflow-x", Value: vals[0]},
				&stylesheet.Decl{Prop: "overflow-y", Value: vals[1]},
			)
		}
	}

	out := make([]stylesheet.Node, 0, len(before)+1)
	for _, b := range before {
		if present[b.Prop] {
			continue
		}
		b.Important = d.Important
		out = append(out, b)
	}
	return append(out, d)
}

func placeLonghands(d *stylesheet.Decl) []*stylesheet.Decl {
	suffix, ok := placeProperties[d.Prop]
	if !ok {
		return nil
	}
	vals := stylesheet.SplitList(d.Value, ' ')
	switch len(vals) {
	case 1:
		vals = append(vals, vals[0])
	case 2:
	default:
		return nil
	}
	return []*stylesheet.Decl{
		{Prop: "align-" + suffix, Value: vals[0]},
		{Prop: "justify-" + suffix, Value: vals[1]},
	}
}

// rangeToMinMax rewrites one parenthesized media feature written in range
// syntax into min-/max- features. Anything else is returned unchanged.
func rangeToMinMax(group string) string {
	inner := group[1 : len(group)-1]

	if m := rangeThree.FindStringSubmatch(inner); m != nil {
		low, op1, name, op2, high := m[1], m[2], m[3], m[4], m[5]
		if !featureName.MatchString(name) || featureName.MatchString(low) || featureName.MatchString(high) {
			return group
		}
		switch {
		case isLess(op1) && isLess(op2):
			a, ok1 := bound("min", name, low, op1 == "<")
			b, ok2 := bound("max", name, high, op2 == "<")
			if ok1 && ok2 {
				return a + " and " + b
			}
		case !isLess(op1) && !isLess(op2):
			a, ok1 := bound("max", name, low, op1 == ">")
			b, ok2 := bound("min", name, high, op2 == ">")
			if ok1 && ok2 {
				return a + " and " + b
			}
		}
		return group
	}

	m := rangeTwo.FindStringSubmatch(inner)
	if m == nil {
		return group
	}
	name, op, value := m[1], m[2], m[3]
	switch {
	case featureName.MatchString(name) && !featureName.MatchString(value):
	case featureName.MatchString(value) && !featureName.MatchString(name):
		name, value, op = value, name, mirror(op)
	default:
		return group
	}

	var (
		out string
		ok  = true
	)
	switch op {
	case ">=":
		out, ok = bound("min", name, value, false)
	case ">":
		out, ok = bound("min", name, value, true)
	case "<=":
		out, ok = bound("max", name, value, false)
	case "<":
		out, ok = bound("max", name, value, true)
	case "=":
		out = "(" + name + ": " + value + ")"
	}
	if !ok {
		return group
	}
	return out
}

// bound renders a min-/max- feature. Strict bounds move the value by one
// thousandth toward the inside of the range.
func bound(kind, name, value string, strict bool) (string, bool) {
	if strict {
		delta := int64(1)
		if kind == "max" {
			delta = -1
		}
		shifted, ok := shiftDimension(value, delta)
		if !ok {
			return "", false
		}
		value = shifted
	}
	return "(" + kind + "-" + name + ": " + value + ")", true
}

func isLess(op string) bool {
	return op == "<" || op == "<="
}

func mirror(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	}
	return op
}

func colorIndexQuery(q string) (string, bool) {
	m := colorScheme.FindStringSubmatchIndex(q)
	if m == nil {
		return "", false
	}
	index := "70"
	if q[m[2]:m[3]] == "dark" {
		index = "48"
	}
	return q[:m[0]] + "(color-index: " + index + ")" + q[m[1]:], true
}

// legacyColorFunc rewrites space separated rgb()/hsl() into the comma form.
func legacyColorFunc(fn string) string {
	m := colorFunc.FindStringSubmatch(fn)
	name, args := strings.ToLower(m[1]), m[2]
	if strings.Contains(args, ",") {
		return fn
	}

	color, alpha, hasAlpha := strings.Cut(args, "/")
	comps := strings.Fields(color)
	if len(comps) != 3 {
		return fn
	}
	alpha = strings.TrimSpace(alpha)
	if hasAlpha && (alpha == "" || strings.ContainsAny(alpha, " \t")) {
		return fn
	}

	base := strings.TrimSuffix(name, "a")
	if base == "hsl" {
		comps[0] = strings.TrimSuffix(strings.ToLower(comps[0]), "deg")
	}
	if !hasAlpha {
		return base + "(" + strings.Join(comps, ", ") + ")"
	}
	if pct, ok := strings.CutSuffix(alpha, "%"); ok {
		if shifted, ok := percentToFraction(pct); ok {
			alpha = shifted
		}
	}
	return base + "a(" + strings.Join(comps, ", ") + ", " + alpha + ")"
}

func percentToFraction(pct string) (string, bool) {
	f, err := strconv.ParseFloat(pct, 64)
	if err != nil {
		return "", false
	}
	return formatThousandths(int64(f * 10)), true
}

func hexToRGBA(hex string) string {
	digits := hex[1:]
	if len(digits) == 4 {
		digits = string([]byte{
			digits[0], digits[0], digits[1], digits[1],
			digits[2], digits[2], digits[3], digits[3],
		})
	}
	var c [4]int64
	for i := range c {
		v, err := strconv.ParseInt(digits[i*2:i*2+2], 16, 64)
		if err != nil {
			return hex
		}
		c[i] = v
	}
	alpha := formatThousandths((c[3]*1000*2 + 255) / (255 * 2))
	return "rgba(" + strconv.FormatInt(c[0], 10) + ", " + strconv.FormatInt(c[1], 10) + ", " +
		strconv.FormatInt(c[2], 10) + ", " + alpha + ")"
}

// anyLink expands :any-link into :link and :visited.
func anyLink(selector string) string {
	if !strings.Contains(selector, ":any-link") {
		return selector
	}
	var out []string
	for _, s := range stylesheet.SplitList(selector, ',') {
		if !strings.Contains(s, ":any-link") {
			out = append(out, s)
			continue
		}
		out = append(out,
			strings.ReplaceAll(s, ":any-link", ":link"),
			strings.ReplaceAll(s, ":any-link", ":visited"),
		)
	}
	return stylesheet.JoinList(out)
}
