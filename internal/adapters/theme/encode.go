package theme

import (
	"bytes"
	"encoding/json"
	"strings"

	"go.trai.ch/lumen/internal/adapters/stylesheet"
	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSS  = "css"
)

// Formats returns the supported export formats.
func Formats() []string {
	return []string{FormatJSON, FormatYAML, FormatCSS}
}

// Encode renders t in the given format.
func Encode(format string, t *domain.Theme) ([]byte, error) {
	switch format {
	case FormatJSON:
		return EncodeJSON(t)
	case FormatYAML:
		return EncodeYAML(t)
	case FormatCSS:
		return EncodeCSS(t), nil
	default:
		return nil, zerr.With(domain.ErrUnknownFormat, "format", format)
	}
}

// EncodeJSON renders the table as a generator configuration object:
// {"theme": {...}, "variants": {}, "plugins": []}. Keys keep declaration order.
func EncodeJSON(t *domain.Theme) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"theme":{`)

	buf.WriteString(`"` + domain.CategoryMaxWidth + `":`)
	if err := writeJSONSet(&buf, t.MaxWidth); err != nil {
		return nil, err
	}
	buf.WriteString(`,"` + domain.CategoryFontFamily + `":`)
	if err := writeJSONSet(&buf, t.FontFamily); err != nil {
		return nil, err
	}
	buf.WriteString(`,"` + domain.CategoryColors + `":`)
	if err := writeJSONSet(&buf, t.Colors); err != nil {
		return nil, err
	}

	extend, err := json.Marshal(t.Extend)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode extend")
	}
	buf.WriteString(`,"extend":`)
	buf.Write(extend)
	buf.WriteString(`},"variants":{},"plugins":[]}`)

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, zerr.Wrap(err, "failed to indent json")
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeJSONSet[V any](buf *bytes.Buffer, set domain.TokenSet[V]) error {
	buf.WriteByte('{')
	first := true
	for key, value := range set.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		k, err := json.Marshal(key)
		if err != nil {
			return zerr.Wrap(err, "failed to encode token key")
		}
		v, err := json.Marshal(value)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to encode token value"), "key", key)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return nil
}

// EncodeYAML renders the same document as EncodeJSON in YAML. Token
// descriptions become line comments.
func EncodeYAML(t *domain.Theme) ([]byte, error) {
	extend := &yaml.Node{}
	if err := extend.Encode(t.Extend); err != nil {
		return nil, zerr.Wrap(err, "failed to encode extend")
	}
	if len(t.Extend) == 0 {
		extend = &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	}

	themeNode := mapping(
		scalar(domain.CategoryMaxWidth), yamlSet(t.MaxWidth, func(v string) *yaml.Node { return scalar(v) }),
		scalar(domain.CategoryFontFamily), yamlSet(t.FontFamily, fontNode),
		scalar(domain.CategoryColors), yamlSet(t.Colors, func(v string) *yaml.Node { return scalar(v) }),
		scalar("extend"), extend,
	)
	doc := mapping(
		scalar("theme"), themeNode,
		scalar("variants"), &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle},
		scalar("plugins"), &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle},
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, zerr.Wrap(err, "failed to encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to encode yaml")
	}
	return buf.Bytes(), nil
}

func yamlSet[V any](set domain.TokenSet[V], node func(V) *yaml.Node) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, token := range set.Entries() {
		value := node(token.Value)
		value.LineComment = token.Description
		m.Content = append(m.Content, scalar(token.Key), value)
	}
	return m
}

func fontNode(stack []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, font := range stack {
		seq.Content = append(seq.Content, scalar(font))
	}
	return seq
}

func mapping(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: content}
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// EncodeCSS renders the table as custom properties on :root:
// --color-<key>, --max-width-<key> and --font-<key>.
func EncodeCSS(t *domain.Theme) []byte {
	root := &stylesheet.Rule{Selector: ":root"}
	for key, value := range t.Colors.All() {
		root.Nodes = append(root.Nodes, &stylesheet.Decl{Prop: "--color-" + key, Value: value})
	}
	for key, value := range t.MaxWidth.All() {
		root.Nodes = append(root.Nodes, &stylesheet.Decl{Prop: "--max-width-" + key, Value: value})
	}
	for key, stack := range t.FontFamily.All() {
		root.Nodes = append(root.Nodes, &stylesheet.Decl{Prop: "--font-" + key, Value: strings.Join(stack, ", ")})
	}
	return stylesheet.Print(&stylesheet.Sheet{Nodes: []stylesheet.Node{root}})
}
