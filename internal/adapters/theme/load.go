package theme

import (
	"os"
	"strings"

	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML token file and returns the table it describes.
// Categories the file omits are empty.
func LoadFile(path string) (*domain.Theme, error) {
	//nolint:gosec // Path is the token file named by the project configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrThemeReadFailed.Error()), "file", path)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "file", path)
	}
	return t, nil
}

// Parse decodes a token document of the form
//
//	theme:
//	  maxWidth: {name: length}
//	  fontFamily: {name: [font, ...]}
//	  colors: {name: color}
//	  extend: {}
//
// A key declared twice within a category fails with domain.ErrDuplicateToken.
func Parse(data []byte) (*domain.Theme, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrThemeParseFailed.Error())
	}

	t := &domain.Theme{Extend: map[string]any{}}
	root := documentMapping(&doc)
	if root == nil {
		return t, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, parseError(root, "token file must be a mapping")
	}

	themeNode := mappingValue(root, "theme")
	if themeNode == nil {
		return t, nil
	}
	if themeNode.Kind != yaml.MappingNode {
		return nil, parseError(themeNode, "theme must be a mapping")
	}

	for i := 0; i+1 < len(themeNode.Content); i += 2 {
		key, value := themeNode.Content[i], themeNode.Content[i+1]
		var err error
		switch key.Value {
		case domain.CategoryMaxWidth:
			t.MaxWidth, err = stringSet(key.Value, value)
		case domain.CategoryColors:
			t.Colors, err = stringSet(key.Value, value)
		case domain.CategoryFontFamily:
			t.FontFamily, err = fontSet(value)
		case "extend":
			err = value.Decode(&t.Extend)
			if err != nil {
				err = zerr.Wrap(err, domain.ErrThemeParseFailed.Error())
			}
		default:
			err = zerr.With(parseError(key, "unknown token category"), "category", key.Value)
		}
		if err != nil {
			return nil, err
		}
	}

	if t.Extend == nil {
		t.Extend = map[string]any{}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func documentMapping(doc *yaml.Node) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	return doc.Content[0]
}

// mappingValue returns the last value for key, matching how later keys shadow
// earlier ones elsewhere in the table.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	var found *yaml.Node
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			found = m.Content[i+1]
		}
	}
	return found
}

func stringSet(category string, n *yaml.Node) (domain.TokenSet[string], error) {
	if n.Kind != yaml.MappingNode {
		return domain.TokenSet[string]{}, zerr.With(parseError(n, "category must be a mapping"), "category", category)
	}
	tokens := make([]domain.Token[string], 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return domain.TokenSet[string]{}, zerr.With(parseError(value, "token value must be a string"), "key", key.Value)
		}
		tokens = append(tokens, domain.Token[string]{
			Key:         key.Value,
			Value:       value.Value,
			Description: comment(key, value),
		})
	}
	return domain.NewTokenSet(tokens...), nil
}

func fontSet(n *yaml.Node) (domain.TokenSet[[]string], error) {
	if n.Kind != yaml.MappingNode {
		return domain.TokenSet[[]string]{}, zerr.With(parseError(n, "category must be a mapping"), "category", domain.CategoryFontFamily)
	}
	tokens := make([]domain.Token[[]string], 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		var stack []string
		switch value.Kind {
		case yaml.ScalarNode:
			stack = []string{value.Value}
		case yaml.SequenceNode:
			if err := value.Decode(&stack); err != nil {
				return domain.TokenSet[[]string]{}, zerr.With(zerr.Wrap(err, domain.ErrThemeParseFailed.Error()), "key", key.Value)
			}
		default:
			return domain.TokenSet[[]string]{}, zerr.With(parseError(value, "font stack must be a list"), "key", key.Value)
		}
		tokens = append(tokens, domain.Token[[]string]{Key: key.Value, Value: stack, Description: comment(key, value)})
	}
	return domain.NewTokenSet(tokens...), nil
}

func comment(key, value *yaml.Node) string {
	for _, c := range []string{value.LineComment, key.LineComment, key.HeadComment} {
		if c != "" {
			return trimComment(c)
		}
	}
	return ""
}

// trimComment keeps the first line of a YAML comment without its marker.
func trimComment(c string) string {
	line, _, _ := strings.Cut(c, "\n")
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}

func parseError(n *yaml.Node, msg string) error {
	err := zerr.With(zerr.Wrap(zerr.New(msg), domain.ErrThemeParseFailed.Error()), "line", n.Line)
	return zerr.With(err, "column", n.Column)
}
