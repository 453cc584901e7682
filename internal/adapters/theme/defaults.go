// Package theme provides the design-token table: the built-in defaults, a
// YAML token-file loader, a hot-swappable provider and exporters.
package theme

import (
	"strconv"
	"sync"

	"go.trai.ch/lumen/internal/core/domain"
)

// Default returns the built-in token table. It is built once and shared; callers
// must treat it as read-only.
var Default = sync.OnceValue(func() *domain.Theme {
	return &domain.Theme{
		MaxWidth:   domain.NewTokenSet(defaultMaxWidth()...),
		FontFamily: domain.NewTokenSet(defaultFontFamily()...),
		Colors:     domain.NewTokenSet(defaultColors()...),
		Extend:     map[string]any{},
	}
})

func defaultMaxWidth() []domain.Token[string] {
	return []domain.Token[string]{
		{Key: "xs", Value: "20rem"},
		{Key: "sm", Value: "24rem"},
		{Key: "md", Value: "28rem"},
		{Key: "lg", Value: "30rem"},
		{Key: "xl", Value: "34rem"},
		{Key: "2xl", Value: "42rem"},
		{Key: "3xl", Value: "48rem"},
		{Key: "4xl", Value: "56rem"},
		{Key: "5xl", Value: "64rem"},
		{Key: "6xl", Value: "72rem"},
		{Key: "full", Value: "100%"},
	}
}

func defaultFontFamily() []domain.Token[[]string] {
	return []domain.Token[[]string]{
		{Key: "sans", Value: []string{`"Untitled Sans"`, "sans-serif"}},
		{Key: "serif", Value: []string{`"Tiempos Text"`, "serif"}},
		{Key: "mono", Value: []string{`"Pitch Sans"`, "monospace"}},
		{Key: "headline", Value: []string{`"Adieu"`}},
	}
}

func defaultColors() []domain.Token[string] {
	colors := []domain.Token[string]{
		{Key: "indigo", Value: "#5c6ac4"},
		{Key: "blue", Value: "#007ace"},
		{Key: "red", Value: "#de3618"},
	}

	colors = append(colors, ramp("gray", "warm gray",
		"#F7F7F7", "#E1E1E1", "#CFCFCF", "#B1B1B1", "#9E9E9E", "#7E7E7E",
		"#626262", "#515151", "#3B3B3B", "#222222", "#1b1b1b")...)
	colors = append(colors, ramp("blue", "blue vivid",
		"#E6F6FF", "#BAE3FF", "#7CC4FA", "#47A3F3", "#2186EB",
		"#0967D2", "#0552B5", "#03449E", "#01337D", "#002159")...)
	colors = append(colors, ramp("teal", "teal",
		"#EFFCF6", "#C6F7E2", "#8EEDC7", "#65D6AD", "#3EBD93",
		"#27AB83", "#199473", "#147D64", "#0C6B58", "#014D40")...)
	colors = append(colors, ramp("pink", "pink vivid",
		"#FFE3EC", "#FFB8D2", "#FF8CBA", "#F364A2", "#E8368F",
		"#DA127D", "#BC0A6F", "#A30664", "#870557", "#620042")...)
	colors = append(colors, ramp("yellow", "yellow vivid",
		"#FFFBEA", "#FFF3C4", "#FCE588", "#FADB5F", "#F7C948",
		"#F0B429", "#DE911D", "#CB6E17", "#B44D12", "#8D2B0B")...)

	// Nord palette.
	return append(colors,
		domain.Token[string]{Key: "nord0-dark", Value: "#252a35", Description: "Polar Night: darker base"},
		domain.Token[string]{Key: "nord0", Value: "#2e3440", Description: "Polar Night: base component color"},
		domain.Token[string]{Key: "nord1", Value: "#3b4252", Description: "Polar Night: status bars"},
		domain.Token[string]{Key: "nord2", Value: "#434c5e", Description: "Polar Night: line highlighting, selection"},
		domain.Token[string]{Key: "nord3", Value: "#4c566a", Description: "Polar Night: comments, disabled elements"},
		domain.Token[string]{Key: "nord4", Value: "#d8dee9", Description: "Snow Storm: base component color"},
		domain.Token[string]{Key: "nord5", Value: "#e5e9f0", Description: "Snow Storm: status bars"},
		domain.Token[string]{Key: "nord6", Value: "#eceff4", Description: "Snow Storm: background, selection"},
		domain.Token[string]{Key: "nord7", Value: "#8fbcbb", Description: "Frost: classes, types"},
		domain.Token[string]{Key: "nord8", Value: "#88c0d0", Description: "Frost: accent color"},
		domain.Token[string]{Key: "nord9", Value: "#81a1c1", Description: "Frost: keywords, operators"},
		domain.Token[string]{Key: "nord10", Value: "#5e81ac", Description: "Frost: at-rules, imports"},
		domain.Token[string]{Key: "nord11", Value: "#bf616a", Description: "Aurora: errors, deletions"},
		domain.Token[string]{Key: "nord12", Value: "#d08770", Description: "Aurora: annotations"},
		domain.Token[string]{Key: "nord13", Value: "#ebcb8b", Description: "Aurora: warnings, renames"},
		domain.Token[string]{Key: "nord14", Value: "#a3be8c", Description: "Aurora: strings, additions"},
		domain.Token[string]{Key: "nord15", Value: "#b48ead", Description: "Aurora: numbers"},
	)
}

// ramp names values <name>-0, <name>-1, ... in order.
func ramp(name, description string, values ...string) []domain.Token[string] {
	tokens := make([]domain.Token[string], len(values))
	for i, v := range values {
		tokens[i] = domain.Token[string]{
			Key:         name + "-" + strconv.Itoa(i),
			Value:       v,
			Description: description,
		}
	}
	return tokens
}
