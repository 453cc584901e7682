package stages

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/lumen/internal/adapters/stylesheet"
)

var dimension = regexp.MustCompile(`^(-?[0-9]*\.?[0-9]+)([a-zA-Z%]*)$`)

// prependAlternatives inserts, before every media query for which alt
// returns a replacement, that replacement as an extra list item. Params are
// returned unchanged when nothing was added.
func prependAlternatives(params string, alt func(query string) (string, bool)) string {
	queries := stylesheet.SplitList(params, ',')
	out := make([]string, 0, len(queries))
	changed := false
	for _, q := range queries {
		if a, ok := alt(q); ok && !slices.Contains(queries, a) && !slices.Contains(out, a) {
			out = append(out, a)
			changed = true
		}
		out = append(out, q)
	}
	if !changed {
		return params
	}
	return stylesheet.JoinList(out)
}

// shiftDimension adds delta thousandths to a numeric value, keeping its unit.
func shiftDimension(v string, delta int64) (string, bool) {
	m := dimension.FindStringSubmatch(v)
	if m == nil {
		return "", false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "", false
	}
	return formatThousandths(int64(math.Round(f*1000))+delta) + m[2], true
}

// formatThousandths renders n/1000 without trailing zeros.
func formatThousandths(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	whole, frac := n/1000, n%1000
	if frac == 0 {
		return sign + strconv.FormatInt(whole, 10)
	}
	return sign + strconv.FormatInt(whole, 10) + "." + strings.TrimRight(fmt.Sprintf("%03d", frac), "0")
}
