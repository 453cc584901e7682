package stylesheet

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.trai.ch/zerr"
)

type token struct {
	tt     css.TokenType
	data   string
	offset int
}

type parser struct {
	name string
	src  []byte
	toks []token
	pos  int
}

// Parse builds the syntax tree of src. name identifies the source in errors.
//
// Syntax errors are *parse.Error values (line, column and the offending line)
// wrapped with the file name as metadata.
func Parse(name string, src []byte) (*Sheet, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to tokenize stylesheet"), "file", name)
	}

	p := &parser{name: name, src: src, toks: toks}
	nodes, err := p.block(-1)
	if err != nil {
		return nil, err
	}
	return &Sheet{Nodes: nodes}, nil
}

func tokenize(src []byte) ([]token, error) {
	in := parse.NewInputBytes(src)
	defer in.Restore()

	l := css.NewLexer(in)
	var toks []token
	offset := 0
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return toks, nil
		}
		toks = append(toks, token{tt: tt, data: string(data), offset: offset})
		offset += len(data)
	}
}

// block parses entries until the '}' matching the '{' at open, or until the
// end of input when open is negative.
func (p *parser) block(open int) ([]Node, error) {
	var nodes []Node
	for {
		p.skipWhitespace()
		if p.pos >= len(p.toks) {
			if open >= 0 {
				return nil, p.errorAt(open, "unclosed block")
			}
			return nodes, nil
		}

		t := p.toks[p.pos]
		switch t.tt {
		case css.RightBraceToken:
			if open < 0 {
				return nil, p.errorAt(t.offset, "unexpected '}'")
			}
			p.pos++
			return nodes, nil
		case css.SemicolonToken, css.CDOToken, css.CDCToken:
			p.pos++
		case css.CommentToken:
			p.pos++
			nodes = append(nodes, &Comment{Text: t.data})
		case css.AtKeywordToken:
			n, err := p.atRule()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		default:
			n, err := p.ruleOrDecl(open >= 0)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
	}
}

func (p *parser) atRule() (Node, error) {
	kw := p.toks[p.pos]
	p.pos++

	toks, term, err := p.prelude()
	if err != nil {
		return nil, err
	}

	at := &AtRule{
		Name:   strings.ToLower(strings.TrimPrefix(kw.data, "@")),
		Params: text(toks),
	}
	if term == nil {
		return at, nil
	}
	switch term.tt {
	case css.SemicolonToken:
		p.pos++
	case css.LeftBraceToken:
		p.pos++
		children, err := p.block(term.offset)
		if err != nil {
			return nil, err
		}
		at.Block = true
		at.Nodes = children
	}
	return at, nil
}

func (p *parser) ruleOrDecl(nested bool) (Node, error) {
	start := p.toks[p.pos].offset

	toks, term, err := p.prelude()
	if err != nil {
		return nil, err
	}

	if term != nil && term.tt == css.LeftBraceToken {
		sel := JoinList(SplitList(text(toks), ','))
		if sel == "" {
			return nil, p.errorAt(term.offset, "missing selector")
		}
		p.pos++
		children, err := p.block(term.offset)
		if err != nil {
			return nil, err
		}
		return &Rule{Selector: sel, Nodes: children}, nil
	}

	if !nested {
		return nil, p.errorAt(start, "selector without a block")
	}
	if term != nil && term.tt == css.SemicolonToken {
		p.pos++
	}
	return p.decl(toks, start)
}

func (p *parser) decl(toks []token, start int) (Node, error) {
	colon := -1
	for i, t := range toks {
		if t.tt == css.ColonToken {
			colon = i
			break
		}
	}
	if colon < 0 {
		return nil, p.errorAt(start, "missing ':' in declaration")
	}

	prop := text(toks[:colon])
	if prop == "" || strings.ContainsAny(prop, " \t\n") {
		return nil, p.errorAt(start, "invalid property name %q", prop)
	}

	d := &Decl{Prop: prop}
	if !d.IsCustom() {
		d.Prop = strings.ToLower(prop)
	}

	rest := toks[colon+1:]
	rest, d.Important = stripImportant(rest)
	d.Value = text(rest)
	if d.Value == "" && !d.IsCustom() {
		return nil, p.errorAt(toks[colon].offset, "empty value for %q", d.Prop)
	}
	return d, nil
}

// prelude collects tokens up to the next ';' at depth zero, '{' or '}'. The
// terminator is not consumed and is nil at the end of input.
func (p *parser) prelude() ([]token, *token, error) {
	start := p.pos
	depth := 0
	for ; p.pos < len(p.toks); p.pos++ {
		t := &p.toks[p.pos]
		switch t.tt {
		case css.BadStringToken:
			return nil, nil, p.errorAt(t.offset, "unterminated string")
		case css.BadURLToken:
			return nil, nil, p.errorAt(t.offset, "malformed url")
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.SemicolonToken:
			if depth == 0 {
				return p.toks[start:p.pos], t, nil
			}
		case css.LeftBraceToken, css.RightBraceToken:
			return p.toks[start:p.pos], t, nil
		}
	}
	return p.toks[start:], nil, nil
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.toks) && p.toks[p.pos].tt == css.WhitespaceToken {
		p.pos++
	}
}

func (p *parser) errorAt(offset int, msg string, args ...any) error {
	perr := parse.NewError(bytes.NewReader(p.src), offset, msg, args...)
	return zerr.With(zerr.Wrap(perr, "invalid stylesheet"), "file", p.name)
}

// stripImportant removes a trailing "!important" and reports whether it was there.
func stripImportant(toks []token) ([]token, bool) {
	end := lastSignificant(toks, len(toks))
	if end < 0 || toks[end].tt != css.IdentToken || !strings.EqualFold(toks[end].data, "important") {
		return toks, false
	}
	bang := lastSignificant(toks, end)
	if bang < 0 || toks[bang].tt != css.DelimToken || toks[bang].data != "!" {
		return toks, false
	}
	return toks[:bang], true
}

func lastSignificant(toks []token, before int) int {
	for i := before - 1; i >= 0; i-- {
		if toks[i].tt != css.WhitespaceToken && toks[i].tt != css.CommentToken {
			return i
		}
	}
	return -1
}

// text joins token data, collapsing whitespace runs to one space and dropping
// comments.
func text(toks []token) string {
	var sb strings.Builder
	space := false
	for _, t := range toks {
		switch t.tt {
		case css.WhitespaceToken, css.CommentToken:
			space = true
		default:
			if space && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			space = false
			sb.WriteString(t.data)
		}
	}
	return sb.String()
}
