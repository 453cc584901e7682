// Package stylesheet parses CSS into a small syntax tree and prints it back in
// a canonical layout. Rules may nest anywhere a declaration is allowed, so the
// tree can hold sources written for the nesting transform.
package stylesheet

import "strings"

// Node is one entry of a block: *Rule, *AtRule, *Decl or *Comment.
type Node interface {
	Clone() Node
}

// Sheet is a parsed stylesheet.
type Sheet struct {
	Nodes []Node
}

// Rule is a qualified rule. Selector is normalized: whitespace collapsed and
// list items joined with ", ".
type Rule struct {
	Selector string
	Nodes    []Node
}

// AtRule is an at-rule. Name is lower-case without the '@'. Block is false
// for statements such as @import.
type AtRule struct {
	Name   string
	Params string
	Block  bool
	Nodes  []Node
}

// Decl is a declaration. Prop is lower-case unless it is a custom property.
type Decl struct {
	Prop      string
	Value     string
	Important bool
}

// Comment keeps a comment verbatim, delimiters included.
type Comment struct {
	Text string
}

// Clone returns a deep copy of the sheet.
func (s *Sheet) Clone() *Sheet {
	return &Sheet{Nodes: CloneNodes(s.Nodes)}
}

// Clone implements Node.
func (r *Rule) Clone() Node {
	return &Rule{Selector: r.Selector, Nodes: CloneNodes(r.Nodes)}
}

// Selectors returns the items of the selector list.
func (r *Rule) Selectors() []string {
	return SplitList(r.Selector, ',')
}

// Clone implements Node.
func (a *AtRule) Clone() Node {
	return &AtRule{Name: a.Name, Params: a.Params, Block: a.Block, Nodes: CloneNodes(a.Nodes)}
}

// Clone implements Node.
func (d *Decl) Clone() Node {
	c := *d
	return &c
}

// IsCustom reports whether d declares a custom property.
func (d *Decl) IsCustom() bool {
	return strings.HasPrefix(d.Prop, "--")
}

// Clone implements Node.
func (c *Comment) Clone() Node {
	cc := *c
	return &cc
}

// CloneNodes deep-copies a node list.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// Rewrite replaces every node with the nodes fn returns for it. Blocks are
// rewritten before fn sees their parent.
func Rewrite(nodes []Node, fn func(Node) []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *Rule:
			n.Nodes = Rewrite(n.Nodes, fn)
		case *AtRule:
			if n.Block {
				n.Nodes = Rewrite(n.Nodes, fn)
			}
		}
		out = append(out, fn(n)...)
	}
	return out
}

// Decls returns the declarations of a block that are direct children.
func Decls(nodes []Node) []*Decl {
	var out []*Decl
	for _, n := range nodes {
		if d, ok := n.(*Decl); ok {
			out = append(out, d)
		}
	}
	return out
}
