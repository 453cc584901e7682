package stylesheet

import (
	"bytes"
	"strings"
)

const indentUnit = "  "

// Print renders the sheet in canonical form: one declaration per line, two
// space indentation, and a blank line between top-level nodes. Equal trees
// always print to equal bytes.
func Print(s *Sheet) []byte {
	var b bytes.Buffer
	for i, n := range s.Nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		printNode(&b, n, 0)
	}
	return b.Bytes()
}

// String renders a single node at the top level.
func String(n Node) string {
	var b bytes.Buffer
	printNode(&b, n, 0)
	return b.String()
}

func printNode(b *bytes.Buffer, n Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	switch n := n.(type) {
	case *Decl:
		b.WriteString(indent)
		b.WriteString(n.Prop)
		b.WriteString(": ")
		b.WriteString(n.Value)
		if n.Important {
			b.WriteString(" !important")
		}
		b.WriteString(";\n")
	case *Comment:
		b.WriteString(indent)
		b.WriteString(n.Text)
		b.WriteByte('\n')
	case *Rule:
		printBlock(b, indent, n.Selector, n.Nodes, depth)
	case *AtRule:
		head := "@" + n.Name
		if n.Params != "" {
			head += " " + n.Params
		}
		if !n.Block {
			b.WriteString(indent)
			b.WriteString(head)
			b.WriteString(";\n")
			return
		}
		printBlock(b, indent, head, n.Nodes, depth)
	}
}

func printBlock(b *bytes.Buffer, indent, head string, nodes []Node, depth int) {
	b.WriteString(indent)
	b.WriteString(head)
	if len(nodes) == 0 {
		b.WriteString(" {}\n")
		return
	}
	b.WriteString(" {\n")
	for _, c := range nodes {
		printNode(b, c, depth+1)
	}
	b.WriteString(indent)
	b.WriteString("}\n")
}
