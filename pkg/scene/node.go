// Package scene provides a small ordered tree of tagged nodes that serializes
// to markup and can be walked to drive other backends.
//
// Nodes are built with chained calls:
//
//	g := scene.New("g").Attr("transform", "translate(1 2)")
//	g.Append(scene.New("rect").Style("fill", "#cccccc").Attr("width", 1).Attr("height", 1))
//	fmt.Println(g) // <g transform="translate(1 2)"><rect style="fill:#cccccc;" width="1" height="1"/></g>
//
// Attributes and styles keep their insertion order, so identical build
// sequences always serialize to identical bytes. Setting an existing name
// replaces its value in place.
//
// Attribute and style values are escaped for a double-quoted attribute.
// Text children are written verbatim; use [EscapeText] for untrusted text.
package scene

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is a tagged element with ordered attributes, ordered inline styles
// and an ordered list of element or text children.
type Node struct {
	tag      string
	attrs    []property
	styles   []property
	children []child
}

type property struct {
	name  string
	value string
}

// child is either an element (node != nil) or a literal text leaf.
type child struct {
	node *Node
	text string
}

// New returns an empty node with the given tag.
func New(tag string) *Node {
	return &Node{tag: tag}
}

// Attr sets attribute name to value. Strings are used as is; integers and
// floats are formatted in their shortest decimal form.
func (n *Node) Attr(name string, value any) *Node {
	n.attrs = set(n.attrs, name, Format(value))
	return n
}

// Style sets inline style property prop to value.
func (n *Node) Style(prop string, value any) *Node {
	n.styles = set(n.styles, prop, Format(value))
	return n
}

// Append adds child elements in order. Nil children are skipped.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.children = append(n.children, child{node: c})
		}
	}
	return n
}

// Text adds a literal text leaf. An empty string still counts as a child,
// so the node is written with an explicit closing tag.
func (n *Node) Text(s string) *Node {
	n.children = append(n.children, child{text: s})
	return n
}

func set(props []property, name, value string) []property {
	for i := range props {
		if props[i].name == name {
			props[i].value = value
			return props
		}
	}
	return append(props, property{name, value})
}

// Format renders an attribute or style value.
func Format(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	if f == 0 {
		return "0" // also folds -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// String serializes the node and its subtree.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

// WriteTo writes the serialized subtree to w.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	m, err := io.WriteString(w, n.String())
	return int64(m), err
}

func (n *Node) write(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(n.tag)

	if len(n.styles) > 0 {
		b.WriteString(` style="`)
		for _, s := range n.styles {
			b.WriteString(attrEscaper.Replace(s.name))
			b.WriteByte(':')
			b.WriteString(attrEscaper.Replace(s.value))
			b.WriteByte(';')
		}
		b.WriteByte('"')
	}
	for _, a := range n.attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.value))
		b.WriteByte('"')
	}

	if len(n.children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	for _, c := range n.children {
		if c.node != nil {
			c.node.write(b)
		} else {
			b.WriteString(c.text)
		}
	}
	b.WriteString("</")
	b.WriteString(n.tag)
	b.WriteByte('>')
}

var (
	attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")
	textEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;")
)

// EscapeText escapes s for use as markup character data.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}
