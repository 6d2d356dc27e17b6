package scene

import "strings"

// Tag returns the node's tag name.
func (n *Node) Tag() string { return n.tag }

// Get returns the value of attribute name.
func (n *Node) Get(name string) (string, bool) {
	return get(n.attrs, name)
}

// GetStyle returns the value of inline style property prop.
func (n *Node) GetStyle(prop string) (string, bool) {
	return get(n.styles, prop)
}

func get(props []property, name string) (string, bool) {
	for _, p := range props {
		if p.name == name {
			return p.value, true
		}
	}
	return "", false
}

// Children returns the element children in order. Text leaves are skipped.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.node != nil {
			out = append(out, c.node)
		}
	}
	return out
}

// Len returns the number of children, text leaves included.
func (n *Node) Len() int { return len(n.children) }

// InnerText concatenates all text leaves of the subtree in document order.
func (n *Node) InnerText() string {
	var b strings.Builder
	n.innerText(&b)
	return b.String()
}

func (n *Node) innerText(b *strings.Builder) {
	for _, c := range n.children {
		if c.node != nil {
			c.node.innerText(b)
		} else {
			b.WriteString(c.text)
		}
	}
}

// Walk visits n and its element descendants depth-first in document order.
// Returning false from fn skips the visited node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		if c.node != nil {
			c.node.Walk(fn)
		}
	}
}

// FindAll returns every node in the subtree, n included, that matches pred.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(m *Node) bool {
		if pred(m) {
			out = append(out, m)
		}
		return true
	})
	return out
}

// HasClass returns a predicate matching nodes whose class attribute
// contains name.
func HasClass(name string) func(*Node) bool {
	return func(n *Node) bool {
		v, ok := n.Get("class")
		if !ok {
			return false
		}
		for _, c := range strings.Fields(v) {
			if c == name {
				return true
			}
		}
		return false
	}
}

// WithTag returns a predicate matching nodes with the given tag.
func WithTag(tag string) func(*Node) bool {
	return func(n *Node) bool { return n.tag == tag }
}
