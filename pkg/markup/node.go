package markup

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind discriminates the node variants.
type Kind uint8

const (
	ElementNode Kind = iota + 1
	TextNode
)

func (k Kind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	default:
		return "unknown"
	}
}

// Attr is a single attribute in insertion order.
type Attr struct {
	Name  string
	Value string
}

// Node is either an element (tag, ordered attributes, ordered children) or a
// text node. A node belongs to at most one parent; attaching a node that is
// already attached panics, which keeps rendered output a tree.
type Node struct {
	kind     Kind
	tag      string
	text     string
	attrs    *orderedmap.OrderedMap[string, string]
	children []*Node
	parent   *Node
}

// Element creates an element node and attaches the supplied children.
func Element(tag string, children ...*Node) *Node {
	n := &Node{
		kind:  ElementNode,
		tag:   strings.ToLower(strings.TrimSpace(tag)),
		attrs: orderedmap.New[string, string](),
	}
	return n.Append(children...)
}

// Text creates a text node. Escaping happens at serialisation time.
func Text(value string) *Node {
	return &Node{kind: TextNode, text: value}
}

// Kind reports the node variant.
func (n *Node) Kind() Kind {
	if n == nil {
		return 0
	}
	return n.kind
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool {
	return n != nil && n.kind == ElementNode
}

// Tag returns the element name, or "" for text nodes.
func (n *Node) Tag() string {
	if n == nil {
		return ""
	}
	return n.tag
}

// Data returns the raw text of a text node.
func (n *Node) Data() string {
	if n == nil {
		return ""
	}
	return n.text
}

// Parent returns the node this node is attached to, if any.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// SetAttr sets an attribute, overwriting an existing value in place so the
// original insertion position is kept. Text nodes ignore the call.
func (n *Node) SetAttr(name, value string) *Node {
	if !n.IsElement() {
		return n
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return n
	}
	n.attrs.Set(name, value)
	return n
}

// AddAttrValue appends a token to a space separated attribute such as
// itemprop or class. Duplicate tokens are ignored.
func (n *Node) AddAttrValue(name, token string) *Node {
	token = strings.TrimSpace(token)
	if !n.IsElement() || token == "" {
		return n
	}
	current, ok := n.attrs.Get(name)
	if !ok || strings.TrimSpace(current) == "" {
		return n.SetAttr(name, token)
	}
	for _, existing := range strings.Fields(current) {
		if existing == token {
			return n
		}
	}
	return n.SetAttr(name, current+" "+token)
}

// Attr returns an attribute value.
func (n *Node) Attr(name string) (string, bool) {
	if !n.IsElement() {
		return "", false
	}
	return n.attrs.Get(name)
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// RemoveAttr deletes an attribute.
func (n *Node) RemoveAttr(name string) *Node {
	if n.IsElement() {
		n.attrs.Delete(name)
	}
	return n
}

// Attrs returns the attributes in insertion order.
func (n *Node) Attrs() []Attr {
	if !n.IsElement() || n.attrs.Len() == 0 {
		return nil
	}
	out := make([]Attr, 0, n.attrs.Len())
	for pair := n.attrs.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Attr{Name: pair.Key, Value: pair.Value})
	}
	return out
}

// Append attaches children in order. Nil children are skipped.
func (n *Node) Append(children ...*Node) *Node {
	if n == nil {
		return nil
	}
	for _, child := range children {
		if child == nil {
			continue
		}
		if n.kind != ElementNode {
			panic("markup: cannot append children to a text node")
		}
		if child.parent != nil {
			panic("markup: node already has a parent")
		}
		if child == n {
			panic("markup: node cannot contain itself")
		}
		child.parent = n
		n.children = append(n.children, child)
	}
	return n
}

// AppendText is shorthand for Append(Text(value)), skipping empty values.
func (n *Node) AppendText(value string) *Node {
	if value == "" {
		return n
	}
	return n.Append(Text(value))
}

// Children returns a copy of the child slice.
func (n *Node) Children() []*Node {
	if n == nil || len(n.children) == 0 {
		return nil
	}
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Detach removes n from its parent so it can be attached elsewhere.
func (n *Node) Detach() *Node {
	if n == nil || n.parent == nil {
		return n
	}
	siblings := n.parent.children
	for idx, sibling := range siblings {
		if sibling == n {
			n.parent.children = append(siblings[:idx:idx], siblings[idx+1:]...)
			break
		}
	}
	n.parent = nil
	return n
}

// Clone returns an unattached deep copy.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	if n.kind == TextNode {
		return Text(n.text)
	}
	clone := Element(n.tag)
	for pair := n.attrs.Oldest(); pair != nil; pair = pair.Next() {
		clone.attrs.Set(pair.Key, pair.Value)
	}
	for _, child := range n.children {
		clone.Append(child.Clone())
	}
	return clone
}

// CloneAll clones every node in the slice.
func CloneAll(nodes []*Node) []*Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(nodes))
	for _, node := range nodes {
		if node == nil {
			continue
		}
		out = append(out, node.Clone())
	}
	return out
}

// TextContent concatenates descendant text.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.kind == TextNode {
		return n.text
	}
	var builder strings.Builder
	n.Walk(func(node *Node) bool {
		if node.kind == TextNode {
			builder.WriteString(node.text)
		}
		return true
	})
	return builder.String()
}

// Walk visits n and its descendants depth-first. Returning false from fn skips
// the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || fn == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// Find returns the first node (depth-first, including n) matching pred.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if pred(node) {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node matching pred in document order.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	n.Walk(func(node *Node) bool {
		if pred(node) {
			out = append(out, node)
		}
		return true
	})
	return out
}

// ByTag matches elements with the given tag name.
func ByTag(tag string) func(*Node) bool {
	tag = strings.ToLower(tag)
	return func(n *Node) bool {
		return n.IsElement() && n.tag == tag
	}
}

// ByAttr matches elements carrying name=value. An empty value matches any
// element carrying the attribute.
func ByAttr(name, value string) func(*Node) bool {
	return func(n *Node) bool {
		got, ok := n.Attr(name)
		if !ok {
			return false
		}
		return value == "" || got == value
	}
}

// ByItemprop matches elements whose itemprop token list contains name.
func ByItemprop(name string) func(*Node) bool {
	return func(n *Node) bool {
		got, ok := n.Attr("itemprop")
		if !ok {
			return false
		}
		for _, token := range strings.Fields(got) {
			if token == name {
				return true
			}
		}
		return false
	}
}
