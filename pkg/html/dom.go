package html

import (
	"strings"

	"droplayer/pkg/css"
)

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

type Document struct {
	Root    *Node
	Scripts []string // JavaScript from <script> tags, in document order
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
		Scripts: make([]string, 0),
	}
}

// NewElement returns a detached element with no attributes.
func NewElement(tag string) *Node {
	return &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tag),
		Attributes: make(map[string]string),
		Children:   make([]*Node, 0),
	}
}

// Body returns the document's <body>, creating it under <html> (or the
// document root) when the markup had none.
func (d *Document) Body() *Node {
	if body := findTag(d.Root, "body"); body != nil {
		return body
	}
	parent := d.Root
	if htmlEl := findTag(d.Root, "html"); htmlEl != nil {
		parent = htmlEl
	}
	body := NewElement("body")
	// adopt loose top-level content so it lays out inside the body
	for _, c := range append([]*Node(nil), parent.Children...) {
		if c.Type == ElementNode && (c.TagName == "head" || c.TagName == "html") {
			continue
		}
		body.AddChild(parent.RemoveChild(c))
	}
	parent.AddChild(body)
	return body
}

// GetElementByID returns the first element with the given id.
func (d *Document) GetElementByID(id string) *Node {
	return d.Root.FindByID(id)
}

func findTag(n *Node, tag string) *Node {
	if n.Type == ElementNode && n.TagName == tag {
		return n
	}
	for _, c := range n.Children {
		if found := findTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

func (n *Node) RemoveAttribute(name string) {
	delete(n.Attributes, name)
}

// ID returns the id attribute.
func (n *Node) ID() string {
	id, _ := n.GetAttribute("id")
	return id
}

// ClassName returns the raw class attribute.
func (n *Node) ClassName() string {
	cls, _ := n.GetAttribute("class")
	return cls
}

func (n *Node) SetClassName(cls string) {
	n.SetAttribute("class", strings.TrimSpace(cls))
}

// HasClass reports whether cls is one of the node's classes.
func (n *Node) HasClass(cls string) bool {
	for _, c := range strings.Fields(n.ClassName()) {
		if c == cls {
			return true
		}
	}
	return false
}

// Style parses the inline style attribute. The result is a copy; write it
// back with SetStyle.
func (n *Node) Style() *css.Style {
	attr, _ := n.GetAttribute("style")
	return css.ParseInlineStyle(attr)
}

// SetStyle replaces the inline style attribute. An empty style removes it.
func (n *Node) SetStyle(s *css.Style) {
	if s.Len() == 0 {
		n.RemoveAttribute("style")
		return
	}
	n.SetAttribute("style", s.String())
}

// FindByID searches n and its descendants.
func (n *Node) FindByID(id string) *Node {
	if n.Type == ElementNode && n.ID() == id {
		return n
	}
	for _, child := range n.Children {
		if found := child.FindByID(id); found != nil {
			return found
		}
	}
	return nil
}

// FirstChild returns the first child node or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	n.RemoveChildren()
	n.AppendText(text)
}

// AddChild adds a child node and sets up the parent relationship
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(&Node{Type: TextNode, Text: text})
}

// RemoveChild removes the given child from this node's children list,
// clears its parent pointer, and returns the removed child.
// Returns nil if child is not found.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return child
		}
	}
	return nil
}

// RemoveChildren detaches every child.
func (n *Node) RemoveChildren() {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
}

// InsertBefore inserts newChild before refChild in this node's children.
// If refChild is nil or not a child, newChild is appended.
// If newChild already has a parent, it is removed from that parent first.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	if newChild.Parent != nil {
		newChild.Parent.RemoveChild(newChild)
	}
	for i, c := range n.Children {
		if c == refChild {
			n.Children = append(n.Children, nil)
			copy(n.Children[i+1:], n.Children[i:])
			n.Children[i] = newChild
			newChild.Parent = n
			return newChild
		}
	}
	n.AddChild(newChild)
	return newChild
}

// Contains returns true if other is a descendant of n (or n itself).
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// Ancestors returns the parent chain, nearest first.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// Walk visits n and its descendants depth first, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Serialize returns the innerHTML of this node.
func (n *Node) Serialize() string {
	var sb strings.Builder
	for _, child := range n.Children {
		serializeNode(&sb, child)
	}
	return sb.String()
}

// SerializeOuter returns the outerHTML of this node.
func (n *Node) SerializeOuter() string {
	var sb strings.Builder
	serializeNode(&sb, n)
	return sb.String()
}
