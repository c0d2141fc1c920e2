package html

import "fmt"

type Parser struct {
	tokenizer *Tokenizer
	doc       *Document
	stack     []*Node
}

func NewParser(html string) *Parser {
	return &Parser{
		tokenizer: NewTokenizer(html),
		doc:       NewDocument(),
	}
}

// Parse builds a document. <script> bodies are collected into
// Document.Scripts instead of the tree; <style> bodies are dropped.
func (p *Parser) Parse() (*Document, error) {
	if err := p.build(p.doc.Root); err != nil {
		return nil, err
	}
	return p.doc, nil
}

func (p *Parser) build(root *Node) error {
	p.stack = []*Node{root}
	for {
		token, err := p.tokenizer.NextToken()
		if err != nil {
			return fmt.Errorf("tokenizer error: %w", err)
		}
		switch token.Type {
		case TokenEOF:
			return nil

		case TokenStartTag:
			switch token.TagName {
			case "script":
				p.doc.Scripts = append(p.doc.Scripts, p.tokenizer.ReadRawUntil("script"))
				continue
			case "style":
				p.tokenizer.ReadRawUntil("style")
				continue
			}
			if isBlockElement(token.TagName) {
				p.autoCloseP()
			}
			node := &Node{
				Type:       ElementNode,
				TagName:    token.TagName,
				Attributes: token.Attributes,
				Children:   make([]*Node, 0),
			}
			p.currentParent().AddChild(node)
			if !token.SelfClosing && !isVoidElement(token.TagName) {
				p.stack = append(p.stack, node)
			}

		case TokenText:
			p.currentParent().AppendText(token.Text)

		case TokenEndTag:
			p.closeTag(token.TagName)
		}
	}
}

func (p *Parser) currentParent() *Node {
	return p.stack[len(p.stack)-1]
}

// closeTag pops the stack until the matching tag is found and closed.
// Unmatched end tags are ignored.
func (p *Parser) closeTag(tagName string) {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == tagName {
			p.stack = p.stack[:i]
			return
		}
	}
}

// autoCloseP closes an open <p> element if one is on the stack
func (p *Parser) autoCloseP() {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].TagName == "p" {
			p.stack = p.stack[:i]
			return
		}
		if isBlockElement(p.stack[i].TagName) {
			return
		}
	}
}

// isBlockElement returns true for elements that auto-close <p>
func isBlockElement(tagName string) bool {
	switch tagName {
	case "address", "article", "aside", "blockquote", "details", "dialog",
		"dd", "div", "dl", "dt", "fieldset", "figcaption", "figure",
		"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hgroup", "hr", "li", "main", "nav", "ol",
		"p", "pre", "section", "table", "ul":
		return true
	}
	return false
}

func Parse(html string) (*Document, error) {
	return NewParser(html).Parse()
}

// ParseFragment parses markup meant to become the children of an existing
// element, such as drop content. Scripts in a fragment are discarded.
func ParseFragment(html string) ([]*Node, error) {
	p := NewParser(html)
	holder := NewElement("fragment")
	if err := p.build(holder); err != nil {
		return nil, err
	}
	nodes := append([]*Node(nil), holder.Children...)
	holder.RemoveChildren()
	return nodes, nil
}
