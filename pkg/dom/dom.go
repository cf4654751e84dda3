// Package dom is the thin tree layer the binding engine works against. It
// wraps golang.org/x/net/html nodes with the browser-like primitives forms
// need: attribute and dataset access, control values, checked state, text
// content, computed visibility, class toggling, lookups, and node creation.
//
// Nothing here knows about groups, rows or value objects.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads a full HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return doc, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string) (*html.Node, error) {
	return Parse(strings.NewReader(markup))
}

// Render writes n and its subtree.
func Render(w io.Writer, n *html.Node) error {
	if n == nil {
		return fmt.Errorf("dom: render: node is nil")
	}
	return html.Render(w, n)
}

// OuterHTML renders n and its subtree to a string.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// TagName returns the lower-cased tag of an element, or "".
func TagName(n *html.Node) string {
	if !IsElement(n) {
		return ""
	}
	return strings.ToLower(n.Data)
}

// IsTag reports whether n is an element with the given tag.
func IsTag(n *html.Node, tag string) bool {
	return IsElement(n) && strings.EqualFold(n.Data, tag)
}

// InputType returns the lower-cased type of an input element. Inputs without
// a type attribute are text inputs.
func InputType(n *html.Node) string {
	if !IsTag(n, "input") {
		return ""
	}
	t, ok := Attr(n, "type")
	t = strings.ToLower(strings.TrimSpace(t))
	if !ok || t == "" {
		return "text"
	}
	return t
}

// IsFormControl reports whether n carries a value property.
func IsFormControl(n *html.Node) bool {
	switch TagName(n) {
	case "input", "select", "textarea":
		return true
	default:
		return false
	}
}

// IsCheckable reports whether n is a checkbox or radio input.
func IsCheckable(n *html.Node) bool {
	switch InputType(n) {
	case "checkbox", "radio":
		return true
	default:
		return false
	}
}

// IsRadio reports whether n is a radio input.
func IsRadio(n *html.Node) bool {
	return InputType(n) == "radio"
}

// Children returns the element children of n in document order.
func Children(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Body returns the body element of a parsed document, or nil.
func Body(doc *html.Node) *html.Node {
	return Query(doc, Tag("body"))
}

// CreateElement builds a detached element. Attributes are applied in sorted
// key order so rendering is deterministic.
func CreateElement(tag string, attrs map[string]string) *html.Node {
	tag = strings.ToLower(strings.TrimSpace(tag))
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for _, key := range sortedKeys(attrs) {
		SetAttr(n, key, attrs[key])
	}
	return n
}

// SetInnerHTML replaces the children of n with markup parsed in the context
// of n, so row content such as "<td>" parses correctly inside a "<tr>".
func SetInnerHTML(n *html.Node, markup string) error {
	if !IsElement(n) {
		return fmt.Errorf("dom: set inner html: element required")
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), n)
	if err != nil {
		return fmt.Errorf("dom: set inner html: %w", err)
	}
	RemoveChildren(n)
	for _, child := range nodes {
		n.AppendChild(child)
	}
	return nil
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// Remove detaches n from its parent. It reports whether n was attached.
func Remove(n *html.Node) bool {
	if n == nil || n.Parent == nil {
		return false
	}
	n.Parent.RemoveChild(n)
	return true
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == root {
			return true
		}
	}
	return false
}
