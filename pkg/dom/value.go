package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultCheckValue is the value a checkbox or radio reports without a value
// attribute.
const DefaultCheckValue = "on"

// TextContent concatenates every text node below n.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return b.String()
}

// SetTextContent replaces the children of n with a single text node.
func SetTextContent(n *html.Node, text string) {
	if n == nil {
		return
	}
	RemoveChildren(n)
	if text == "" {
		return
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Value returns the value property of a form control: the value attribute of
// an input, the text of a textarea (the parser already drops its first
// newline), or the selected option of a select.
// Other elements report "".
func Value(n *html.Node) string {
	switch TagName(n) {
	case "input":
		if IsCheckable(n) {
			return AttrOr(n, "value", DefaultCheckValue)
		}
		return AttrOr(n, "value", "")
	case "textarea":
		return TextContent(n)
	case "select":
		if opt := selectedOption(n); opt != nil {
			return optionValue(opt)
		}
		return ""
	default:
		return ""
	}
}

// SetValue writes the value property of a form control. For a select the
// first option carrying val becomes the only selected option; when none
// carries it nothing is selected.
func SetValue(n *html.Node, val string) {
	switch TagName(n) {
	case "input":
		SetAttr(n, "value", val)
	case "textarea":
		SetTextContent(n, val)
	case "select":
		matched := false
		for _, opt := range options(n) {
			if !matched && optionValue(opt) == val {
				SetAttr(opt, "selected", "")
				matched = true
				continue
			}
			RemoveAttr(opt, "selected")
		}
	}
}

// Checked reports the checked state of a checkbox or radio.
func Checked(n *html.Node) bool {
	return IsCheckable(n) && HasAttr(n, "checked")
}

// SetChecked sets or clears the checked state of a checkbox or radio.
// Checking a radio unchecks the other radios sharing its name within the
// same form, or within the whole tree when it has no form.
func SetChecked(n *html.Node, on bool) {
	if !IsCheckable(n) {
		return
	}
	if !on {
		RemoveAttr(n, "checked")
		return
	}
	if IsRadio(n) {
		if name, ok := Attr(n, "name"); ok && name != "" {
			for _, other := range QueryAll(radioOwner(n), All(Matcher(IsRadio), AttrEquals("name", name))) {
				if other != n {
					RemoveAttr(other, "checked")
				}
			}
		}
	}
	SetAttr(n, "checked", "")
}

func radioOwner(n *html.Node) *html.Node {
	if form := Closest(n.Parent, Tag("form")); form != nil {
		return form
	}
	root := n
	for root.Parent != nil {
		root = root.Parent
	}
	return root
}

func options(sel *html.Node) []*html.Node {
	return QueryAll(sel, Matcher(func(n *html.Node) bool { return n.DataAtom == atom.Option || IsTag(n, "option") }))
}

func selectedOption(sel *html.Node) *html.Node {
	opts := options(sel)
	for _, opt := range opts {
		if HasAttr(opt, "selected") {
			return opt
		}
	}
	if len(opts) > 0 && !HasAttr(sel, "multiple") {
		return opts[0]
	}
	return nil
}

func optionValue(opt *html.Node) string {
	if v, ok := Attr(opt, "value"); ok {
		return v
	}
	return strings.Join(strings.Fields(TextContent(opt)), " ")
}
