package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Matcher decides whether a node is selected. It satisfies cascadia.Matcher so
// hand-built predicates and compiled CSS selectors share one query path.
type Matcher func(*html.Node) bool

// Match implements cascadia.Matcher.
func (m Matcher) Match(n *html.Node) bool {
	if m == nil {
		return false
	}
	return m(n)
}

// Tag matches elements by tag name.
func Tag(tag string) Matcher {
	return func(n *html.Node) bool { return IsTag(n, tag) }
}

// HasAttribute matches elements that carry key.
func HasAttribute(key string) Matcher {
	return func(n *html.Node) bool { return IsElement(n) && HasAttr(n, key) }
}

// AttrEquals matches elements whose key attribute equals val.
func AttrEquals(key, val string) Matcher {
	return func(n *html.Node) bool {
		if !IsElement(n) {
			return false
		}
		v, ok := Attr(n, key)
		return ok && v == val
	}
}

// All matches when every matcher does.
func All(ms ...Matcher) Matcher {
	return func(n *html.Node) bool {
		for _, m := range ms {
			if !m.Match(n) {
				return false
			}
		}
		return true
	}
}

// Any matches when at least one matcher does.
func Any(ms ...Matcher) Matcher {
	return func(n *html.Node) bool {
		for _, m := range ms {
			if m.Match(n) {
				return true
			}
		}
		return false
	}
}

// Selector compiles a CSS selector group.
func Selector(sel string) (cascadia.Matcher, error) {
	group, err := cascadia.ParseGroup(sel)
	if err != nil {
		return nil, fmt.Errorf("dom: selector %q: %w", sel, err)
	}
	return group, nil
}

// MustSelector is Selector that panics on invalid input.
func MustSelector(sel string) cascadia.Matcher {
	m, err := Selector(sel)
	if err != nil {
		panic(err)
	}
	return m
}

// QueryAll returns every descendant of root matched by m in document order.
// root itself is never part of the result.
func QueryAll(root *html.Node, m cascadia.Matcher) []*html.Node {
	if root == nil || m == nil {
		return nil
	}
	found := cascadia.QueryAll(root, m)
	out := found[:0]
	for _, n := range found {
		if n != root {
			out = append(out, n)
		}
	}
	return out
}

// Query returns the first descendant of root matched by m, or nil.
func Query(root *html.Node, m cascadia.Matcher) *html.Node {
	if matches := QueryAll(root, m); len(matches) > 0 {
		return matches[0]
	}
	return nil
}

// QuerySelectorAll is QueryAll with a CSS selector.
func QuerySelectorAll(root *html.Node, sel string) ([]*html.Node, error) {
	m, err := Selector(sel)
	if err != nil {
		return nil, err
	}
	return QueryAll(root, m), nil
}

// ByID returns the element whose id is id: root itself when it matches,
// otherwise the first matching descendant.
func ByID(root *html.Node, id string) *html.Node {
	id = strings.TrimSpace(id)
	if root == nil || id == "" {
		return nil
	}
	if v, ok := Attr(root, "id"); ok && v == id && IsElement(root) {
		return root
	}
	return Query(root, AttrEquals("id", id))
}

// ByAttr returns the first descendant whose key attribute equals val.
func ByAttr(root *html.Node, key, val string) *html.Node {
	return Query(root, AttrEquals(key, val))
}

// ByName returns the first descendant whose name attribute equals name.
func ByName(root *html.Node, name string) *html.Node {
	return ByAttr(root, "name", name)
}

// ByDataName returns the first descendant whose data-name attribute equals
// name.
func ByDataName(root *html.Node, name string) *html.Node {
	return ByAttr(root, "data-name", name)
}

// ByNameAndValue returns the first descendant with the given name and value
// attributes.
func ByNameAndValue(root *html.Node, name, val string) *html.Node {
	return ByAttrAndValue(root, "name", name, val)
}

// ByAttrAndValue returns the first descendant whose key attribute equals
// name and whose value attribute equals val.
func ByAttrAndValue(root *html.Node, key, name, val string) *html.Node {
	return Query(root, All(AttrEquals(key, name), AttrEquals("value", val)))
}

// AllByAttrAndValue is ByAttrAndValue returning every match.
func AllByAttrAndValue(root *html.Node, key, name, val string) []*html.Node {
	return QueryAll(root, All(AttrEquals(key, name), AttrEquals("value", val)))
}

// Closest walks from n up through its ancestors and returns the first node
// matched by m. n itself is considered.
func Closest(n *html.Node, m cascadia.Matcher) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if IsElement(cur) && m.Match(cur) {
			return cur
		}
	}
	return nil
}

// ClosestWithin is Closest bounded by root: ancestors above root are ignored.
func ClosestWithin(root, n *html.Node, m cascadia.Matcher) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if IsElement(cur) && m.Match(cur) {
			return cur
		}
		if cur == root {
			break
		}
	}
	return nil
}
