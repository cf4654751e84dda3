package dom

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

const dataPrefix = "data-"

// Attr returns the value of key on n and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

// AttrOr returns the value of key, or fallback when absent.
func AttrOr(n *html.Node, key, fallback string) string {
	if v, ok := Attr(n, key); ok {
		return v
	}
	return fallback
}

// HasAttr reports whether key is present on n.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// SetAttr sets key on n, replacing an existing value.
func SetAttr(n *html.Node, key, val string) {
	if n == nil || key == "" {
		return
	}
	key = strings.ToLower(key)
	for i, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes key from n. It reports whether the attribute existed.
func RemoveAttr(n *html.Node, key string) bool {
	if n == nil {
		return false
	}
	for i, attr := range n.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return true
		}
	}
	return false
}

// DatasetKey converts "data-obj-row-idx" into its dataset form "objRowIdx".
// Names without the data- prefix are returned unchanged.
func DatasetKey(attrName string) string {
	if !strings.HasPrefix(attrName, dataPrefix) {
		return attrName
	}
	rest := attrName[len(dataPrefix):]
	var b strings.Builder
	upper := false
	for i := 0; i < len(rest); i++ {
		ch := rest[i]
		if ch == '-' && i+1 < len(rest) && rest[i+1] >= 'a' && rest[i+1] <= 'z' {
			upper = true
			continue
		}
		if upper {
			ch -= 'a' - 'A'
			upper = false
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// DatasetAttr converts a dataset key "objRowIdx" back to "data-obj-row-idx".
func DatasetAttr(key string) string {
	var b strings.Builder
	b.WriteString(dataPrefix)
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if ch >= 'A' && ch <= 'Z' {
			b.WriteByte('-')
			ch += 'a' - 'A'
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// Data reads a dataset entry by its camel-case key.
func Data(n *html.Node, key string) (string, bool) {
	return Attr(n, DatasetAttr(key))
}

// SetData writes a dataset entry by its camel-case key.
func SetData(n *html.Node, key, val string) {
	SetAttr(n, DatasetAttr(key), val)
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	return strings.Fields(AttrOr(n, "class", ""))
}

// HasClass reports whether n carries cls.
func HasClass(n *html.Node, cls string) bool {
	cls = strings.TrimSpace(cls)
	if cls == "" {
		return false
	}
	for _, c := range Classes(n) {
		if c == cls {
			return true
		}
	}
	return false
}

// AddClass appends cls to the class list. It reports whether n changed.
func AddClass(n *html.Node, cls string) bool {
	cls = strings.TrimSpace(cls)
	if n == nil || cls == "" || HasClass(n, cls) {
		return false
	}
	SetAttr(n, "class", strings.Join(append(Classes(n), cls), " "))
	return true
}

// RemoveClass drops cls from the class list. It reports whether n changed.
func RemoveClass(n *html.Node, cls string) bool {
	if !HasClass(n, cls) {
		return false
	}
	var kept []string
	for _, c := range Classes(n) {
		if c != cls {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return true
	}
	SetAttr(n, "class", strings.Join(kept, " "))
	return true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
