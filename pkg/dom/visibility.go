package dom

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Backup attributes used by SetVisible to restore inline styles.
const (
	DisplayBackupAttr    = "data-style-display-backup"
	VisibilityBackupAttr = "data-style-visibility-backup"
)

// Style returns the inline style declarations of n keyed by lower-cased
// property. Unparsable style attributes yield an empty map.
func Style(n *html.Node) map[string]string {
	out := map[string]string{}
	for _, d := range declarations(n) {
		out[strings.ToLower(strings.TrimSpace(d.Property))] = strings.TrimSpace(d.Value)
	}
	return out
}

// StyleProperty returns one inline style property.
func StyleProperty(n *html.Node, prop string) string {
	return Style(n)[strings.ToLower(prop)]
}

// SetStyleProperty writes one inline style property, keeping the others in
// their original order. An empty value removes the property.
func SetStyleProperty(n *html.Node, prop, val string) {
	if !IsElement(n) {
		return
	}
	prop = strings.ToLower(strings.TrimSpace(prop))

	var kept []*css.Declaration
	replaced := false
	for _, d := range declarations(n) {
		if strings.EqualFold(strings.TrimSpace(d.Property), prop) {
			if val != "" && !replaced {
				kept = append(kept, &css.Declaration{Property: prop, Value: val})
				replaced = true
			}
			continue
		}
		kept = append(kept, d)
	}
	if val != "" && !replaced {
		kept = append(kept, &css.Declaration{Property: prop, Value: val})
	}

	if len(kept) == 0 {
		RemoveAttr(n, "style")
		return
	}
	parts := make([]string, 0, len(kept))
	for _, d := range kept {
		parts = append(parts, d.String())
	}
	SetAttr(n, "style", strings.Join(parts, "; ")+";")
}

func declarations(n *html.Node) []*css.Declaration {
	raw, ok := Attr(n, "style")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil
	}
	// the parser drops the value of an unterminated last declaration
	if !strings.HasSuffix(raw, ";") {
		raw += ";"
	}
	decls, err := parser.ParseDeclarations(raw)
	if err != nil {
		return nil
	}
	return decls
}

// IsVisible approximates computed visibility from markup. n is invisible when
// it or an ancestor below body carries the hidden attribute, an inline
// "display: none" or "visibility: hidden", or is an inert container such as
// template. An input of type hidden is not hidden by its own type.
func IsVisible(n *html.Node) bool {
	if !IsElement(n) {
		return false
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.DocumentNode || IsTag(cur, "body") {
			break
		}
		if cur.Type != html.ElementNode {
			continue
		}
		switch TagName(cur) {
		case "template", "script", "noscript":
			return false
		}
		if HasAttr(cur, "hidden") {
			return false
		}
		style := Style(cur)
		if strings.EqualFold(style["display"], "none") {
			return false
		}
		switch strings.ToLower(style["visibility"]) {
		case "hidden", "collapse":
			return false
		}
	}
	return true
}

// SetVisible shows or hides n through its inline style. With keepLayout the
// visibility property is toggled instead of display, so the element keeps
// its box. A previous non-empty value is saved on a backup attribute while
// hidden and restored on show. It reports whether n changed.
func SetVisible(n *html.Node, show, keepLayout bool) bool {
	if !IsElement(n) {
		return false
	}
	prop, hiddenVal, backup := "display", "none", DisplayBackupAttr
	if keepLayout {
		prop, hiddenVal, backup = "visibility", "hidden", VisibilityBackupAttr
	}
	current := StyleProperty(n, prop)

	if show {
		if current != hiddenVal {
			return false
		}
		prev, _ := Attr(n, backup)
		SetStyleProperty(n, prop, prev)
		RemoveAttr(n, backup)
		return true
	}

	if current == hiddenVal {
		return false
	}
	if current != "" {
		SetAttr(n, backup, current)
	}
	SetStyleProperty(n, prop, hiddenVal)
	return true
}

// SetEnable toggles the disabled attribute. It reports whether n changed.
func SetEnable(n *html.Node, enable bool) bool {
	if !IsElement(n) {
		return false
	}
	if enable {
		return RemoveAttr(n, "disabled")
	}
	if HasAttr(n, "disabled") {
		return false
	}
	SetAttr(n, "disabled", "")
	return true
}
