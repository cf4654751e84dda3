package messages

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formbind/pkg/dom"
)

// Options names the elements and attributes used by Render and Clear.
type Options struct {
	AreaID          string
	RowIndexAttr    string
	TitleBackupAttr string
}

// Option mutates Options.
type Option func(*Options)

// WithAreaID sets the id of the message area element.
func WithAreaID(id string) Option {
	return func(o *Options) {
		if id = strings.TrimSpace(id); id != "" {
			o.AreaID = id
		}
	}
}

// WithRowIndexAttr sets the row index attribute used to address row items.
func WithRowIndexAttr(name string) Option {
	return func(o *Options) {
		if name = strings.TrimSpace(name); name != "" {
			o.RowIndexAttr = name
		}
	}
}

// WithTitleBackupAttr sets the attribute holding an item's original title.
func WithTitleBackupAttr(name string) Option {
	return func(o *Options) {
		if name = strings.TrimSpace(name); name != "" {
			o.TitleBackupAttr = name
		}
	}
}

func buildOptions(opts []Option) Options {
	o := Options{
		AreaID:          AreaID,
		RowIndexAttr:    "data-obj-row-idx",
		TitleBackupAttr: "data-title-backup",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Render replaces the content of the message area under root with one list
// item per message and shows it. Messages addressed at an item also
// highlight the control and set its title to the message text. An empty
// message list clears the area instead.
func Render(root *html.Node, msgs []Message, opts ...Option) error {
	if len(msgs) == 0 {
		return Clear(root, opts...)
	}
	o := buildOptions(opts)
	area := dom.ByID(root, o.AreaID)
	if area == nil {
		return ErrMessageAreaNotFound
	}

	list := dom.CreateElement("ul", nil)
	for _, msg := range msgs {
		item := dom.CreateElement("li", map[string]string{"class": msg.Type.ListClass()})
		if err := dom.SetInnerHTML(item, sanitizeText(msg.Text)); err != nil {
			return fmt.Errorf("messages: render: %w", err)
		}
		list.AppendChild(item)
	}
	dom.RemoveChildren(area)
	area.AppendChild(list)
	dom.SetVisible(area, true, false)

	for _, msg := range msgs {
		if strings.TrimSpace(msg.Item) == "" {
			continue
		}
		target := findItem(root, msg, o)
		if target == nil {
			continue
		}
		dom.AddClass(target, msg.Type.ItemClass())
		if title := dom.AttrOr(target, "title", ""); strings.TrimSpace(title) != "" && !dom.HasAttr(target, o.TitleBackupAttr) {
			dom.SetAttr(target, o.TitleBackupAttr, title)
		}
		dom.SetAttr(target, "title", plainText(msg.Text))
	}
	return nil
}

// Clear empties and hides the message area, removes item highlights and
// restores the titles saved by Render.
func Clear(root *html.Node, opts ...Option) error {
	o := buildOptions(opts)
	area := dom.ByID(root, o.AreaID)
	if area == nil {
		return ErrMessageAreaNotFound
	}
	dom.RemoveChildren(area)
	area.AppendChild(dom.CreateElement("ul", nil))
	dom.SetVisible(area, false, false)

	highlighted := dom.QueryAll(root, dom.Matcher(func(n *html.Node) bool {
		for _, cls := range ItemClasses {
			if dom.HasClass(n, cls) {
				return true
			}
		}
		return false
	}))
	for _, n := range highlighted {
		for _, cls := range ItemClasses {
			dom.RemoveClass(n, cls)
		}
		if prev, ok := dom.Attr(n, o.TitleBackupAttr); ok {
			dom.SetAttr(n, "title", prev)
			dom.RemoveAttr(n, o.TitleBackupAttr)
			continue
		}
		dom.RemoveAttr(n, "title")
	}
	return nil
}

func findItem(root *html.Node, msg Message, o Options) *html.Node {
	matchers := []dom.Matcher{dom.AttrEquals("name", msg.Item)}
	if row := strings.TrimSpace(msg.Row); row != "" {
		matchers = append(matchers, dom.AttrEquals(o.RowIndexAttr, row))
	}
	if n := dom.Query(root, dom.All(matchers...)); n != nil {
		return n
	}
	// radios generated into rows carry a suffixed name
	if row := strings.TrimSpace(msg.Row); row != "" {
		return dom.Query(root, dom.All(dom.AttrEquals("data-radio-obj-name", msg.Item), dom.AttrEquals(o.RowIndexAttr, row)))
	}
	return nil
}
