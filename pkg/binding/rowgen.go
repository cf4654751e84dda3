package binding

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/naming"
	"github.com/goliatone/go-formbind/pkg/rowtemplate"
)

// AddRows appends one generated row per record to the group container
// groupID without clearing existing rows. With no records a single empty
// row is added.
func (b *Binder) AddRows(scope *html.Node, groupID string, records ...Record) error {
	container, err := b.groupContainer("add rows", scope, groupID)
	if err != nil || container == nil {
		return err
	}
	if len(records) == 0 {
		records = []Record{{}}
	}
	return b.addRows(container, groupID, records)
}

// AddEmptyRows appends n empty rows to the group container groupID.
func (b *Binder) AddEmptyRows(scope *html.Node, groupID string, n int) error {
	if n <= 0 {
		return &Error{Op: "add rows", Key: groupID, Err: ErrInvalidArgument}
	}
	return b.AddRows(scope, groupID, make([]Record, n)...)
}

// ClearRows removes every generated row of groupID, keeping the template
// holder.
func (b *Binder) ClearRows(scope *html.Node, groupID string) error {
	container, err := b.groupContainer("clear rows", scope, groupID)
	if err != nil || container == nil {
		return err
	}
	clearContainer(container)
	return nil
}

// RemoveRow removes the rowTag ancestor of every leaf named name whose value
// is value. Unchecked checkboxes and radios do not qualify. It reports false
// when nothing was removed.
func (b *Binder) RemoveRow(scope *html.Node, name, value, rowTag string) (bool, error) {
	if err := checkScope("remove row", scope); err != nil {
		return false, err
	}
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(value) == "" {
		return false, &Error{Op: "remove row", Key: name, Err: ErrInvalidArgument}
	}
	if rowTag = strings.TrimSpace(rowTag); rowTag == "" {
		rowTag = b.rowTag
	}

	removed := false
	for _, leaf := range dom.AllByAttrAndValue(scope, "name", name, value) {
		if dom.IsCheckable(leaf) && !dom.Checked(leaf) {
			continue
		}
		row := dom.ClosestWithin(scope, leaf, dom.Tag(rowTag))
		if row == nil || row == scope || !dom.Contains(scope, row) {
			continue
		}
		if dom.Remove(row) {
			removed = true
		}
	}
	if !removed {
		b.logger.Warn("binding: no row removed", "name", name, "value", value, "row_tag", rowTag)
	}
	return removed, nil
}

// groupContainer validates arguments and resolves the container. A missing
// container is logged and reported as nil without error.
func (b *Binder) groupContainer(op string, scope *html.Node, groupID string) (*html.Node, error) {
	if err := checkScope(op, scope); err != nil {
		return nil, err
	}
	if strings.TrimSpace(groupID) == "" {
		return nil, &Error{Op: op, Err: ErrInvalidArgument}
	}
	container := dom.ByID(scope, groupID)
	if container == nil {
		b.logger.Warn("binding: group container not found", "group", groupID)
	}
	return container, nil
}

// setRowValues replaces the rows of groupID with one row per record.
func (b *Binder) setRowValues(scope *html.Node, groupID string, records []Record) error {
	container := dom.ByID(scope, groupID)
	if container == nil {
		b.logger.Warn("binding: group container not found", "group", groupID)
		return nil
	}
	clearContainer(container)
	return b.addRows(container, groupID, records)
}

func (b *Binder) addRows(container *html.Node, groupID string, records []Record) error {
	h := holder(container)
	if h == nil {
		b.logger.Warn("binding: template holder not found", "group", groupID)
		return nil
	}
	tmpl, err := rowtemplate.Parse(holderMarkup(h))
	if err != nil {
		b.logger.Warn("binding: row template unparsable", "group", groupID, "error", err)
		return nil
	}

	radioIdx := lastRadioSuffix(container, tmpl.TagName)
	for _, rec := range records {
		row := dom.CreateElement(tmpl.TagName, tmpl.Attributes)
		if err := dom.SetInnerHTML(row, tmpl.InnerMarkup); err != nil {
			return &Error{Op: "add rows", Key: groupID, Err: err}
		}
		for _, col := range sortedKeys(rec) {
			val, ok := scalarString(rec[col])
			if !ok {
				continue
			}
			id := naming.Composite(groupID, col)
			leaf := b.locate(row, id, val)
			if leaf == nil {
				b.logger.Debug("binding: row column not in template", "group", groupID, "name", id)
				continue
			}
			b.writeLeaf(leaf, val)
		}

		radioIdx++
		b.suffixRadios(row, radioIdx)
		container.AppendChild(row)
	}
	return nil
}

// suffixRadios gives every named radio in row the runtime name
// "name[idx]" and records the logical name on the radio name attribute.
func (b *Binder) suffixRadios(row *html.Node, idx int) {
	radios := dom.QueryAll(row, dom.All(dom.Matcher(dom.IsRadio), dom.HasAttribute("name")))
	for _, radio := range radios {
		logical := dom.AttrOr(radio, "name", "")
		if logical == "" {
			continue
		}
		dom.SetAttr(radio, b.attrs.RadioName, logical)
		dom.SetAttr(radio, "name", naming.RadioName{Logical: logical}.WithSuffix(idx).String())
	}
}

// lastRadioSuffix scans rows of tag rowTag for the highest radio suffix in
// use, or -1.
func lastRadioSuffix(container *html.Node, rowTag string) int {
	last := -1
	for _, row := range dom.Children(container) {
		if !dom.IsTag(row, rowTag) {
			continue
		}
		for _, radio := range dom.QueryAll(row, dom.Matcher(dom.IsRadio)) {
			rn := naming.SplitRadioName(dom.AttrOr(radio, "name", ""))
			if rn.HasSuffix && rn.Suffix > last {
				last = rn.Suffix
			}
		}
	}
	return last
}

// clearContainer removes every child of container except the template
// holder.
func clearContainer(container *html.Node) {
	keep := holder(container)
	for c := container.FirstChild; c != nil; {
		next := c.NextSibling
		if c != keep {
			container.RemoveChild(c)
		}
		c = next
	}
}
