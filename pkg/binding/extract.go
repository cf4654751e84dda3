package binding

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/naming"
)

// Extract reads the value object under scope. Rows are re-indexed first.
// Invisible leaves and unchecked radios contribute nothing; an unchecked
// checkbox contributes its off value. A key produced twice, a column
// produced twice in one row, or a group id equal to a top-level key fails
// with ErrDuplicateKey.
func (b *Binder) Extract(scope *html.Node) (Values, error) {
	if err := b.IndexRows(scope); err != nil {
		return nil, err
	}

	out := Values{}
	groups := map[string]map[int]Record{}
	var order []string

	for _, leaf := range b.leaves(scope, false) {
		if !b.contributes(leaf) {
			continue
		}
		id := b.identifier(leaf)
		desc := naming.Parse(id)
		idx, indexed := b.rowIndex(leaf)

		if !desc.Grouped() || !indexed {
			if _, dup := out[id]; dup {
				return nil, &Error{Op: "extract", Key: id, Err: ErrDuplicateKey}
			}
			out[id] = b.readValue(leaf)
			continue
		}

		rows, ok := groups[desc.GroupID]
		if !ok {
			rows = map[int]Record{}
			groups[desc.GroupID] = rows
			order = append(order, desc.GroupID)
		}
		rec, ok := rows[idx]
		if !ok {
			rec = Record{}
			rows[idx] = rec
		}
		if _, dup := rec[desc.Column]; dup {
			return nil, &Error{Op: "extract", Key: naming.Composite(desc.GroupID, desc.Column), Err: ErrDuplicateKey}
		}
		rec[desc.Column] = b.readValue(leaf)
	}

	for _, groupID := range order {
		if _, dup := out[groupID]; dup {
			return nil, &Error{Op: "extract", Key: groupID, Err: ErrDuplicateKey}
		}
		out[groupID] = flattenRows(groups[groupID])
	}
	return out, nil
}

// ExtractRow reads the leaves of one row into a Record keyed by logical
// column. row itself is considered a leaf candidate and no row index is
// consulted.
func (b *Binder) ExtractRow(row *html.Node) (Record, error) {
	if !dom.IsElement(row) {
		return nil, &Error{Op: "extract row", Err: ErrInvalidScope}
	}
	rec := Record{}
	for _, leaf := range b.leaves(row, true) {
		if !b.contributes(leaf) {
			continue
		}
		col := columnOf(b.identifier(leaf))
		if _, dup := rec[col]; dup {
			return nil, &Error{Op: "extract row", Key: col, Err: ErrDuplicateKey}
		}
		rec[col] = b.readValue(leaf)
	}
	return rec, nil
}

// ExtractRowOf reads the row enclosing inner: the nearest ancestor, inner
// included, whose tag is rowTag. An empty rowTag uses the configured
// default.
func (b *Binder) ExtractRowOf(inner *html.Node, rowTag string) (Record, error) {
	if !dom.IsElement(inner) {
		return nil, &Error{Op: "extract row", Err: ErrInvalidScope}
	}
	if rowTag = strings.TrimSpace(rowTag); rowTag == "" {
		rowTag = b.rowTag
	}
	row := dom.Closest(inner, dom.Tag(rowTag))
	if row == nil {
		return nil, &Error{Op: "extract row", Key: rowTag, Err: ErrRowNotFound}
	}
	return b.ExtractRow(row)
}

// contributes filters out invisible leaves and unchecked radios.
func (b *Binder) contributes(leaf *html.Node) bool {
	if !dom.IsVisible(leaf) {
		return false
	}
	if dom.IsRadio(leaf) && !dom.Checked(leaf) {
		return false
	}
	return true
}

func (b *Binder) rowIndex(leaf *html.Node) (int, bool) {
	raw, ok := dom.Attr(leaf, b.attrs.RowIndex)
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// readValue returns the unformatted value of leaf. Editable text is
// normalised first and written back when the normalisation changed it.
func (b *Binder) readValue(leaf *html.Node) string {
	var val string
	switch {
	case dom.IsCheckable(leaf):
		if dom.Checked(leaf) {
			val = dom.Value(leaf)
		} else {
			val = dom.AttrOr(leaf, b.attrs.CheckOffValue, "")
		}
	case dom.IsFormControl(leaf):
		val = dom.Value(leaf)
		if isEditableText(leaf) {
			keepNewlines := b.preserveNewlines && dom.IsTag(leaf, "textarea")
			if cleaned := normalizeText(val, keepNewlines); cleaned != val {
				b.logger.Debug("binding: normalised control value", "name", b.identifier(leaf))
				dom.SetValue(leaf, cleaned)
				val = cleaned
			}
		}
	default:
		val = dom.TextContent(leaf)
	}
	return b.formats.Unformat(dom.AttrOr(leaf, b.attrs.FormatType, ""), val)
}

func isEditableText(n *html.Node) bool {
	if dom.IsTag(n, "textarea") {
		return true
	}
	switch dom.InputType(n) {
	case "text", "hidden", "search", "email", "tel", "url":
		return true
	default:
		return false
	}
}

// normalizeText turns tabs into spaces, folds line breaks into spaces (or a
// single "\n" when keepNewlines is set) and drops trailing spaces.
func normalizeText(s string, keepNewlines bool) string {
	nl := " "
	if keepNewlines {
		nl = "\n"
	}
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\r\n", nl)
	s = strings.ReplaceAll(s, "\n", nl)
	return strings.TrimRight(s, " ")
}

// columnOf strips the group prefix and any radio suffix from id.
func columnOf(id string) string {
	desc := naming.Parse(id)
	if !desc.Grouped() {
		return id
	}
	return desc.Column
}

// flattenRows orders rows by index. Missing indices become empty records.
func flattenRows(rows map[int]Record) []Record {
	last := -1
	for idx := range rows {
		if idx > last {
			last = idx
		}
	}
	out := make([]Record, last+1)
	for i := range out {
		if rec, ok := rows[i]; ok {
			out[i] = rec
		} else {
			out[i] = Record{}
		}
	}
	return out
}
