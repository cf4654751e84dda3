package binding

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formbind/pkg/dom"
)

// Inject writes values into the tree under scope. Keys are processed in
// sorted order and private keys are skipped. Sequences regenerate the rows
// of the group container with the same id; scalars are written into the
// leaf carrying the key. Missing targets, missing containers and unparsable
// templates are logged and skipped.
func (b *Binder) Inject(values Values, scope *html.Node) error {
	if err := checkScope("inject", scope); err != nil {
		return err
	}
	for _, key := range sortedKeys(values) {
		if b.isPrivate(key) {
			continue
		}
		raw := values[key]
		if records, ok := asRecords(raw); ok {
			if err := b.setRowValues(scope, key, records); err != nil {
				return err
			}
			continue
		}
		val, ok := scalarString(raw)
		if !ok {
			b.logger.Debug("binding: skipping non-scalar value", "name", key, "type", fmt.Sprintf("%T", raw))
			continue
		}
		b.setScalar(scope, key, val)
	}
	return nil
}

func (b *Binder) isPrivate(key string) bool {
	return b.privatePrefix != "" && strings.HasPrefix(key, b.privatePrefix)
}

func (b *Binder) setScalar(scope *html.Node, key, val string) {
	leaf := b.locate(scope, key, val)
	if leaf == nil {
		attrs := []any{"name", key, "value", val}
		if hint := b.closestIdentifier(scope, key); hint != "" {
			attrs = append(attrs, "closest", hint)
		}
		b.logger.Warn("binding: target element not found", attrs...)
		return
	}
	b.writeLeaf(leaf, val)
}

// writeLeaf sets the checked state of a checkbox or radio, or writes the
// formatted value into the value property or the text content.
func (b *Binder) writeLeaf(leaf *html.Node, val string) {
	if dom.IsCheckable(leaf) {
		dom.SetChecked(leaf, val == dom.Value(leaf))
		return
	}
	display := b.formats.Format(dom.AttrOr(leaf, b.attrs.FormatType, ""), val)
	if dom.IsFormControl(leaf) {
		dom.SetValue(leaf, display)
		return
	}
	dom.SetTextContent(leaf, display)
}

// closestIdentifier returns the identifier under scope nearest to key by
// edit distance, or "" when scope has no leaves.
func (b *Binder) closestIdentifier(scope *html.Node, key string) string {
	best, bestDist := "", -1
	for _, leaf := range b.leaves(scope, false) {
		id := b.identifier(leaf)
		if d := levenshtein.ComputeDistance(key, id); bestDist < 0 || d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}

// asRecords recognises group payloads. Entries of a []any that are not
// objects become empty rows.
func asRecords(v any) ([]Record, bool) {
	switch rows := v.(type) {
	case []Record:
		return rows, true
	case []map[string]any:
		out := make([]Record, len(rows))
		for i, row := range rows {
			out[i] = Record(row)
		}
		return out, true
	case []Values:
		out := make([]Record, len(rows))
		for i, row := range rows {
			out[i] = Record(row)
		}
		return out, true
	case []any:
		out := make([]Record, len(rows))
		for i, row := range rows {
			switch r := row.(type) {
			case Record:
				out[i] = r
			case map[string]any:
				out[i] = Record(r)
			case Values:
				out[i] = Record(r)
			default:
				out[i] = Record{}
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// scalarString renders scalars as their wire text. nil becomes "".
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int8:
		return strconv.FormatInt(int64(t), 10), true
	case int16:
		return strconv.FormatInt(int64(t), 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint8:
		return strconv.FormatUint(uint64(t), 10), true
	case uint16:
		return strconv.FormatUint(uint64(t), 10), true
	case uint32:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}
