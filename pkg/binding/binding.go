// Package binding converts between an HTML control tree and a structured
// value object. Structure is inferred from identifiers: "name" on form
// controls and a display attribute ("data-name") on other elements. Dotted
// identifiers address the columns of repeating row groups whose container
// element carries the group id and whose rows are stamped from an inert
// template child.
//
// Every operation takes an explicit scope root and mutates only nodes
// reachable from it. A Binder holds configuration only and may be shared;
// callers must not interleave operations on the same subtree.
package binding

import (
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/format"
)

// DefaultRowTag is the row element RemoveRow and ExtractRowOf look for when
// no tag is given.
const DefaultRowTag = "tr"

// DefaultPrivatePrefix marks framework-private keys such as "_msg".
const DefaultPrivatePrefix = "_"

// Values is the value object exchanged with a page. Scalars are strings;
// groups are []Record.
type Values map[string]any

// Record is one row of a group, keyed by column.
type Record map[string]any

// Attributes names the markup attributes the engine reads and writes.
type Attributes struct {
	DisplayName   string
	RowIndex      string
	CheckOffValue string
	FormatType    string
	RadioName     string
}

// DefaultAttributes returns the attribute names used by the page scripts.
func DefaultAttributes() Attributes {
	return Attributes{
		DisplayName:   "data-name",
		RowIndex:      "data-obj-row-idx",
		CheckOffValue: "data-check-off-value",
		FormatType:    "data-value-format-type",
		RadioName:     "data-radio-obj-name",
	}
}

// Binder extracts and injects value objects.
type Binder struct {
	formats          *format.Registry
	logger           *slog.Logger
	attrs            Attributes
	preserveNewlines bool
	rowTag           string
	privatePrefix    string
}

// Option configures a Binder.
type Option func(*Binder)

// WithFormats sets the format registry. Defaults to format.Default().
func WithFormats(reg *format.Registry) Option {
	return func(b *Binder) {
		if reg != nil {
			b.formats = reg
		}
	}
}

// WithLogger sets the logger for non-fatal conditions.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithAttributes overrides attribute names. Empty fields keep their default.
func WithAttributes(attrs Attributes) Option {
	return func(b *Binder) {
		def := b.attrs
		b.attrs = Attributes{
			DisplayName:   firstNonEmpty(attrs.DisplayName, def.DisplayName),
			RowIndex:      firstNonEmpty(attrs.RowIndex, def.RowIndex),
			CheckOffValue: firstNonEmpty(attrs.CheckOffValue, def.CheckOffValue),
			FormatType:    firstNonEmpty(attrs.FormatType, def.FormatType),
			RadioName:     firstNonEmpty(attrs.RadioName, def.RadioName),
		}
	}
}

// WithPreserveNewlines keeps line breaks in textarea values as "\n" instead
// of folding them into spaces during extraction.
func WithPreserveNewlines(enabled bool) Option {
	return func(b *Binder) {
		b.preserveNewlines = enabled
	}
}

// WithRowTag sets the default row tag.
func WithRowTag(tag string) Option {
	return func(b *Binder) {
		if tag = strings.TrimSpace(tag); tag != "" {
			b.rowTag = strings.ToLower(tag)
		}
	}
}

// WithPrivatePrefix sets the prefix of keys Inject ignores.
func WithPrivatePrefix(prefix string) Option {
	return func(b *Binder) {
		if prefix != "" {
			b.privatePrefix = prefix
		}
	}
}

// New constructs a Binder.
func New(opts ...Option) *Binder {
	b := &Binder{
		formats:       format.Default(),
		logger:        slog.Default(),
		attrs:         DefaultAttributes(),
		rowTag:        DefaultRowTag,
		privatePrefix: DefaultPrivatePrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Attributes returns the attribute names in use.
func (b *Binder) Attributes() Attributes {
	return b.attrs
}

// identifier returns the primary name of a form control, falling back to
// the display attribute.
func (b *Binder) identifier(n *html.Node) string {
	if dom.IsFormControl(n) {
		if name := strings.TrimSpace(dom.AttrOr(n, "name", "")); name != "" {
			return name
		}
	}
	return strings.TrimSpace(dom.AttrOr(n, b.attrs.DisplayName, ""))
}

func (b *Binder) isLeaf(n *html.Node) bool {
	return dom.IsElement(n) && b.identifier(n) != ""
}

// leaves returns the addressable leaves below root in document order,
// skipping template content. includeRoot adds root itself when it is a leaf.
func (b *Binder) leaves(root *html.Node, includeRoot bool) []*html.Node {
	var out []*html.Node
	if includeRoot && b.isLeaf(root) {
		out = append(out, root)
	}
	for _, n := range dom.QueryAll(root, dom.Matcher(b.isLeaf)) {
		if !insideTemplate(root, n) {
			out = append(out, n)
		}
	}
	return out
}

// findLeaf locates the target for id: an element whose name matches, then
// one whose display attribute matches.
func (b *Binder) findLeaf(root *html.Node, id string) *html.Node {
	for _, attr := range []string{"name", b.attrs.DisplayName} {
		for _, n := range dom.QueryAll(root, dom.AttrEquals(attr, id)) {
			if !insideTemplate(root, n) {
				return n
			}
		}
	}
	return nil
}

// locate finds the leaf for id, moving to the radio sibling whose value is
// val when the first match is a radio with a different value. A radio group
// with no member carrying val yields nil.
func (b *Binder) locate(root *html.Node, id, val string) *html.Node {
	leaf := b.findLeaf(root, id)
	if leaf == nil || !dom.IsRadio(leaf) || dom.Value(leaf) == val {
		return leaf
	}
	for _, n := range dom.AllByAttrAndValue(root, "name", id, val) {
		if dom.IsRadio(n) && !insideTemplate(root, n) {
			return n
		}
	}
	return nil
}

func insideTemplate(root, n *html.Node) bool {
	for cur := n.Parent; cur != nil && cur != root; cur = cur.Parent {
		if dom.IsTag(cur, "template") {
			return true
		}
	}
	return false
}

func checkScope(op string, scope *html.Node) error {
	if scope == nil || (scope.Type != html.ElementNode && scope.Type != html.DocumentNode) {
		return &Error{Op: op, Err: ErrInvalidScope}
	}
	return nil
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
