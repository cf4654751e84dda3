// Package naming parses the composite identifiers that encode form structure
// in markup. A plain identifier ("user_id") names a top-level field; a dotted
// identifier ("detail.weight_kg") names a column of the repeating group
// "detail"; a bracketed suffix ("detail.sex[2]") marks a radio control whose
// runtime name was made unique per generated row.
package naming

import (
	"strconv"
	"strings"
)

// Separator splits a group identifier from its column.
const Separator = "."

// Kind classifies a parsed identifier.
type Kind int

const (
	// KindTopLevel identifies a flat key outside any group.
	KindTopLevel Kind = iota
	// KindGrouped identifies a column inside a repeating group.
	KindGrouped
)

func (k Kind) String() string {
	switch k {
	case KindGrouped:
		return "grouped"
	default:
		return "top-level"
	}
}

// RadioName separates a radio control's logical name from the row suffix
// appended when the control was generated from a row template.
type RadioName struct {
	Logical   string
	Suffix    int
	HasSuffix bool
}

// String renders the runtime identifier, appending "[suffix]" when present.
func (r RadioName) String() string {
	if !r.HasSuffix {
		return r.Logical
	}
	return r.Logical + "[" + strconv.Itoa(r.Suffix) + "]"
}

// WithSuffix returns the runtime identifier for row index idx.
func (r RadioName) WithSuffix(idx int) RadioName {
	return RadioName{Logical: r.Logical, Suffix: idx, HasSuffix: true}
}

// SplitRadioName recovers the logical name from a runtime identifier. Only a
// trailing "[digits]" after at least one leading character counts as a suffix.
func SplitRadioName(raw string) RadioName {
	if !strings.HasSuffix(raw, "]") {
		return RadioName{Logical: raw}
	}
	open := strings.LastIndex(raw, "[")
	if open <= 0 {
		return RadioName{Logical: raw}
	}
	digits := raw[open+1 : len(raw)-1]
	idx, err := strconv.Atoi(digits)
	if err != nil || idx < 0 || digits == "" || strings.ContainsAny(digits, "+-") {
		return RadioName{Logical: raw}
	}
	return RadioName{Logical: raw[:open], Suffix: idx, HasSuffix: true}
}

// Descriptor is the typed view of a raw identifier.
type Descriptor struct {
	Kind Kind
	// Raw is the identifier exactly as read from markup.
	Raw string
	// Key is the flat key for top-level identifiers.
	Key string
	// GroupID and Column are set for grouped identifiers.
	GroupID string
	Column  string
	// Radio carries the raw column split into logical name and row suffix.
	Radio RadioName
}

// Grouped reports whether the descriptor addresses a group column.
func (d Descriptor) Grouped() bool {
	return d.Kind == KindGrouped
}

// Parse classifies raw. A separator at position zero does not open a group.
func Parse(raw string) Descriptor {
	pos := strings.Index(raw, Separator)
	if pos <= 0 {
		return Descriptor{Kind: KindTopLevel, Raw: raw, Key: raw}
	}
	radio := SplitRadioName(raw[pos+1:])
	return Descriptor{
		Kind:    KindGrouped,
		Raw:     raw,
		GroupID: raw[:pos],
		Column:  radio.Logical,
		Radio:   radio,
	}
}

// IsComposite reports whether raw addresses a grouped column.
func IsComposite(raw string) bool {
	return strings.Index(raw, Separator) > 0
}

// GroupOf returns the group identifier of raw, or "" for top-level names.
func GroupOf(raw string) string {
	pos := strings.Index(raw, Separator)
	if pos <= 0 {
		return ""
	}
	return raw[:pos]
}

// Composite joins a group identifier and a column.
func Composite(groupID, column string) string {
	return groupID + Separator + column
}

// InGroup reports whether raw belongs to groupID.
func InGroup(raw, groupID string) bool {
	return groupID != "" && strings.HasPrefix(raw, groupID+Separator)
}
