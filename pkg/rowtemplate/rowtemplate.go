// Package rowtemplate parses the inert markup that describes one row of a
// repeating group. The markup is split without building a tree: a quote-aware
// scan finds the end of the opening tag, a reverse scan finds the start of
// the closing tag, and the opening tag is tokenised into a tag name and an
// attribute map.
package rowtemplate

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnparsable reports markup that does not contain a single outer element.
var ErrUnparsable = errors.New("rowtemplate: markup is not a single element")

// Parts holds the three slices of an outer element.
type Parts struct {
	Open  string
	Inner string
	Close string
}

// Template is the parsed row markup used to stamp out new rows.
type Template struct {
	TagName     string
	Attributes  map[string]string
	InnerMarkup string
}

// AttributeNames returns the attribute names sorted for stable output.
func (t Template) AttributeNames() []string {
	names := make([]string, 0, len(t.Attributes))
	for name := range t.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse splits markup and parses its opening tag.
func Parse(markup string) (Template, error) {
	parts, ok := SplitTemplate(markup)
	if !ok {
		return Template{}, ErrUnparsable
	}
	tag, attrs, ok := ParseOpenTag(parts.Open)
	if !ok || tag == "" {
		return Template{}, fmt.Errorf("%w: opening tag %q", ErrUnparsable, parts.Open)
	}
	return Template{
		TagName:     tag,
		Attributes:  attrs,
		InnerMarkup: parts.Inner,
	}, nil
}

// SplitTemplate separates trimmed markup into its opening tag, inner markup
// and closing tag. The opening tag ends at the first '>' outside quotes; the
// closing tag starts at the last '<'. It reports false when either boundary
// is missing or the boundaries overlap.
func SplitTemplate(markup string) (Parts, bool) {
	html := strings.TrimSpace(markup)
	if html == "" {
		return Parts{}, false
	}

	openEnd := -1
	inDouble, inSingle := false, false
	for i := 0; i < len(html); i++ {
		switch ch := html[i]; {
		case ch == '"' && !inSingle:
			inDouble = !inDouble
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
		case ch == '>' && !inDouble && !inSingle:
			openEnd = i
		}
		if openEnd >= 0 {
			break
		}
	}
	if openEnd < 0 {
		return Parts{}, false
	}

	closeStart := strings.LastIndexByte(html, '<')
	if closeStart < 0 || closeStart <= openEnd {
		return Parts{}, false
	}

	return Parts{
		Open:  html[:openEnd+1],
		Inner: html[openEnd+1 : closeStart],
		Close: html[closeStart:],
	}, true
}

// ParseOpenTag reads "<tag a=1 b='x y' c>" into the lower-cased tag name and
// its attributes. Bare attributes map to their own name. It reports false on
// blank input.
func ParseOpenTag(openTag string) (string, map[string]string, bool) {
	tag := strings.TrimSpace(openTag)
	if tag == "" {
		return "", nil, false
	}
	tag = strings.TrimPrefix(tag, "<")
	tag = strings.TrimSuffix(tag, ">")
	tag = strings.TrimSuffix(strings.TrimSpace(tag), "/")

	tokens := splitTokens(tag)
	if len(tokens) == 0 {
		return "", nil, false
	}

	attrs := make(map[string]string, len(tokens)-1)
	for _, token := range tokens[1:] {
		name, value, hasValue := strings.Cut(token, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !hasValue {
			attrs[name] = name
			continue
		}
		attrs[name] = unquote(strings.TrimSpace(value))
	}
	return strings.ToLower(tokens[0]), attrs, true
}

// splitTokens splits on whitespace outside quotes.
func splitTokens(s string) []string {
	var (
		tokens   []string
		current  strings.Builder
		inDouble bool
		inSingle bool
	)
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"' && !inSingle:
			inDouble = !inDouble
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
		case isSpace(ch) && !inDouble && !inSingle:
			flush()
			continue
		}
		current.WriteByte(ch)
	}
	flush()
	return tokens
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return v[1 : len(v)-1]
		}
	}
	return v
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}
