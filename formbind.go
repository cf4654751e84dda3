package formbind

import (
	"bytes"
	"fmt"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/dom"
)

// Values is the value object read from and written to a page.
type Values = binding.Values

// Record is one row of a repeating group.
type Record = binding.Record

// Option configures the binder used by the helpers below.
type Option = binding.Option

// NewBinder exposes the binder constructor from the top-level module.
func NewBinder(options ...Option) *binding.Binder {
	return binding.New(options...)
}

// ExtractHTML parses markup and reads the values bound under the element
// with id scopeID, or under the body when scopeID is empty.
func ExtractHTML(markup []byte, scopeID string, options ...Option) (Values, error) {
	_, scope, err := parseScope(markup, scopeID)
	if err != nil {
		return nil, err
	}
	return binding.New(options...).Extract(scope)
}

// InjectHTML writes values into markup and returns the rendered page.
func InjectHTML(markup []byte, scopeID string, values Values, options ...Option) ([]byte, error) {
	doc, scope, err := parseScope(markup, scopeID)
	if err != nil {
		return nil, err
	}
	if err := binding.New(options...).Inject(values, scope); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dom.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parseScope(markup []byte, scopeID string) (*html.Node, *html.Node, error) {
	doc, err := dom.Parse(bytes.NewReader(markup))
	if err != nil {
		return nil, nil, fmt.Errorf("formbind: parse: %w", err)
	}
	if scopeID == "" {
		if body := dom.Body(doc); body != nil {
			return doc, body, nil
		}
		return doc, doc, nil
	}
	scope := dom.ByID(doc, scopeID)
	if scope == nil {
		return nil, nil, fmt.Errorf("formbind: scope #%s not found", scopeID)
	}
	return doc, scope, nil
}
