package testsupport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formbind/pkg/dom"
)

// MustParseHTML parses markup into a document node.
func MustParseHTML(t *testing.T, markup string) *html.Node {
	t.Helper()

	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// LoadHTML reads a fixture page without requiring testing.T so callers can
// share fixtures from setup functions.
func LoadHTML(path string) (*html.Node, error) {
	if path == "" {
		return nil, errors.New("testsupport: html path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read html: %w", err)
	}
	doc, err := dom.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("testsupport: parse html: %w", err)
	}
	return doc, nil
}

// MustLoadHTML is LoadHTML for tests.
func MustLoadHTML(t *testing.T, path string) *html.Node {
	t.Helper()

	doc, err := LoadHTML(path)
	if err != nil {
		t.Fatalf("load html: %v", err)
	}
	return doc
}

// MustFind returns the element with the given id or fails the test.
func MustFind(t *testing.T, root *html.Node, id string) *html.Node {
	t.Helper()

	n := dom.ByID(root, id)
	if n == nil {
		t.Fatalf("element #%s not found", id)
	}
	return n
}

// MustFindName returns the first element named name or fails the test.
func MustFindName(t *testing.T, root *html.Node, name string) *html.Node {
	t.Helper()

	n := dom.ByName(root, name)
	if n == nil {
		t.Fatalf("element [name=%q] not found", name)
	}
	return n
}

// MustLoadJSON decodes a JSON golden into out.
func MustLoadJSON(t *testing.T, path string, out any) {
	t.Helper()

	data := MustReadGolden(t, path)
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// RenderHTML serializes n for markup assertions.
func RenderHTML(t *testing.T, n *html.Node) string {
	t.Helper()

	var buf bytes.Buffer
	if err := dom.Render(&buf, n); err != nil {
		t.Fatalf("render html: %v", err)
	}
	return buf.String()
}
