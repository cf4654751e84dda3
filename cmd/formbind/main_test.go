package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/testsupport"
)

const page = `<!DOCTYPE html><html><body>
<div id="_msg" style="display: none;"><ul></ul></div>
<form id="f">
<input name="user_id" value="U1">
<input name="amount" value="1,500" data-value-format-type="num">
<table><tbody id="detail">
<script type="text/html"><tr><td><input name="detail.no"></td><td><input type="checkbox" name="detail.chk" value="1" data-check-off-value="0"></td></tr></script>
<tr><td><input name="detail.no" value="a"></td><td><input type="checkbox" name="detail.chk" value="1" data-check-off-value="0" checked></td></tr>
<tr><td><input name="detail.no" value="b"></td><td><input type="checkbox" name="detail.chk" value="1" data-check-off-value="0"></td></tr>
</tbody></table>
</form></body></html>`

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("FORMBIND_CONFIG", "")
	t.Setenv("FORMBIND_STORAGE_PATH", "")
	t.Setenv("FORMBIND_STORAGE_SESSION", "")
	return dir
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), &out, &errOut, args)
	return out.String(), err
}

func extractFile(t *testing.T, path string) binding.Values {
	t.Helper()
	doc := testsupport.MustLoadHTML(t, path)
	values, err := binding.New().Extract(testsupport.MustFind(t, doc, "f"))
	if err != nil {
		t.Fatalf("extract %s: %v", path, err)
	}
	return values
}

func TestRunUsageErrors(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "page.html", page)

	cases := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"render"}},
		{name: "missing input", args: []string{"extract"}},
		{name: "bad output", args: []string{"extract", "--in", in, "--output", "xml"}},
		{name: "inject without values", args: []string{"inject", "--in", in}},
		{name: "add-row without group", args: []string{"add-row", "--in", in}},
		{name: "remove-row without value", args: []string{"remove-row", "--in", in, "--name", "detail.no"}},
		{name: "unknown flag", args: []string{"extract", "--in", in, "--nope"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCLI(t, tc.args...)
			var exitErr *ExitError
			if !errors.As(err, &exitErr) || exitErr.Code != 2 {
				t.Fatalf("expected exit code 2, got %v", err)
			}
		})
	}
}

func TestRunExtract(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "page.html", page)

	out, err := runCLI(t, "extract", "--in", in, "--scope", "f")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	want := map[string]any{
		"user_id": "U1",
		"amount":  "1500",
		"detail": []any{
			map[string]any{"no": "a", "chk": "1"},
			map[string]any{"no": "b", "chk": "0"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("extract mismatch (-want +got):\n%s", diff)
	}

	yamlOut, err := runCLI(t, "extract", "--in", in, "--scope", "f", "--output", "yaml")
	if err != nil {
		t.Fatalf("extract yaml: %v", err)
	}
	if !strings.Contains(yamlOut, "user_id: U1") {
		t.Fatalf("yaml output missing scalar:\n%s", yamlOut)
	}
}

func TestRunInjectWithMessages(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "page.html", page)
	values := writeFile(t, dir, "values.yaml", `user_id: U9
amount: 2500000
detail:
  - no: x
    chk: "0"
_msg:
  - type: ERR
    text: check the number
    item: detail.no
    row: "0"
`)
	outPath := filepath.Join(dir, "out.html")

	if _, err := runCLI(t, "inject", "--in", in, "--scope", "f", "--values", values, "--out", outPath); err != nil {
		t.Fatalf("inject: %v", err)
	}

	want := binding.Values{
		"user_id": "U9",
		"amount":  "2500000",
		"detail":  []binding.Record{{"no": "x", "chk": "0"}},
	}
	if diff := cmp.Diff(want, extractFile(t, outPath)); diff != "" {
		t.Fatalf("injected page mismatch (-want +got):\n%s", diff)
	}

	doc := testsupport.MustLoadHTML(t, outPath)
	area := testsupport.MustFind(t, doc, "_msg")
	if !dom.IsVisible(area) {
		t.Fatalf("message area hidden: %s", dom.OuterHTML(area))
	}
	if got := dom.TextContent(area); !strings.Contains(got, "check the number") {
		t.Fatalf("message text = %q", got)
	}
	field := testsupport.MustFindName(t, doc, "detail.no")
	if !dom.HasClass(field, "err-item") {
		t.Fatalf("field not highlighted: %s", dom.OuterHTML(field))
	}
}

func TestRunRowCommands(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "page.html", page)
	rows := writeFile(t, dir, "rows.json", `[{"no": "c", "chk": "0"}]`)
	step1 := filepath.Join(dir, "step1.html")
	step2 := filepath.Join(dir, "step2.html")
	step3 := filepath.Join(dir, "step3.html")

	if _, err := runCLI(t, "add-row", "--in", in, "--group", "detail", "--values", rows, "--out", step1); err != nil {
		t.Fatalf("add-row: %v", err)
	}
	if _, err := runCLI(t, "remove-row", "--in", step1, "--name", "detail.chk", "--value", "1", "--out", step2); err != nil {
		t.Fatalf("remove-row: %v", err)
	}

	got := extractFile(t, step2)["detail"]
	want := []binding.Record{{"no": "b", "chk": "0"}, {"no": "c", "chk": "0"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	if _, err := runCLI(t, "clear-rows", "--in", step2, "--group", "detail", "--out", step3); err != nil {
		t.Fatalf("clear-rows: %v", err)
	}
	if _, ok := extractFile(t, step3)["detail"]; ok {
		t.Fatalf("detail rows left after clear-rows")
	}
}

func TestRunSaveAndRestore(t *testing.T) {
	dir := isolate(t)
	t.Setenv("FORMBIND_STORAGE_PATH", filepath.Join(dir, "session.db"))
	t.Setenv("FORMBIND_STORAGE_SESSION", "cli-test")
	in := writeFile(t, dir, "page.html", page)
	blank := writeFile(t, dir, "blank.html", `<html><body><form id="f"><input name="user_id"><input name="amount" data-value-format-type="num"></form></body></html>`)
	outPath := filepath.Join(dir, "restored.html")

	if _, err := runCLI(t, "extract", "--in", in, "--scope", "f", "--save", "draft"); err != nil {
		t.Fatalf("extract --save: %v", err)
	}
	if _, err := runCLI(t, "inject", "--in", blank, "--scope", "f", "--restore", "draft", "--out", outPath); err != nil {
		t.Fatalf("inject --restore: %v", err)
	}

	want := binding.Values{"user_id": "U1", "amount": "1500"}
	if diff := cmp.Diff(want, extractFile(t, outPath)); diff != "" {
		t.Fatalf("restored page mismatch (-want +got):\n%s", diff)
	}

	if _, err := runCLI(t, "inject", "--in", blank, "--restore", "missing"); err == nil {
		t.Fatalf("expected error for unknown session key")
	}
}

func TestRunSaveAndRestoreDefaultSession(t *testing.T) {
	dir := isolate(t)
	t.Setenv("FORMBIND_STORAGE_PATH", filepath.Join(dir, "session.db"))
	in := writeFile(t, dir, "page.html", page)
	blank := writeFile(t, dir, "blank.html", `<html><body><form id="f"><input name="user_id"></form></body></html>`)
	outPath := filepath.Join(dir, "restored.html")

	if _, err := runCLI(t, "extract", "--in", in, "--scope", "f", "--save", "draft"); err != nil {
		t.Fatalf("extract --save: %v", err)
	}
	if _, err := runCLI(t, "inject", "--in", blank, "--scope", "f", "--restore", "draft", "--out", outPath); err != nil {
		t.Fatalf("inject --restore in a later run: %v", err)
	}

	want := binding.Values{"user_id": "U1"}
	if diff := cmp.Diff(want, extractFile(t, outPath)); diff != "" {
		t.Fatalf("restored page mismatch (-want +got):\n%s", diff)
	}
}
