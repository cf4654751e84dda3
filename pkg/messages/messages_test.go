package messages_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/messages"
)

const page = `<main>
<div id="_msg" style="display: none"></div>
<input name="user_id" title="Login id">
<table><tbody id="detail">
<tr><td><input name="detail.weight" data-obj-row-idx="0"></td></tr>
<tr><td><input name="detail.weight" data-obj-row-idx="1"></td></tr>
</tbody></table>
</main>`

func TestRenderAndClear(t *testing.T) {
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	msgs := []messages.Message{
		messages.Info("Saved <b>draft</b><script>alert(1)</script>"),
		messages.Error("Required").At("user_id"),
		messages.Warn("Too heavy").At("detail.weight", 1),
	}
	if err := messages.Render(doc, msgs); err != nil {
		t.Fatalf("render: %v", err)
	}

	area := dom.ByID(doc, messages.AreaID)
	want := `<ul><li class="info-msg">Saved <b>draft</b></li><li class="err-msg">Required</li><li class="warn-msg">Too heavy</li></ul>`
	if got := dom.InnerHTML(area); got != want {
		t.Fatalf("area markup mismatch\nwant %s\ngot  %s", want, got)
	}
	if !dom.IsVisible(area) {
		t.Fatalf("message area should be shown")
	}

	user := dom.ByName(doc, "user_id")
	if !dom.HasClass(user, "err-item") {
		t.Fatalf("user_id not highlighted")
	}
	if got := dom.AttrOr(user, "title", ""); got != "Required" {
		t.Fatalf("title = %q", got)
	}
	if got := dom.AttrOr(user, "data-title-backup", ""); got != "Login id" {
		t.Fatalf("title backup = %q", got)
	}

	rows := dom.QueryAll(doc, dom.AttrEquals("name", "detail.weight"))
	if dom.HasClass(rows[0], "warn-item") || !dom.HasClass(rows[1], "warn-item") {
		t.Fatalf("row highlight hit the wrong row")
	}

	if err := messages.Clear(doc); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if dom.IsVisible(area) {
		t.Fatalf("message area should be hidden")
	}
	if dom.HasClass(user, "err-item") || dom.HasClass(rows[1], "warn-item") {
		t.Fatalf("highlights not removed")
	}
	if got := dom.AttrOr(user, "title", ""); got != "Login id" {
		t.Fatalf("title not restored: %q", got)
	}
	if dom.HasAttr(rows[1], "title") {
		t.Fatalf("title without backup should be removed")
	}
}

func TestRenderWithoutArea(t *testing.T) {
	doc, err := dom.ParseString(`<div></div>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := messages.Render(doc, []messages.Message{messages.Info("x")}); !errors.Is(err, messages.ErrMessageAreaNotFound) {
		t.Fatalf("expected ErrMessageAreaNotFound, got %v", err)
	}
}

func TestFromValuesAndHasError(t *testing.T) {
	values := map[string]any{
		messages.MessageKey: []any{
			map[string]any{"type": "WARN", "text": "check", "item": "detail.no", "row": float64(2)},
		},
		messages.HasErrorKey: "true",
	}
	got, err := messages.FromValues(values)
	if err != nil {
		t.Fatalf("from values: %v", err)
	}
	want := []messages.Message{{Type: messages.TypeWarn, Text: "check", Item: "detail.no", Row: "2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if !messages.HasError(values) {
		t.Fatalf("expected HasError")
	}
	if messages.HasError(map[string]any{}) {
		t.Fatalf("missing flag should not report an error")
	}

	if _, err := messages.FromValues(map[string]any{messages.MessageKey: []any{"plain"}}); !errors.Is(err, messages.ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestMapErrorPayload(t *testing.T) {
	payload := map[string][]string{
		"/detail/1/weight":  {"too heavy", " too heavy "},
		"detail[0].no":      {"required"},
		"body.user_id":      {"taken"},
		"non_field_errors":  {"try again"},
		"/detail/2/sex":     {""},
		"#/data/attributes": {"odd"},
	}

	got := messages.MapErrorPayload(payload)
	want := []messages.Message{
		{Type: messages.TypeError, Text: "try again"},
		{Type: messages.TypeError, Text: "odd", Item: "attributes"},
		{Type: messages.TypeError, Text: "too heavy", Item: "detail.weight", Row: "1"},
		{Type: messages.TypeError, Text: "taken", Item: "user_id"},
		{Type: messages.TypeError, Text: "required", Item: "detail.no", Row: "0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	for _, msg := range got {
		if strings.Contains(msg.Item, "[") {
			t.Fatalf("brackets leaked into item %q", msg.Item)
		}
	}
}
