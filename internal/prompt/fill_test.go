package prompt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/dom"
)

type scriptedDriver struct {
	inputs   map[string]string
	confirms map[string]bool
	selects  map[string]int
	asked    []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if v, ok := d.inputs[cfg.Message]; ok {
		return v, nil
	}
	return cfg.Default, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	if v, ok := d.confirms[cfg.Message]; ok {
		return v, nil
	}
	return cfg.Default, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg.Message)
	if v, ok := d.selects[cfg.Message]; ok {
		return v, nil
	}
	return cfg.DefaultIndex, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func TestFill(t *testing.T) {
	doc, err := dom.ParseString(`<form id="f">
		<input name="name" value="old">
		<input type="checkbox" name="agree" value="1" data-check-off-value="0">
		<input type="radio" name="size" value="s" checked><input type="radio" name="size" value="l">
		<select name="pref"><option value="01">A</option><option value="13" selected>B</option></select>
		<ul id="detail"><li><input name="detail.no" value="7"></li></ul>
	</form>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	scope := dom.ByID(doc, "f")
	driver := &scriptedDriver{
		inputs:   map[string]string{"name": "new"},
		confirms: map[string]bool{"agree": true},
		selects:  map[string]int{"size": 1},
	}
	b := binding.New(binding.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	got, err := Fill(context.Background(), driver, b, scope)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := binding.Values{
		"name":   "new",
		"agree":  "1",
		"size":   "l",
		"pref":   "13",
		"detail": []binding.Record{{"no": "7"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"agree", "name", "pref", "size"}, driver.asked); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}

	again, err := b.Extract(scope)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if diff := cmp.Diff(want, again); diff != "" {
		t.Fatalf("tree not updated (-want +got):\n%s", diff)
	}
}

type abortingDriver struct{ scriptedDriver }

func (d *abortingDriver) Input(context.Context, InputConfig) (string, error) {
	return "", ErrAborted
}

func TestFillAborted(t *testing.T) {
	doc, err := dom.ParseString(`<div id="s"><input name="a"></div>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Fill(context.Background(), &abortingDriver{}, binding.New(), dom.ByID(doc, "s"))
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}
