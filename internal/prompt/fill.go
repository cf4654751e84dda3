package prompt

import (
	"context"
	"sort"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/dom"
)

// Fill extracts the values under scope, asks for every top-level field and
// injects the answers. Group rows are left untouched. Checkboxes become
// confirmations, radios and selects become choices, everything else is a
// text input defaulting to the current value.
func Fill(ctx context.Context, d Driver, b *binding.Binder, scope *html.Node) (binding.Values, error) {
	values, err := b.Extract(scope)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	answers := binding.Values{}
	for _, key := range keys {
		current, ok := values[key].(string)
		if !ok {
			continue
		}
		answer, err := ask(ctx, d, scope, key, current, b.Attributes())
		if err != nil {
			return nil, err
		}
		answers[key] = answer
		values[key] = answer
	}

	if err := b.Inject(answers, scope); err != nil {
		return nil, err
	}
	return values, nil
}

func ask(ctx context.Context, d Driver, scope *html.Node, key, current string, attrs binding.Attributes) (string, error) {
	leaf := dom.ByName(scope, key)
	if leaf == nil {
		leaf = dom.ByAttr(scope, attrs.DisplayName, key)
	}

	switch {
	case dom.InputType(leaf) == "checkbox":
		on := dom.Value(leaf)
		yes, err := d.Confirm(ctx, ConfirmConfig{Message: key, Default: current == on})
		if err != nil {
			return "", err
		}
		if yes {
			return on, nil
		}
		return dom.AttrOr(leaf, attrs.CheckOffValue, ""), nil

	case dom.IsRadio(leaf):
		var options []string
		for _, radio := range dom.QueryAll(scope, dom.All(dom.Matcher(dom.IsRadio), dom.AttrEquals("name", key))) {
			options = append(options, dom.Value(radio))
		}
		return choose(ctx, d, key, options, current)

	case dom.IsTag(leaf, "select"):
		var options []string
		for _, opt := range dom.QueryAll(leaf, dom.Tag("option")) {
			options = append(options, dom.AttrOr(opt, "value", dom.TextContent(opt)))
		}
		return choose(ctx, d, key, options, current)

	default:
		return d.Input(ctx, InputConfig{Message: key, Default: current})
	}
}

func choose(ctx context.Context, d Driver, key string, options []string, current string) (string, error) {
	if len(options) == 0 {
		return d.Input(ctx, InputConfig{Message: key, Default: current})
	}
	idx, err := d.Select(ctx, SelectConfig{Message: key, Options: options, DefaultIndex: indexOf(options, current)})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return current, nil
	}
	return options[idx], nil
}
