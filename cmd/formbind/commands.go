package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbind/internal/prompt"
	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/messages"
	"github.com/goliatone/go-formbind/pkg/storage"
)

func runExtract(ctx context.Context, e *env, o *options) error {
	values, err := e.binder.Extract(e.scope)
	if err != nil {
		return err
	}
	if o.save != "" {
		st, err := e.session()
		if err != nil {
			return err
		}
		if err := st.Set(ctx, storage.ScopePage, o.save, values); err != nil {
			return err
		}
	}
	return encodeValues(e.out, values, o.output)
}

func runInject(ctx context.Context, e *env, o *options) error {
	var values binding.Values
	switch {
	case o.values != "":
		v, err := readValues(o.values)
		if err != nil {
			return err
		}
		values = v
	case o.restore != "":
		st, err := e.session()
		if err != nil {
			return err
		}
		obj, ok, err := st.Get(ctx, storage.ScopePage, o.restore)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("session key %q not found", o.restore)
		}
		values = binding.Values(obj)
	}

	var msgs []messages.Message
	if values != nil {
		if err := e.binder.Inject(values, e.scope); err != nil {
			return err
		}
		fromValues, err := messages.FromValues(values)
		if err != nil {
			return err
		}
		msgs = append(msgs, fromValues...)
	}
	if o.errors != "" {
		var payload map[string][]string
		if err := decodeFile(o.errors, &payload); err != nil {
			return err
		}
		msgs = append(msgs, messages.MapErrorPayload(payload)...)
	}

	if len(msgs) > 0 {
		// row-addressed messages need the regenerated rows stamped
		if err := e.binder.IndexRows(e.scope); err != nil {
			return err
		}
		err := messages.Render(e.doc, msgs, messages.WithRowIndexAttr(e.binder.Attributes().RowIndex))
		switch {
		case errors.Is(err, messages.ErrMessageAreaNotFound):
			e.logger.Warn("messages: no message area in page", "count", len(msgs))
		case err != nil:
			return err
		}
	}
	return e.writePage(o.out)
}

func runFill(ctx context.Context, e *env, o *options) error {
	if _, err := prompt.Fill(ctx, prompt.NewSurvey(), e.binder, e.scope); err != nil {
		return err
	}
	return e.writePage(o.out)
}

func runAddRow(_ context.Context, e *env, o *options) error {
	if o.count > 0 {
		if err := e.binder.AddEmptyRows(e.scope, o.group, o.count); err != nil {
			return err
		}
		return e.writePage(o.out)
	}
	var records []binding.Record
	if o.values != "" {
		r, err := readRecords(o.values)
		if err != nil {
			return err
		}
		records = r
	}
	if err := e.binder.AddRows(e.scope, o.group, records...); err != nil {
		return err
	}
	return e.writePage(o.out)
}

func runClearRows(_ context.Context, e *env, o *options) error {
	if err := e.binder.ClearRows(e.scope, o.group); err != nil {
		return err
	}
	return e.writePage(o.out)
}

func runRemoveRow(_ context.Context, e *env, o *options) error {
	removed, err := e.binder.RemoveRow(e.scope, o.name, o.value, e.cfg.Binding.RowTag)
	if err != nil {
		return err
	}
	e.logger.Debug("remove row", "name", o.name, "value", o.value, "removed", removed)
	return e.writePage(o.out)
}
