package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbind/internal/config"
	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/binding"
	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/storage"
	"github.com/goliatone/go-formbind/pkg/storage/sqlitestore"
)

// env is the state shared by one command invocation.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	binder *binding.Binder
	doc    *html.Node
	scope  *html.Node
	out    io.Writer

	store   *storage.Store
	closers []func() error
}

func newEnv(out, errOut io.Writer, o *options) (*env, error) {
	cfg, err := config.Load(o.config)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if o.rowTag != "" {
		cfg.Binding.RowTag = o.rowTag
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, errOut)

	doc, err := loadPage(o.in)
	if err != nil {
		return nil, err
	}
	scope := dom.Body(doc)
	if scope == nil {
		scope = doc
	}
	if id := strings.TrimSpace(o.scope); id != "" {
		scope = dom.ByID(doc, id)
		if scope == nil {
			return nil, fmt.Errorf("scope #%s not found in %s", id, o.in)
		}
	}

	return &env{
		cfg:    cfg,
		logger: logger,
		binder: binding.New(cfg.BinderOptions(logger)...),
		doc:    doc,
		scope:  scope,
		out:    out,
	}, nil
}

// defaultSession is the session used when storage.session is blank, so
// --save in one run can be read back with --restore in the next.
const defaultSession = "formbind"

// session opens the value store on first use. Without storage.path the
// values only live for this invocation.
func (e *env) session() (*storage.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	var backend storage.Backend
	if path := strings.TrimSpace(e.cfg.Storage.Path); path != "" {
		name := strings.TrimSpace(e.cfg.Storage.Session)
		if name == "" {
			name = defaultSession
		}
		db, err := sqlitestore.Open(path, sqlitestore.WithSession(name))
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, db.Close)
		e.logger.Info("storage: session opened", "path", path, "session", db.Session())
		backend = db
	} else {
		e.logger.Warn("storage: no storage.path configured, values are not kept after exit")
		backend = storage.NewMemory()
	}
	e.store = storage.New(backend, e.cfg.Storage.Location, storage.WithLogger(e.logger))
	return e.store, nil
}

func (e *env) close() {
	for _, closeFn := range e.closers {
		if err := closeFn(); err != nil {
			e.logger.Warn("close failed", "error", err)
		}
	}
}

// writePage renders the document to path, or to stdout when path is empty.
func (e *env) writePage(path string) error {
	if path == "" {
		return dom.Render(e.out, e.doc)
	}
	var buf bytes.Buffer
	if err := dom.Render(&buf, e.doc); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	e.logger.Debug("page written", "path", path)
	return nil
}

func loadPage(path string) (*html.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	defer f.Close()
	doc, err := dom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", path, err)
	}
	return doc, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// decodeFile reads a JSON or YAML file into out, picking the codec by
// extension. JSON numbers are kept as json.Number.
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if isYAML(path) {
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func readValues(path string) (binding.Values, error) {
	var raw map[string]any
	if err := decodeFile(path, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("value file holds no object: " + path)
	}
	return binding.Values(raw), nil
}

func readRecords(path string) ([]binding.Record, error) {
	var raw []map[string]any
	if err := decodeFile(path, &raw); err != nil {
		return nil, err
	}
	records := make([]binding.Record, 0, len(raw))
	for _, rec := range raw {
		records = append(records, binding.Record(rec))
	}
	return records, nil
}

func encodeValues(w io.Writer, values binding.Values, format string) error {
	if strings.EqualFold(format, "yaml") {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(values)); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(values)
}
