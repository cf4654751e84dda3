// Package messages renders response messages into a page: a list inside the
// message area element and per-control highlights that carry the message as
// a tooltip.
package messages

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbind/internal/valutil"
)

// Response keys and element id shared with the page scripts.
const (
	MessageKey  = "_msg"
	HasErrorKey = "_has_err"
	AreaID      = "_msg"
)

// ErrMessageAreaNotFound reports a tree without a message area element.
var ErrMessageAreaNotFound = errors.New("messages: message area not found")

// ErrInvalidMessage reports a message entry that is not an object.
var ErrInvalidMessage = errors.New("messages: message is invalid")

// Type classifies a message.
type Type string

const (
	TypeInfo  Type = "INFO"
	TypeWarn  Type = "WARN"
	TypeError Type = "ERR"
)

// ListClass returns the class of the list item for t. Unknown types render
// as errors.
func (t Type) ListClass() string {
	switch t {
	case TypeInfo:
		return "info-msg"
	case TypeWarn:
		return "warn-msg"
	default:
		return "err-msg"
	}
}

// ItemClass returns the highlight class applied to the addressed control.
func (t Type) ItemClass() string {
	switch t {
	case TypeInfo:
		return "info-item"
	case TypeWarn:
		return "warn-item"
	default:
		return "err-item"
	}
}

// ItemClasses lists every highlight class.
var ItemClasses = []string{"info-item", "warn-item", "err-item"}

// Message is one entry of the "_msg" array.
type Message struct {
	Type Type   `json:"type"`
	Text string `json:"text"`
	Item string `json:"item,omitempty"`
	Row  string `json:"row,omitempty"`
}

// Info builds an informational message.
func Info(text string) Message { return Message{Type: TypeInfo, Text: text} }

// Warn builds a warning message.
func Warn(text string) Message { return Message{Type: TypeWarn, Text: text} }

// Error builds an error message.
func Error(text string) Message { return Message{Type: TypeError, Text: text} }

// At addresses the message at a control, optionally inside a row.
func (m Message) At(item string, row ...int) Message {
	m.Item = item
	if len(row) > 0 {
		m.Row = strconv.Itoa(row[0])
	}
	return m
}

// FromValues reads the "_msg" array out of a response object. A missing or
// empty array yields nil.
func FromValues(values map[string]any) ([]Message, error) {
	raw, ok := values[MessageKey]
	if !ok || raw == nil {
		return nil, nil
	}
	switch list := raw.(type) {
	case []Message:
		return list, nil
	case []map[string]any:
		out := make([]Message, 0, len(list))
		for _, entry := range list {
			out = append(out, messageFromMap(entry))
		}
		return out, nil
	case []any:
		out := make([]Message, 0, len(list))
		for i, entry := range list {
			m, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: entry %d is %T", ErrInvalidMessage, i, entry)
			}
			out = append(out, messageFromMap(m))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s is %T", ErrInvalidMessage, MessageKey, raw)
	}
}

// HasError reports whether the response flags an error.
func HasError(values map[string]any) bool {
	return valutil.IsTrue(values[HasErrorKey])
}

func messageFromMap(m map[string]any) Message {
	return Message{
		Type: Type(text(m["type"])),
		Text: text(m["text"]),
		Item: text(m["item"]),
		Row:  text(m["row"]),
	}
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
