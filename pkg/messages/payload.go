package messages

import (
	"sort"
	"strconv"
	"strings"
)

// MapErrorPayload turns a validation payload keyed by field path into error
// messages addressed at page identifiers. JSON pointer and bracket paths are
// accepted: "/detail/1/weight" and "detail[1].weight" both address item
// "detail.weight" in row 1, "body.user_id" addresses "user_id". Form-level
// keys and unusable paths produce item-less messages so nothing is lost.
// Output is ordered by path for stable rendering.
func MapErrorPayload(payload map[string][]string) []Message {
	if len(payload) == 0 {
		return nil
	}

	paths := make([]string, 0, len(payload))
	for path := range payload {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var fields, form []Message
	for _, rawPath := range paths {
		texts := normalizeMessages(payload[rawPath])
		if len(texts) == 0 {
			continue
		}
		item, row, ok := mapErrorPath(rawPath)
		for _, text := range texts {
			msg := Error(text)
			if ok {
				msg.Item = item
				msg.Row = row
				fields = append(fields, msg)
				continue
			}
			form = append(form, msg)
		}
	}
	return append(form, fields...)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// mapErrorPath resolves raw into an identifier and an optional row index.
// A numeric segment after the first one splits a group id from its column.
func mapErrorPath(raw string) (string, string, bool) {
	if isFormLevelKey(raw) {
		return "", "", false
	}
	segments := dropWrapperSegments(parsePathSegments(raw))
	if len(segments) == 0 {
		return "", "", false
	}

	for i := 1; i < len(segments)-1; i++ {
		if _, err := strconv.Atoi(segments[i]); err != nil {
			continue
		}
		group := strings.Join(segments[:i], ".")
		column := strings.Join(stripNumericSegments(segments[i+1:]), ".")
		if column == "" {
			return group, "", true
		}
		return group + "." + column, segments[i], true
	}

	name := strings.Join(stripNumericSegments(segments), ".")
	if name == "" {
		return "", "", false
	}
	return name, "", true
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return nil
	}
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$/")
	clean = strings.TrimPrefix(clean, "$.")
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimLeft(clean, "#/.$")
	}

	clean = strings.NewReplacer("[", ".", "]", "", "//", "/").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 1 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
