package parser

import (
	"encoding/json"
	"strings"

	"github.com/starford/exhyte/internal/models"
)

// rule extracts one candidate value for a field from a key path.
// transform reports false when the value at path is absent or unusable.
type rule[T any] struct {
	path      []string
	transform func(any) (T, bool)
}

// field is an ordered list of rules; the first rule that yields a value
// wins, otherwise fallback supplies the default for the given file.
type field[T any] struct {
	rules    []rule[T]
	fallback func(file string) T
}

func (f field[T]) extract(doc map[string]any, file string) T {
	for _, r := range f.rules {
		v, ok := lookup(doc, r.path)
		if !ok {
			continue
		}
		if out, ok := r.transform(v); ok {
			return out
		}
	}
	return f.fallback(file)
}

func on[T any](transform func(any) (T, bool), path ...string) rule[T] {
	return rule[T]{path: path, transform: transform}
}

func zero[T any](string) T {
	var v T
	return v
}

var (
	titleField = field[string]{
		rules: []rule[string]{
			on(nonEmptyString, "paper_title"),
			on(nonEmptyString, "title"),
		},
		fallback: func(file string) string { return file },
	}

	authorsField = field[string]{
		rules: []rule[string]{
			on(authorList, "authors"),
		},
		fallback: zero[string],
	}

	publishedField = field[models.Date]{
		rules: []rule[models.Date]{
			on(resolvedDate, "year"),
			on(resolvedDate, "published"),
			on(resolvedDate, "date"),
			on(resolvedDate, "publication_date"),
		},
		fallback: zero[models.Date],
	}

	topicsField = field[[]string]{
		rules: []rule[[]string]{
			on(topicList, "subject_area", "areas"),
			// Some summaries store the areas list directly under subject_area.
			on(topicList, "subject_area"),
		},
		fallback: func(string) []string { return []string{models.UnknownTopic} },
	}

	linkField = field[string]{
		rules: []rule[string]{
			on(nonEmptyString, "link"),
			on(nonEmptyString, "resource_url"),
			on(nonEmptyString, "resource_link", "answer"),
			on(nonEmptyString, "url"),
		},
		fallback: zero[string],
	}
)

// lookup walks path through nested objects. A null leaf counts as absent.
func lookup(doc map[string]any, path []string) (any, bool) {
	var cur any = doc
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// name reads a display name from either a plain string or a {"name": ...} object.
func name(v any) (string, bool) {
	if obj, ok := v.(map[string]any); ok {
		return nonEmptyString(obj["name"])
	}
	if n, ok := v.(json.Number); ok {
		return n.String(), true
	}
	return nonEmptyString(v)
}

func authorList(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return nonEmptyString(t)
	case []any:
		names := make([]string, 0, len(t))
		for _, item := range t {
			if n, ok := name(item); ok {
				names = append(names, n)
			}
		}
		return strings.Join(names, ", "), len(names) > 0
	}
	return "", false
}

func topicList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if n, ok := name(item); ok {
			out = append(out, n)
		}
	}
	return out, len(out) > 0
}

func resolvedDate(v any) (models.Date, bool) {
	d := ParseDate(v)
	return d, !d.IsZero()
}
