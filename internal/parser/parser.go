// Package parser turns raw JSON paper summaries into normalized Paper records.
//
// Field extraction is table driven: each field owns an ordered list of
// (key path, transform) rules and a default. Missing keys, nulls and values of
// an unexpected type fall through to the next rule and finally to the default,
// so only documents that are not JSON objects are rejected.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/starford/exhyte/internal/checksum"
	"github.com/starford/exhyte/internal/models"
)

// ErrNotObject is returned for documents whose top-level value is not a JSON object.
var ErrNotObject = errors.New("top-level JSON value is not an object")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Stem returns the file name without its extension.
func Stem(file string) string {
	return file[:len(file)-len(filepath.Ext(file))]
}

// Parse decodes data and maps it onto a Paper identified by file's stem.
func Parse(file string, data []byte) (*models.Paper, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	doc, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	search, err := canonical(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}

	raw := make(json.RawMessage, len(data))
	copy(raw, data)

	p := models.Paper{
		ID:        Stem(file),
		File:      file,
		Title:     titleField.extract(doc, file),
		Authors:   authorsField.extract(doc, file),
		Published: publishedField.extract(doc, file),
		Topics:    topicsField.extract(doc, file),
		Link:      linkField.extract(doc, file),
		Checksum:  checksum.Sum(data),
		Raw:       raw,
	}.WithSearchText(search)

	return &p, nil
}

func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data after top-level value")
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return doc, nil
}

// canonical re-serializes doc compactly without HTML escaping so that keyword
// search sees decoded text (\u escapes resolved) rather than source formatting.
func canonical(doc map[string]any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
