package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Medium holds one durable document. Load returns nil when the document
// does not exist yet; Store replaces it wholesale.
type Medium interface {
	Load() ([]byte, error)
	Store(data []byte) error
}

// NotFoundError reports a lookup on an absent key.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no record under key %q", e.Key)
}

// Entry is one keyed record from a listing.
type Entry[T any] struct {
	Key   string
	Value T
}

// DocStore is a keyed collection of records persisted as a single JSON
// document. Every operation loads the full document, mutates it in memory
// and writes the full document back; a medium that does not exist yet is
// initialized to an empty collection on first touch.
//
// There is no internal locking. Two concurrent mutations race over the
// whole document and the later write wins, silently dropping the earlier
// one; a single logical writer per store is assumed.
type DocStore[T any] struct {
	med Medium
}

func NewDocStore[T any](med Medium) *DocStore[T] {
	return &DocStore[T]{med: med}
}

// List returns every record in document order, which is insertion order:
// new keys append, overwrites keep their position.
func (s *DocStore[T]) List() ([]Entry[T], error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]Entry[T], 0, len(doc.keys))
	for _, k := range doc.keys {
		var v T
		if err := json.Unmarshal(doc.vals[k], &v); err != nil {
			return nil, fmt.Errorf("decode record %q: %w", k, err)
		}
		out = append(out, Entry[T]{Key: k, Value: v})
	}
	return out, nil
}

// Get returns the record under key, or NotFoundError.
func (s *DocStore[T]) Get(key string) (T, error) {
	var zero T
	doc, err := s.load()
	if err != nil {
		return zero, err
	}
	raw, ok := doc.vals[key]
	if !ok {
		return zero, &NotFoundError{Key: key}
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, fmt.Errorf("decode record %q: %w", key, err)
	}
	return v, nil
}

// Put upserts the record under key, overwriting any existing value.
func (s *DocStore[T]) Put(key string, v T) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record %q: %w", key, err)
	}
	doc.set(key, raw)
	return s.persist(doc)
}

// Delete removes the record under key. Deleting an absent key is a no-op,
// not an error.
func (s *DocStore[T]) Delete(key string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.remove(key)
	return s.persist(doc)
}

func (s *DocStore[T]) load() (*document, error) {
	data, err := s.med.Load()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		doc := newDocument()
		if err := s.persist(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	return decodeDocument(data)
}

func (s *DocStore[T]) persist(doc *document) error {
	data, err := doc.encode()
	if err != nil {
		return err
	}
	return s.med.Store(data)
}

// document is the in-memory snapshot of one store: a JSON object mapping
// key to raw record, with key order preserved across decode/encode cycles.
type document struct {
	keys []string
	vals map[string]json.RawMessage
}

func newDocument() *document {
	return &document{vals: make(map[string]json.RawMessage)}
}

func (d *document) set(key string, raw json.RawMessage) {
	if _, ok := d.vals[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.vals[key] = raw
}

func (d *document) remove(key string) {
	if _, ok := d.vals[key]; !ok {
		return
	}
	delete(d.vals, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// decodeDocument parses the top-level object with a token stream so that
// key order survives the round trip; encoding/json maps would scramble it.
func decodeDocument(data []byte) (*document, error) {
	doc := newDocument()
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode document: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode document: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode record %q: %w", key, err)
		}
		doc.set(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func (d *document) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(d.vals[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
