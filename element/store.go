package element

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/loom/errors"
)

// Store holds an element's opaque attributes keyed by name
// Values are copied on the way in and out
type Store struct {
	vals map[string][]byte
}

func NewStore() *Store {
	return &Store{vals: make(map[string][]byte)}
}

func (s *Store) Get(key string) ([]byte, bool) {
	v, ok := s.vals[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

// Set stores a copy of val; nil deletes the key
func (s *Store) Set(key string, val []byte) {
	if val == nil {
		delete(s.vals, key)
		return
	}
	s.vals[key] = append([]byte{}, val...)
}

func (s *Store) Delete(key string) bool {
	_, ok := s.vals[key]
	delete(s.vals, key)
	return ok
}

func (s *Store) Has(key string) bool {
	_, ok := s.vals[key]
	return ok
}

// Keys returns attribute names sorted
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.vals))
	for k := range s.vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) Len() int { return len(s.vals) }

// SetValue encodes v as YAML into the element's attribute key
func SetValue[T any](el Element, key string, v T) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "attribute.encode", errors.KindUnknown)
	}
	el.SetAttribute(key, b)
	return nil
}

// Value decodes the attribute key of el into a T
// ok is false when the key is absent
func Value[T any](el Element, key string) (v T, ok bool, err error) {
	b, ok := el.Attribute(key)
	if !ok {
		return v, false, nil
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return v, true, errors.Wrap(err, "attribute.decode", errors.KindUnknown)
	}
	return v, true, nil
}
