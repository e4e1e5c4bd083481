// Package status holds runtime counters written by the loop and read from anywhere
//
// Writers look a metric up once and keep the pointer; every later write is a
// single atomic operation with no map access.
package status

import (
	"math"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
)

// Float is an atomic float64, zero value ready
type Float struct {
	bits atomic.Uint64
}

func (f *Float) Set(v float64) { f.bits.Store(math.Float64bits(v)) }

func (f *Float) Get() float64 { return math.Float64frombits(f.bits.Load()) }

// Add adds delta and returns the new value
func (f *Float) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		nv := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(nv)) {
			return nv
		}
	}
}

// MaxText bounds Text values; longer values are cut
const MaxText = 32

// Text is an atomic short string, zero value ready
type Text struct {
	ptr atomic.Pointer[string]
}

func (s *Text) Store(v string) {
	if len(v) > MaxText {
		v = v[:MaxText]
	}
	s.ptr.Store(&v)
}

func (s *Text) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

// Set is a named family of metrics of one type
type Set[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func newSet[T any]() *Set[T] {
	return &Set[T]{items: make(map[string]*T)}
}

// Get returns the metric for name, creating it on first use
func (s *Set[T]) Get(name string) *T {
	s.mu.RLock()
	p, ok := s.items[name]
	s.mu.RUnlock()
	if ok {
		return p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.items[name]; ok {
		return p
	}
	p = new(T)
	s.items[name] = p
	return p
}

func (s *Set[T]) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[name]
	return ok
}

// Each visits metrics in name order
func (s *Set[T]) Each(fn func(name string, m *T)) {
	s.mu.RLock()
	names := make([]string, 0, len(s.items))
	for k := range s.items {
		names = append(names, k)
	}
	items := s.items
	s.mu.RUnlock()

	sort.Strings(names)
	for _, k := range names {
		s.mu.RLock()
		m := items[k]
		s.mu.RUnlock()
		fn(k, m)
	}
}

func (s *Set[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Registry groups the metric families of one runtime
type Registry struct {
	Counters *Set[atomic.Int64]
	Gauges   *Set[Float]
	Texts    *Set[Text]
}

func NewRegistry() *Registry {
	return &Registry{
		Counters: newSet[atomic.Int64](),
		Gauges:   newSet[Float](),
		Texts:    newSet[Text](),
	}
}

// Len is the number of metrics across families
func (r *Registry) Len() int {
	return r.Counters.Len() + r.Gauges.Len() + r.Texts.Len()
}

// Metric is one rendered value
type Metric struct {
	Name  string
	Value string
}

// Snapshot renders every metric as text, sorted by name
func (r *Registry) Snapshot() []Metric {
	out := make([]Metric, 0, r.Len())
	r.Counters.Each(func(name string, m *atomic.Int64) {
		out = append(out, Metric{Name: name, Value: strconv.FormatInt(m.Load(), 10)})
	})
	r.Gauges.Each(func(name string, m *Float) {
		out = append(out, Metric{Name: name, Value: strconv.FormatFloat(m.Get(), 'f', 2, 64)})
	})
	r.Texts.Each(func(name string, m *Text) {
		out = append(out, Metric{Name: name, Value: m.Load()})
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
