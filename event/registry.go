package event

import (
	"sort"

	"github.com/lixenwraith/loom/core"
	"github.com/lixenwraith/loom/errors"
)

// Row is one routing registry entry
type Row struct {
	Entry
	Owner core.ID
	seq   uint64
}

// Registry is a container's routing table: which direct child wants what, at which priority
// Rows are kept strictest first, ties in insertion order
type Registry struct {
	rows []Row
	seq  uint64
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers an entry for owner
// Panics when another owner already holds the same receivable at the same routable priority
func (r *Registry) Add(owner core.ID, e Entry) {
	if e.Priority.Routable() {
		k := e.Event.Key()
		for _, row := range r.rows {
			if row.Priority == e.Priority && row.Owner != owner && row.Event.Key() == k {
				errors.Invariant("registry.add", "%s already registered at %s by %s, refused for %s",
					k, e.Priority, row.Owner, owner)
			}
		}
	}

	r.seq++
	row := Row{Entry: e, Owner: owner, seq: r.seq}
	i := sort.Search(len(r.rows), func(i int) bool {
		return r.rows[i].Priority < e.Priority
	})
	r.rows = append(r.rows, Row{})
	copy(r.rows[i+1:], r.rows[i:])
	r.rows[i] = row
}

// Remove drops one row matching owner and entry, reports whether one was found
func (r *Registry) Remove(owner core.ID, e Entry) bool {
	k := e.Event.Key()
	for i, row := range r.rows {
		if row.Owner == owner && row.Priority == e.Priority && row.Event.Key() == k {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveOwner drops every row of owner and returns the removed entries
func (r *Registry) RemoveOwner(owner core.ID) []Entry {
	var removed []Entry
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.Owner == owner {
			removed = append(removed, row.Entry)
			continue
		}
		kept = append(kept, row)
	}
	clear(r.rows[len(kept):])
	r.rows = kept
	return removed
}

// Apply applies a delta on behalf of owner, removals before additions
func (r *Registry) Apply(owner core.ID, d Delta) {
	for _, e := range d.Remove {
		r.Remove(owner, e)
	}
	for _, e := range d.Add {
		r.Add(owner, e)
	}
}

// Rows returns a snapshot in routing order
func (r *Registry) Rows() []Row {
	return append([]Row(nil), r.rows...)
}

// Entries returns every registered entry in routing order
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.rows))
	for i, row := range r.rows {
		out[i] = row.Entry
	}
	return out
}

// OwnerEntries returns the entries registered by owner
func (r *Registry) OwnerEntries(owner core.ID) []Entry {
	var out []Entry
	for _, row := range r.rows {
		if row.Owner == owner {
			out = append(out, row.Entry)
		}
	}
	return out
}

// Lookup returns the owner of the strictest routable row for the receivable
func (r *Registry) Lookup(rc Receivable) (core.ID, bool) {
	k := rc.Key()
	for _, row := range r.rows {
		if !row.Priority.Routable() {
			break
		}
		if row.Event.Key() == k {
			return row.Owner, true
		}
	}
	return core.NoID, false
}

// Owners returns every distinct owner registered for rc at any priority, in routing order
func (r *Registry) Owners(rc Receivable) []core.ID {
	k := rc.Key()
	var out []core.ID
	seen := make(map[core.ID]bool)
	for _, row := range r.rows {
		if row.Event.Key() == k && !seen[row.Owner] {
			seen[row.Owner] = true
			out = append(out, row.Owner)
		}
	}
	return out
}

// Len returns the number of rows
func (r *Registry) Len() int {
	return len(r.rows)
}
