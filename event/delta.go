package event

// Delta is a change to a set of entries: removals then additions
// Both sides are multisets; an entry may appear more than once
type Delta struct {
	Remove []Entry
	Add    []Entry
}

// Empty reports whether the delta changes nothing
func (d Delta) Empty() bool {
	return len(d.Remove) == 0 && len(d.Add) == 0
}

// Net cancels entries present on both sides
func (d Delta) Net() Delta {
	adds := make(map[string]int, len(d.Add))
	for _, e := range d.Add {
		adds[e.key()]++
	}
	cancel := make(map[string]int)
	var out Delta
	for _, e := range d.Remove {
		k := e.key()
		if adds[k] > 0 {
			adds[k]--
			cancel[k]++
			continue
		}
		out.Remove = append(out.Remove, e)
	}
	for _, e := range d.Add {
		k := e.key()
		if cancel[k] > 0 {
			cancel[k]--
			continue
		}
		out.Add = append(out.Add, e)
	}
	return out
}

// Merge appends other after d
func (d Delta) Merge(other Delta) Delta {
	return Delta{
		Remove: append(append([]Entry(nil), d.Remove...), other.Remove...),
		Add:    append(append([]Entry(nil), d.Add...), other.Add...),
	}
}

// Diff is the delta that turns before into after
func Diff(before, after []Entry) Delta {
	return Delta{
		Remove: append([]Entry(nil), before...),
		Add:    append([]Entry(nil), after...),
	}.Net()
}

// Perceive maps both sides through a parent at priority p
func (d Delta) Perceive(p Priority) Delta {
	return Delta{Remove: Perceive(p, d.Remove), Add: Perceive(p, d.Add)}.Net()
}

// Apply applies the delta to a multiset of entries, removals first
func (d Delta) Apply(entries []Entry) []Entry {
	out := append([]Entry(nil), entries...)
	for _, r := range d.Remove {
		k := r.key()
		for i := range out {
			if out[i].key() == k {
				out = append(out[:i], out[i+1:]...)
				break
			}
		}
	}
	return append(out, d.Add...)
}
