package cache

import (
	"fmt"

	"github.com/roach88/discern/internal/object"
)

// Key identifies an unordered pair of instances. A sorts at or before B.
type Key struct {
	A object.Ref `json:"a"`
	B object.Ref `json:"b"`
}

// NewKey builds the normalized key for a and b.
func NewKey(a, b object.Ref) Key {
	if a.Compare(b) > 0 {
		a, b = b, a
	}
	return Key{A: a, B: b}
}

// String formats the key as "a <-> b".
func (k Key) String() string {
	return k.A.String() + " <-> " + k.B.String()
}

// Entry is one cached outcome.
type Entry struct {
	Key   Key  `json:"key"`
	Equal bool `json:"equal"`
}

// String formats the entry for logs and dumps.
func (e Entry) String() string {
	verdict := "different"
	if e.Equal {
		verdict = "equivalent"
	}
	return fmt.Sprintf("%s: %s", e.Key, verdict)
}

// Pairs is an insertion-ordered map from pair key to outcome.
type Pairs struct {
	index   map[Key]int
	entries []Entry
}

// New creates an empty cache.
func New() *Pairs {
	return &Pairs{index: make(map[Key]int)}
}

// Get returns the cached outcome for (a, b) in either order.
func (p *Pairs) Get(a, b object.Ref) (equal, ok bool) {
	i, ok := p.index[NewKey(a, b)]
	if !ok {
		return false, false
	}
	return p.entries[i].Equal, true
}

// Put records the outcome for (a, b). Overwriting an existing pair moves it
// to the end, so RemoveLast always drops the most recent write.
func (p *Pairs) Put(a, b object.Ref, equal bool) {
	k := NewKey(a, b)
	if i, ok := p.index[k]; ok {
		p.removeAt(i)
	}
	p.index[k] = len(p.entries)
	p.entries = append(p.entries, Entry{Key: k, Equal: equal})
}

func (p *Pairs) removeAt(i int) {
	delete(p.index, p.entries[i].Key)
	copy(p.entries[i:], p.entries[i+1:])
	p.entries[len(p.entries)-1] = Entry{}
	p.entries = p.entries[:len(p.entries)-1]
	for j := i; j < len(p.entries); j++ {
		p.index[p.entries[j].Key] = j
	}
}

// RemoveLast drops the most recently written entry. ok is false when the
// cache is empty.
func (p *Pairs) RemoveLast() (Entry, bool) {
	if len(p.entries) == 0 {
		return Entry{}, false
	}
	last := p.entries[len(p.entries)-1]
	p.removeAt(len(p.entries) - 1)
	return last, true
}

// Flush removes every entry.
func (p *Pairs) Flush() {
	p.index = make(map[Key]int)
	p.entries = p.entries[:0]
}

// Len returns the number of entries.
func (p *Pairs) Len() int {
	return len(p.entries)
}

// Entries returns a copy of the entries in insertion order.
func (p *Pairs) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Clone returns an independent copy.
func (p *Pairs) Clone() *Pairs {
	c := &Pairs{
		index:   make(map[Key]int, len(p.index)),
		entries: p.Entries(),
	}
	for k, v := range p.index {
		c.index[k] = v
	}
	return c
}
