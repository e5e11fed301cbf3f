package object

import "strings"

// Ref identifies one instance in one store.
type Ref struct {
	Store string `json:"store"`
	ID    string `json:"id"`
}

// String renders the ref as "store/id".
func (r Ref) String() string {
	return r.Store + "/" + r.ID
}

// IsZero reports whether r is the zero Ref.
func (r Ref) IsZero() bool {
	return r.Store == "" && r.ID == ""
}

// Compare orders refs by store, then id.
func (r Ref) Compare(other Ref) int {
	if c := strings.Compare(r.Store, other.Store); c != 0 {
		return c
	}
	return strings.Compare(r.ID, other.ID)
}

// ParseRef parses "store/id". The id may itself contain slashes.
func ParseRef(s string) (Ref, bool) {
	store, id, ok := strings.Cut(s, "/")
	if !ok || store == "" || id == "" {
		return Ref{}, false
	}
	return Ref{Store: store, ID: id}, true
}
