package identity

import "context"

// Row is the identity projection of a stored prospect.
type Row struct {
	ID                    string
	NormalizedEmail       *string
	NormalizedDomain      *string
	NormalizedContactName *string
	Suppressed            bool
}

// Index is an in-memory Lookup keyed by "email:<v>" and
// "domain+name:<domain>:<name>". A snapshot of the table and the set of rows
// admitted so far in a batch are both Indexes, so they are checked the same
// way. Index is not safe for concurrent use.
type Index struct {
	entries    map[string]string
	suppressed map[string]struct{}
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		entries:    make(map[string]string),
		suppressed: make(map[string]struct{}),
	}
}

// IndexRows builds an index over a table snapshot.
func IndexRows(rows []Row) *Index {
	ix := NewIndex()
	for _, r := range rows {
		k := Keys{Email: r.NormalizedEmail, Domain: r.NormalizedDomain, Name: r.NormalizedContactName}
		ix.Add(r.ID, k, r.Suppressed)
	}
	return ix
}

// Add records every key the material yields. Both keys are recorded even
// when an email is present, so a later email-less candidate still collides
// on domain+name. The first id seen for a key is kept.
func (ix *Index) Add(id string, k Keys, suppressed bool) {
	for _, key := range [2]string{k.EmailKey(), k.FallbackKey()} {
		if key == "" {
			continue
		}
		if _, ok := ix.entries[key]; !ok {
			ix.entries[key] = id
		}
		if suppressed {
			ix.suppressed[key] = struct{}{}
		}
	}
}

// Len returns the number of distinct keys held.
func (ix *Index) Len() int { return len(ix.entries) }

func (ix *Index) get(key string) *Existing {
	id, ok := ix.entries[key]
	if !ok {
		return nil
	}
	_, sup := ix.suppressed[key]
	return &Existing{ID: id, Suppressed: sup}
}

// ByEmail implements Lookup.
func (ix *Index) ByEmail(_ context.Context, email string) (*Existing, error) {
	return ix.get(Keys{Email: &email}.EmailKey()), nil
}

// ByDomainName implements Lookup.
func (ix *Index) ByDomainName(_ context.Context, domain, name string) (*Existing, error) {
	return ix.get(Keys{Domain: &domain, Name: &name}.FallbackKey()), nil
}
