package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func snapshot() *Index {
	return IndexRows([]Row{
		{ID: "p-email", NormalizedEmail: str("a@b.com"), NormalizedDomain: str("b.com"), NormalizedContactName: str("alice")},
		{ID: "p-fallback", NormalizedDomain: str("acme.com"), NormalizedContactName: str("jane doe"), Suppressed: true},
		{ID: "p-supp-email", NormalizedEmail: str("gone@x.io"), Suppressed: true},
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	ix := snapshot()

	tests := []struct {
		name       string
		keys       Keys
		rule       Rule
		existingID string
		suppressed bool
	}{
		{
			name:       "email match",
			keys:       KeysFor("Someone Else", "A@B.com ", ""),
			rule:       EmailRule,
			existingID: "p-email",
		},
		{
			name:       "email match wins regardless of domain and name",
			keys:       KeysFor("Jane Doe", "a@b.com", "acme.com"),
			rule:       EmailRule,
			existingID: "p-email",
		},
		{
			name: "unique email ignores domain+name collision",
			keys: KeysFor("Jane Doe", "jane@acme.com", "https://www.acme.com"),
			rule: NoMatch,
		},
		{
			name:       "fallback match without email",
			keys:       KeysFor("Jane   Doe", "", "https://www.ACME.com"),
			rule:       FallbackRule,
			existingID: "p-fallback",
			suppressed: true,
		},
		{
			name:       "fallback against row that has an email",
			keys:       KeysFor("alice", "", "b.com"),
			rule:       FallbackRule,
			existingID: "p-email",
		},
		{
			name:       "suppressed email match",
			keys:       KeysFor("", "GONE@x.io", ""),
			rule:       EmailRule,
			existingID: "p-supp-email",
			suppressed: true,
		},
		{
			name: "domain without name is admissible",
			keys: KeysFor("", "", "acme.com"),
			rule: NoMatch,
		},
		{
			name: "no key material at all",
			keys: Keys{},
			rule: NoMatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(ctx, ix, tt.keys)
			require.NoError(t, err)
			assert.Equal(t, tt.rule, res.Rule)
			assert.Equal(t, tt.existingID, res.ExistingID)
			assert.Equal(t, tt.suppressed, res.Suppressed)
			assert.Equal(t, tt.rule != NoMatch, res.Duplicate())
		})
	}
}

type failingLookup struct{}

func (failingLookup) ByEmail(context.Context, string) (*Existing, error) {
	return nil, errors.New("boom")
}

func (failingLookup) ByDomainName(context.Context, string, string) (*Existing, error) {
	return nil, errors.New("boom")
}

func TestResolve_PropagatesLookupError(t *testing.T) {
	_, err := Resolve(context.Background(), failingLookup{}, KeysFor("", "a@b.com", ""))
	assert.Error(t, err)

	_, err = Resolve(context.Background(), failingLookup{}, KeysFor("Jane", "", "acme.com"))
	assert.Error(t, err)
}

func TestIndex_AddKeepsFirstID(t *testing.T) {
	ix := NewIndex()
	k := KeysFor("Jane", "jane@acme.com", "acme.com")
	ix.Add("first", k, false)
	ix.Add("second", k, false)

	e, err := ix.ByEmail(context.Background(), "jane@acme.com")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "first", e.ID)
	assert.False(t, e.Suppressed)
	assert.Equal(t, 2, ix.Len())
}

func TestRuleString(t *testing.T) {
	assert.Equal(t, "email", EmailRule.String())
	assert.Equal(t, "domain+name", FallbackRule.String())
	assert.Equal(t, "none", NoMatch.String())
}
