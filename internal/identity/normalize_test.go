package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a@b.com", "a@b.com"},
		{"  A@B.com ", "a@b.com"},
		{"MiXeD.Case@Example.ORG", "mixed.case@example.org"},
		{"", "<nil>"},
		{"   \t\n", "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, deref(NormalizeEmail(tt.in)))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "jane doe"},
		{"  Jane   Doe  ", "jane doe"},
		{"JANE\t\nDOE", "jane doe"},
		{"Élodie  Martin", "élodie martin"},
		{"", "<nil>"},
		{"    ", "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, deref(NormalizeName(tt.in)))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"", " ", "a@b.com", "  A@B.COM  ", "Jane   Doe", "\tMARY  ann\nSmith ",
		"x", "ÄÖÜ  straße", "  multiple   inner   spaces  ",
	}
	for _, in := range inputs {
		if once := NormalizeEmail(in); once != nil {
			assert.Equal(t, *once, deref(NormalizeEmail(*once)), "email %q", in)
		}
		if once := NormalizeName(in); once != nil {
			assert.Equal(t, *once, deref(NormalizeName(*once)), "name %q", in)
		}
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name    string
		website string
		email   string
		want    string
	}{
		{"full url", "https://www.ACME.com/about", "", "acme.com"},
		{"no scheme", "acme.com", "", "acme.com"},
		{"no scheme with www", "www.Acme.io/path?q=1", "", "acme.io"},
		{"http with port", "http://acme.com:8080", "", "acme.com"},
		{"subdomain kept", "https://blog.acme.com", "", "blog.acme.com"},
		{"website preferred over email", "acme.com", "jane@other.org", "acme.com"},
		{"unparseable website falls back to email", "not a url", "jane@Acme.com", "acme.com"},
		{"empty website falls back to email", "", "jane@www.acme.com", "acme.com"},
		{"email without at", "", "jane", "<nil>"},
		{"nothing usable", "", "", "<nil>"},
		{"whitespace only", "   ", "  ", "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deref(ExtractDomain(tt.website, tt.email)))
		})
	}
}

func TestHasIdentifier(t *testing.T) {
	assert.False(t, HasIdentifier("", "", ""))
	assert.False(t, HasIdentifier("  ", "\t", " "))
	assert.True(t, HasIdentifier("Acme", "", ""))
	assert.True(t, HasIdentifier("", "Jane", ""))
	assert.True(t, HasIdentifier("", "", "a@b.com"))
}

func TestKeys(t *testing.T) {
	k := KeysFor("Jane   Doe", " Jane@Acme.com", "https://www.acme.com")
	assert.Equal(t, "email:jane@acme.com", k.EmailKey())
	assert.Equal(t, "domain+name:acme.com:jane doe", k.FallbackKey())

	noName := KeysFor("", "", "acme.com")
	assert.Equal(t, "", noName.EmailKey())
	assert.Equal(t, "", noName.FallbackKey())
}

func TestIsPublicHost(t *testing.T) {
	for _, h := range []string{"acme.com", "blog.acme.io", "ACME.COM", "acme.co.uk."} {
		assert.True(t, IsPublicHost(h), h)
	}
	for _, h := range []string{
		"", "localhost", "intranet",
		"127.0.0.1", "10.0.0.5", "169.254.169.254", "::1", "[fe80::1]",
		"metadata.google.internal", "printer.local", "api.localhost", "nas.home.arpa",
	} {
		assert.False(t, IsPublicHost(h), h)
	}
}
