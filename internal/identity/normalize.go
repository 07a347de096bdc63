package identity

import (
	"net/url"
	"strings"
)

// NormalizeEmail trims and lowercases an email address. It returns nil when
// nothing is left.
func NormalizeEmail(raw string) *string {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return nil
	}
	return &v
}

// NormalizeName lowercases a person name and collapses whitespace runs to a
// single space. It returns nil when nothing is left.
func NormalizeName(raw string) *string {
	v := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if v == "" {
		return nil
	}
	return &v
}

// ExtractDomain derives the bare company host for a prospect. The website is
// preferred; when it is empty or cannot be parsed the part of email after the
// '@' is used instead. A leading "www." is dropped in both cases.
func ExtractDomain(website, email string) *string {
	if host := hostFromWebsite(website); host != "" {
		return &host
	}
	if host := hostFromEmail(email); host != "" {
		return &host
	}
	return nil
}

func hostFromWebsite(website string) string {
	w := strings.TrimSpace(website)
	if w == "" {
		return ""
	}
	if !strings.Contains(w, "://") {
		w = "https://" + w
	}
	u, err := url.Parse(w)
	if err != nil {
		return ""
	}
	return stripWWW(strings.ToLower(u.Hostname()))
}

func hostFromEmail(email string) string {
	e := strings.TrimSpace(email)
	at := strings.LastIndex(e, "@")
	if at < 0 {
		return ""
	}
	return stripWWW(strings.ToLower(strings.TrimSpace(e[at+1:])))
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// HasIdentifier reports whether at least one of company name, contact name
// or email carries non-whitespace text. Rows without one are unusable.
func HasIdentifier(companyName, contactName, email string) bool {
	return strings.TrimSpace(companyName) != "" ||
		strings.TrimSpace(contactName) != "" ||
		strings.TrimSpace(email) != ""
}
