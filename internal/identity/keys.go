package identity

// Keys is the identity key material of one prospect.
type Keys struct {
	Email  *string
	Domain *string
	Name   *string
}

// KeysFor computes the key material from raw contact fields.
func KeysFor(contactName, email, website string) Keys {
	return Keys{
		Email:  NormalizeEmail(email),
		Domain: ExtractDomain(website, email),
		Name:   NormalizeName(contactName),
	}
}

// EmailKey returns the lookup key for the email rule, or "" without an email.
func (k Keys) EmailKey() string {
	if k.Email == nil {
		return ""
	}
	return "email:" + *k.Email
}

// FallbackKey returns the lookup key for the domain+name rule, or "" unless
// both parts are present.
func (k Keys) FallbackKey() string {
	if k.Domain == nil || k.Name == nil {
		return ""
	}
	return "domain+name:" + *k.Domain + ":" + *k.Name
}
