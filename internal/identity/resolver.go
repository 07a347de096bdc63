package identity

import "context"

// Rule identifies which key produced a match.
type Rule int

const (
	// NoMatch means the candidate is admissible.
	NoMatch Rule = iota
	// EmailRule matched on normalized email.
	EmailRule
	// FallbackRule matched on normalized domain plus contact name.
	FallbackRule
)

func (r Rule) String() string {
	switch r {
	case EmailRule:
		return "email"
	case FallbackRule:
		return "domain+name"
	default:
		return "none"
	}
}

// Existing is the part of a stored prospect the resolver needs.
type Existing struct {
	ID         string
	Suppressed bool
}

// Lookup answers existence questions for both keys. A nil *Existing with a
// nil error means no row carries the key.
type Lookup interface {
	ByEmail(ctx context.Context, email string) (*Existing, error)
	ByDomainName(ctx context.Context, domain, name string) (*Existing, error)
}

// Resolution is the resolver's verdict for one candidate.
type Resolution struct {
	Rule       Rule
	ExistingID string
	// Suppressed is set when the matched row has opted out.
	Suppressed bool
}

// Duplicate reports whether the candidate collides with an existing row.
func (r Resolution) Duplicate() bool { return r.Rule != NoMatch }

// Resolve applies the matching rules in order and stops at the first hit.
// The domain+name rule is consulted only when the candidate has no email, so
// two people at one company with different emails never collide.
func Resolve(ctx context.Context, lk Lookup, k Keys) (Resolution, error) {
	if k.Email != nil {
		e, err := lk.ByEmail(ctx, *k.Email)
		if err != nil {
			return Resolution{}, err
		}
		if e != nil {
			return Resolution{Rule: EmailRule, ExistingID: e.ID, Suppressed: e.Suppressed}, nil
		}
		return Resolution{}, nil
	}
	if k.Domain != nil && k.Name != nil {
		e, err := lk.ByDomainName(ctx, *k.Domain, *k.Name)
		if err != nil {
			return Resolution{}, err
		}
		if e != nil {
			return Resolution{Rule: FallbackRule, ExistingID: e.ID, Suppressed: e.Suppressed}, nil
		}
	}
	return Resolution{}, nil
}
