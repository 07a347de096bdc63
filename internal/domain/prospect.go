package domain

import "time"

// ProspectStatus is the outreach workflow state of a prospect.
type ProspectStatus string

const (
	StatusUncontacted ProspectStatus = "uncontacted"
	StatusContacted   ProspectStatus = "contacted"
	StatusQualified   ProspectStatus = "qualified"
	StatusBadFit      ProspectStatus = "bad-fit"
)

// ProspectStatuses lists every accepted status value.
var ProspectStatuses = []ProspectStatus{
	StatusUncontacted,
	StatusContacted,
	StatusQualified,
	StatusBadFit,
}

// Valid reports whether s is one of the four workflow states.
func (s ProspectStatus) Valid() bool {
	for _, v := range ProspectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Default origins applied when the caller does not supply one.
const (
	OriginManual    = "manual"
	OriginPurchased = "purchased"
)

// Prospect is a contact candidate for outreach.
//
// The Normalized* fields are derived at write time from Email, Website and
// ContactName and are never accepted from callers.
type Prospect struct {
	ID       string  `json:"id" db:"id"`
	SourceID *string `json:"sourceId" db:"source_id"`

	CompanyName string `json:"companyName" db:"company_name"`
	ContactName string `json:"contactName" db:"contact_name"`
	Role        string `json:"role" db:"role"`
	Email       string `json:"email" db:"email"`
	Phone       string `json:"phone" db:"phone"`
	Website     string `json:"website" db:"website"`
	Tags        string `json:"tags" db:"tags"`
	OwnerName   string `json:"ownerName" db:"owner_name"`

	NormalizedEmail       *string `json:"normalizedEmail" db:"normalized_email"`
	NormalizedDomain      *string `json:"normalizedDomain" db:"normalized_domain"`
	NormalizedContactName *string `json:"normalizedContactName" db:"normalized_contact_name"`

	Origin string         `json:"origin" db:"origin"`
	Status ProspectStatus `json:"status" db:"status"`

	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
	LastContactedAt *time.Time `json:"lastContactedAt" db:"last_contacted_at"`
	ArchivedAt      *time.Time `json:"archivedAt" db:"archived_at"`
	SuppressedAt    *time.Time `json:"suppressedAt" db:"suppressed_at"`
}

// IsArchived reports whether the prospect is soft-hidden.
func (p *Prospect) IsArchived() bool { return p.ArchivedAt != nil }

// IsSuppressed reports whether the prospect has opted out.
func (p *Prospect) IsSuppressed() bool { return p.SuppressedAt != nil }

// ProspectNote is a free-text note attached to a prospect.
type ProspectNote struct {
	ID         string    `json:"id" db:"id"`
	ProspectID string    `json:"prospectId" db:"prospect_id"`
	Author     string    `json:"author" db:"author"`
	Body       string    `json:"body" db:"body"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
