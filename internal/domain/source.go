package domain

import "time"

// ICP is the ideal customer profile attached to a source.
type ICP struct {
	Industry    string `json:"industry" db:"icp_industry"`
	CompanySize string `json:"companySize" db:"icp_company_size"`
	RoleFocus   string `json:"roleFocus" db:"icp_role_focus"`
	MainAngle   string `json:"mainAngle" db:"icp_main_angle"`
}

// Source is a named lead list that prospects are imported into.
type Source struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	ICP         ICP       `json:"icp"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
