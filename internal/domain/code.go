package domain

import "time"

// AccessCode is one profile slot in the directory. The code doubles as
// the public URL slug. A slot is either vacant (IsUsed=false, no
// profile) or occupied (IsUsed=true, profile populated); the claim
// transition happens exactly once.
type AccessCode struct {
	Code             string     `gorm:"primaryKey;size:5" json:"code"`
	IsUsed           bool       `gorm:"index;not null;default:false" json:"is_used"`
	FirstName        string     `gorm:"size:128" json:"first_name,omitempty"`
	LastName         string     `gorm:"size:128" json:"last_name,omitempty"`
	Email            string     `gorm:"size:320;uniqueIndex:idx_access_codes_email,where:email <> ''" json:"email,omitempty"`
	Phone            string     `gorm:"size:32" json:"phone,omitempty"`
	Company          string     `gorm:"size:256" json:"company,omitempty"`
	Title            string     `gorm:"size:256" json:"title,omitempty"`
	Location         string     `gorm:"size:256" json:"location,omitempty"`
	Bio              string     `gorm:"size:2048" json:"bio,omitempty"`
	LinkedIn         string     `gorm:"size:512" json:"linkedin,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ProfileCreatedAt *time.Time `gorm:"index" json:"profile_created_at,omitempty"`
}

// Occupied reports whether the slot holds a displayable profile. A
// record with IsUsed set but no first name is treated as vacant and
// stays eligible for a claim.
func (c *AccessCode) Occupied() bool {
	return c != nil && c.IsUsed && c.FirstName != ""
}

// Profile is the claimable identity attached to a code.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
	Title     string `json:"title,omitempty"`
	Location  string `json:"location,omitempty"`
	Bio       string `json:"bio,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// Profile extracts the profile columns of an occupied slot.
func (c *AccessCode) Profile() *Profile {
	if c == nil {
		return nil
	}
	return &Profile{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Title:     c.Title,
		Location:  c.Location,
		Bio:       c.Bio,
		LinkedIn:  c.LinkedIn,
	}
}

// DisplayName renders "First Last" for headers and cards.
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
