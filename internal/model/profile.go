package model

import "time"

// Experience levels offered on the profile form.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
	ExperienceExpert       = "expert"
)

// Profile is the one-to-one descriptive record of an Account.  Every field
// other than UserID is optional.
type Profile struct {
	UserID          string    `json:"user_id"`
	FullName        *string   `json:"full_name"`
	Email           *string   `json:"email"`
	Phone           *string   `json:"phone"`
	Bio             *string   `json:"bio"`
	PortfolioURL    *string   `json:"portfolio_url"`
	LinkedInURL     *string   `json:"linkedin_url"`
	GitHubURL       *string   `json:"github_url"`
	ExperienceLevel *string   `json:"experience_level"`
	AvatarURL       *string   `json:"avatar_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ProfileUpdate carries the owner-editable profile fields.  A nil pointer
// leaves the stored value untouched.
type ProfileUpdate struct {
	FullName        *string `json:"full_name" validate:"omitempty,max=100"`
	Phone           *string `json:"phone" validate:"omitempty,max=32"`
	Bio             *string `json:"bio" validate:"omitempty,max=2000"`
	PortfolioURL    *string `json:"portfolio_url" validate:"omitempty,url"`
	LinkedInURL     *string `json:"linkedin_url" validate:"omitempty,url"`
	GitHubURL       *string `json:"github_url" validate:"omitempty,url"`
	ExperienceLevel *string `json:"experience_level" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	AvatarURL       *string `json:"avatar_url" validate:"omitempty,url"`
}

// Apply copies the non-nil fields of u onto p.
func (u ProfileUpdate) Apply(p *Profile) {
	set := func(dst **string, src *string) {
		if src != nil {
			v := *src
			*dst = &v
		}
	}
	set(&p.FullName, u.FullName)
	set(&p.Phone, u.Phone)
	set(&p.Bio, u.Bio)
	set(&p.PortfolioURL, u.PortfolioURL)
	set(&p.LinkedInURL, u.LinkedInURL)
	set(&p.GitHubURL, u.GitHubURL)
	set(&p.ExperienceLevel, u.ExperienceLevel)
	set(&p.AvatarURL, u.AvatarURL)
}

// ProfileSummary is the slice of a profile joined onto admin views.  All
// fields are nil when the applicant has no profile row.
type ProfileSummary struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
}

// Summary returns the joinable fields of p.
func (p Profile) Summary() ProfileSummary {
	return ProfileSummary{FullName: p.FullName, Email: p.Email, Phone: p.Phone}
}
