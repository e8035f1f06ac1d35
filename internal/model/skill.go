package model

import "time"

// Proficiency levels accepted for a skill.
var ProficiencyLevels = []string{"Beginner", "Intermediate", "Advanced", "Expert"}

// Skill represents a teachable skill owned by exactly one user.
type Skill struct {
	ID               int64
	UserID           int64
	Title            string
	Description      string
	Category         string
	ProficiencyLevel string
	Value            int
	IsActive         bool
	CreatedAt        time.Time
}

// CreateSkillRequest represents a skill creation request.
type CreateSkillRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	ProficiencyLevel string `json:"proficiency_level"`
	Value            int    `json:"value,omitempty"`
}

// UpdateSkillRequest represents a partial skill update.
type UpdateSkillRequest struct {
	Title            *string `json:"title,omitempty"`
	Description      *string `json:"description,omitempty"`
	Category         *string `json:"category,omitempty"`
	ProficiencyLevel *string `json:"proficiency_level,omitempty"`
	Value            *int    `json:"value,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

// SkillResponse represents a skill in API responses, including its owner.
type SkillResponse struct {
	ID               int64         `json:"id"`
	UserID           int64         `json:"user_id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Category         string        `json:"category"`
	ProficiencyLevel string        `json:"proficiency_level"`
	Value            int           `json:"value"`
	IsActive         bool          `json:"is_active"`
	CreatedAt        time.Time     `json:"created_at"`
	Owner            *UserResponse `json:"owner,omitempty"`
}

// ToResponse converts a Skill to its API representation. owner may be nil
// when the caller did not load it.
func (s *Skill) ToResponse(owner *User) SkillResponse {
	resp := SkillResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		Title:            s.Title,
		Description:      s.Description,
		Category:         s.Category,
		ProficiencyLevel: s.ProficiencyLevel,
		Value:            s.Value,
		IsActive:         s.IsActive,
		CreatedAt:        s.CreatedAt,
	}
	if owner != nil {
		o := owner.ToResponse()
		resp.Owner = &o
	}
	return resp
}

// ValidProficiency reports whether level is one of the accepted proficiency labels.
func ValidProficiency(level string) bool {
	for _, l := range ProficiencyLevels {
		if l == level {
			return true
		}
	}
	return false
}
