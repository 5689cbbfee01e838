// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// User is a registered account. PasswordHash never leaves the store layer.
type User struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Email        string    `json:"email" yaml:"email"`
	PasswordHash string    `json:"-" yaml:"-"`
	CreatedAt    time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" yaml:"updated_at"`
}

// PersonalInfo is the contact block of a resume.
type PersonalInfo struct {
	FullName            string `json:"fullName,omitempty" yaml:"full_name,omitempty"`
	Email               string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone               string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Location            string `json:"location,omitempty" yaml:"location,omitempty"`
	ProfessionalSummary string `json:"professionalSummary,omitempty" yaml:"professional_summary,omitempty"`
}

// Experience is one work history entry.
type Experience struct {
	JobTitle         string `json:"jobTitle,omitempty" yaml:"job_title,omitempty"`
	Company          string `json:"company,omitempty" yaml:"company,omitempty"`
	StartDate        string `json:"startDate,omitempty" yaml:"start_date,omitempty"`
	EndDate          string `json:"endDate,omitempty" yaml:"end_date,omitempty"`
	CurrentlyWorking bool   `json:"currentlyWorking" yaml:"currently_working"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Education is one education history entry.
type Education struct {
	School       string `json:"school,omitempty" yaml:"school,omitempty"`
	Degree       string `json:"degree,omitempty" yaml:"degree,omitempty"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty" yaml:"field_of_study,omitempty"`
	StartDate    string `json:"startDate,omitempty" yaml:"start_date,omitempty"`
	EndDate      string `json:"endDate,omitempty" yaml:"end_date,omitempty"`
	Grade        string `json:"grade,omitempty" yaml:"grade,omitempty"`
}

// Skill is a named skill with a proficiency level.
type Skill struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// Resume is one stored resume document.
type Resume struct {
	ID               string       `json:"_id" yaml:"id"`
	UserID           string       `json:"userId" yaml:"user_id"`
	Title            string       `json:"title" yaml:"title"`
	PersonalInfo     PersonalInfo `json:"personalInfo" yaml:"personal_info"`
	Experiences      []Experience `json:"experiences" yaml:"experiences"`
	Education        []Education  `json:"education" yaml:"education"`
	Skills           []Skill      `json:"skills" yaml:"skills"`
	SelectedTemplate string       `json:"selectedTemplate" yaml:"selected_template"`
	CreatedAt        time.Time    `json:"createdAt" yaml:"created_at"`
	UpdatedAt        time.Time    `json:"updatedAt" yaml:"updated_at"`
}

// ValidTemplates is the set of accepted resume template names.
var ValidTemplates = map[string]bool{
	"classic":   true,
	"modern":    true,
	"creative":  true,
	"minimal":   true,
	"ats":       true,
	"executive": true,
}

// DefaultTemplate is used when a request names an unknown template.
const DefaultTemplate = "classic"

// SkillLevels is the set of accepted skill proficiency levels.
var SkillLevels = map[string]bool{
	"Beginner":     true,
	"Intermediate": true,
	"Advanced":     true,
	"Expert":       true,
}
