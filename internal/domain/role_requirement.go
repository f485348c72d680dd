package domain

// RoleExamRequirement maps a role to its ordered required exam battery.
// RequiredExams may be empty, which is distinct from the role being absent.
type RoleExamRequirement struct {
	Role          string   `json:"role"`
	RequiredExams []string `json:"required_exams"`
}
