package dto

import (
	"time"

	"github.com/spec-kit/exam-compliance/internal/compliance"
	"github.com/spec-kit/exam-compliance/internal/domain"
)

// StatusResponse describes one urgency tier for display.
type StatusResponse struct {
	Code  domain.Status `json:"code"`
	Label string        `json:"label"`
	Icon  string        `json:"icon"`
}

// RecordResponse is one row of the detailed table.
type RecordResponse struct {
	RegistrationID string         `json:"registration_id"`
	EmployeeName   string         `json:"employee_name"`
	Company        string         `json:"company"`
	Role           string         `json:"role"`
	Area           string         `json:"area"`
	ExamType       string         `json:"exam_type"`
	LastExamDate   string         `json:"last_exam_date"`
	ExpiryDate     string         `json:"expiry_date"`
	Status         StatusResponse `json:"status"`
}

// SummaryResponse carries the per-status counters.
type SummaryResponse struct {
	Counts     []StatusCount `json:"counts"`
	RawRows    int           `json:"raw_rows"`
	Classified int           `json:"classified"`
	Dropped    int           `json:"dropped"`
}

// StatusCount pairs a tier with its number of records.
type StatusCount struct {
	Status StatusResponse `json:"status"`
	Count  int            `json:"count"`
}

// FilterOptionsResponse lists the selectable filter values.
type FilterOptionsResponse struct {
	Companies []string         `json:"companies"`
	ExamTypes []string         `json:"exam_types"`
	Statuses  []StatusResponse `json:"statuses"`
}

// AlertResponse names an employee needing attention.
type AlertResponse struct {
	EmployeeName string `json:"employee_name"`
	Role         string `json:"role"`
}

// AlertsResponse groups alerts by tier.
type AlertsResponse struct {
	Expired      []AlertResponse `json:"expired"`
	ExpiringSoon []AlertResponse `json:"expiring_soon"`
}

// PendingEmployeeResponse is an expired employee listed under a role.
type PendingEmployeeResponse struct {
	RegistrationID string `json:"registration_id"`
	EmployeeName   string `json:"employee_name"`
	CPF            string `json:"cpf"`
	ExpiryDate     string `json:"expiry_date"`
}

// RoleDetailResponse is the per-role analysis panel.
type RoleDetailResponse struct {
	Role             string                    `json:"role"`
	RequiredExams    []string                  `json:"required_exams"`
	Mapped           bool                      `json:"mapped"`
	PendingEmployees []PendingEmployeeResponse `json:"pending_employees"`
}

// SelectRoleRequest payload.
type SelectRoleRequest struct {
	Role string `json:"role"`
}

// GenerateAuthorizationRequest payload. Role defaults to the selection.
type GenerateAuthorizationRequest struct {
	Role string `json:"role"`
}

// AuthorizationResponse carries a generated document.
type AuthorizationResponse struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Employees int    `json:"employees"`
	Exams     int    `json:"exams"`
}

// SessionResponse is the operator's current interaction state.
type SessionResponse struct {
	SelectedRole      string    `json:"selected_role,omitempty"`
	AuthorizationText string    `json:"authorization_text,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewStatusResponse converts a tier.
func NewStatusResponse(s domain.Status) StatusResponse {
	return StatusResponse{Code: s, Label: s.Label(), Icon: s.Icon()}
}

// NewRecordResponse converts a classified row, rendering dates as DD/MM/YYYY.
func NewRecordResponse(rec domain.ClassifiedRecord) RecordResponse {
	return RecordResponse{
		RegistrationID: rec.RegistrationID,
		EmployeeName:   rec.EmployeeName,
		Company:        rec.Company,
		Role:           rec.Role,
		Area:           rec.Area,
		ExamType:       rec.ExamType,
		LastExamDate:   rec.ExamDate.Format(compliance.DisplayDateLayout),
		ExpiryDate:     rec.ExpiryDate.Format(compliance.DisplayDateLayout),
		Status:         NewStatusResponse(rec.Status),
	}
}

// NewPendingEmployeeResponse converts an expired row for the role panel.
func NewPendingEmployeeResponse(rec domain.ClassifiedRecord) PendingEmployeeResponse {
	return PendingEmployeeResponse{
		RegistrationID: rec.RegistrationID,
		EmployeeName:   compliance.TitleCase(rec.EmployeeName),
		CPF:            compliance.MaskCPF(rec.CPF),
		ExpiryDate:     rec.ExpiryDate.Format(compliance.DisplayDateLayout),
	}
}
