package domain

import "time"

// ExamRecord is one employee x exam type row as delivered by the data source.
// Every field is kept as text; LastExamDate holds the raw DD/MM/YYYY value.
type ExamRecord struct {
	RegistrationID string `json:"registration_id"`
	EmployeeName   string `json:"employee_name"`
	Company        string `json:"company"`
	CNPJ           string `json:"cnpj"`
	Role           string `json:"role"`
	Area           string `json:"area"`
	ExamType       string `json:"exam_type"`
	LastExamDate   string `json:"last_exam_date"`
	CPF            string `json:"cpf"`
}

// ClassifiedRecord is an ExamRecord enriched with its derived expiry fields.
// It is recomputed on every query and never written back to the source.
type ClassifiedRecord struct {
	ExamRecord
	ExamDate   time.Time
	ExpiryDate time.Time
	Status     Status
}
