package service

import (
	"context"
	"time"

	"github.com/spec-kit/exam-compliance/internal/compliance"
	"github.com/spec-kit/exam-compliance/internal/domain"
)

var today = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) string {
	return today.AddDate(0, 0, -n).Format(compliance.DisplayDateLayout)
}

type stubSource struct {
	records     []domain.ExamRecord
	roles       []domain.RoleExamRequirement
	recordsErr  error
	rolesErr    error
	invalidated int
}

func (s *stubSource) ExamRecords(context.Context) ([]domain.ExamRecord, error) {
	return s.records, s.recordsErr
}

func (s *stubSource) RoleRequirements(context.Context) ([]domain.RoleExamRequirement, error) {
	return s.roles, s.rolesErr
}

func (s *stubSource) Invalidate(context.Context) error {
	s.invalidated++
	return nil
}

func operatorFixture() *stubSource {
	base := domain.ExamRecord{
		Company: "acme ltda",
		CNPJ:    "01.234.567/0001-89",
		Area:    "produção",
	}
	rec := func(id, name, role, examType, date, cpf string) domain.ExamRecord {
		r := base
		r.RegistrationID = id
		r.EmployeeName = name
		r.Role = role
		r.ExamType = examType
		r.LastExamDate = date
		r.CPF = cpf
		return r
	}
	return &stubSource{
		records: []domain.ExamRecord{
			rec("001", "ana souza", "Operator", "Periódico", daysAgo(400), "12345678901"),
			rec("002", "bruno lima", "Operator", "Periódico", daysAgo(10), "23456789012"),
			rec("003", "carla dias", "Operator", "Periódico", daysAgo(340), "34567890123"),
			rec("001", "ana souza", "Operator", "Audiometria", daysAgo(390), "12345678901"),
			rec("004", "davi rocha", "Soldador", "Periódico", daysAgo(500), "456"),
			rec("005", "elis melo", "Soldador", "Periódico", "", ""),
			rec("006", "fabio reis", "Eletricista", "Periódico", "31/02/2024", ""),
		},
		roles: []domain.RoleExamRequirement{
			{Role: "Operator", RequiredExams: []string{"Audiometria", "Hemograma"}},
			{Role: "Eletricista", RequiredExams: []string{}},
		},
	}
}
