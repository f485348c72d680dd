package compliance

import (
	"errors"
	"strings"

	"github.com/spec-kit/exam-compliance/internal/domain"
)

// GenericExamType is the exam kind named in every bulk authorization.
const GenericExamType = "Periódico"

// ErrNoEmployees is returned when an authorization is requested for nobody.
var ErrNoEmployees = errors.New("no employees to authorize")

const (
	missingCompany = "não informada"
	missingArea    = "não informada"
	missingCNPJ    = "não informado"
	missingName    = "não informado"
	missingCPF     = "não informado"
)

// BuildAuthorization renders the bulk authorization document for role.
// Company, CNPJ and area are taken from the first employee. The caller is
// expected to pass only expired, de-duplicated employees of role.
func BuildAuthorization(role string, employees []domain.ClassifiedRecord, requiredExams []string) (string, error) {
	if len(employees) == 0 {
		return "", ErrNoEmployees
	}

	first := employees[0]
	company := TitleCase(orDefault(first.Company, missingCompany))
	area := TitleCase(orDefault(first.Area, missingArea))
	cnpj := orDefault(first.CNPJ, missingCNPJ)

	var b strings.Builder
	b.WriteString("Autorizamos os funcionários abaixo a realizar exame " + GenericExamType + ".\n")
	b.WriteString("\n")
	b.WriteString("Empresa: " + company + " - CNPJ: " + cnpj + " - Área: " + area + "\n")
	b.WriteString("\n")
	for _, emp := range employees {
		name := TitleCase(orDefault(emp.EmployeeName, missingName))
		cpf := MaskCPF(orDefault(emp.CPF, missingCPF))
		b.WriteString("- Nome: " + name + " - CPF: " + cpf + "\n")
	}
	b.WriteString("\n")
	b.WriteString("Função: " + TitleCase(role) + "\n")
	b.WriteString("\n")
	b.WriteString("Seguir bateria de exames conforme PCMSO:\n")
	for _, exam := range requiredExams {
		b.WriteString("- " + TitleCase(exam) + "\n")
	}
	return b.String(), nil
}

// ParseRequiredExams splits the comma separated exam list stored by the
// source. Entries are trimmed and blanks dropped; order is preserved.
func ParseRequiredExams(raw string) []string {
	exams := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		exams = append(exams, part)
	}
	return exams
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
