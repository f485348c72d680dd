package compliance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/exam-compliance/internal/domain"
)

func employee(name, cpf string) domain.ClassifiedRecord {
	return domain.ClassifiedRecord{
		ExamRecord: domain.ExamRecord{
			EmployeeName: name,
			Company:      "ACME INDÚSTRIA LTDA",
			CNPJ:         "12.345.678/0001-90",
			Role:         "operador de empilhadeira",
			Area:         "logística",
			CPF:          cpf,
		},
		Status: domain.StatusExpired,
	}
}

func TestBuildAuthorization(t *testing.T) {
	employees := []domain.ClassifiedRecord{
		employee("JOÃO DA SILVA", "12345678901"),
		employee("maria souza", "987.654.321-00"),
		employee("pedro lima", "1234"),
	}

	got, err := BuildAuthorization("operador de empilhadeira", employees, []string{"audiometria", "hemograma completo"})
	require.NoError(t, err)

	want := "Autorizamos os funcionários abaixo a realizar exame Periódico.\n" +
		"\n" +
		"Empresa: Acme Indústria Ltda - CNPJ: 12.345.678/0001-90 - Área: Logística\n" +
		"\n" +
		"- Nome: João Da Silva - CPF: 123.456.789-01\n" +
		"- Nome: Maria Souza - CPF: 987.654.321-00\n" +
		"- Nome: Pedro Lima - CPF: 1234\n" +
		"\n" +
		"Função: Operador De Empilhadeira\n" +
		"\n" +
		"Seguir bateria de exames conforme PCMSO:\n" +
		"- Audiometria\n" +
		"- Hemograma Completo\n"
	assert.Equal(t, want, got)
}

func TestBuildAuthorizationUsesFirstRecordForCompany(t *testing.T) {
	first := employee("Ana", "")
	second := employee("Bia", "")
	second.Company = "outra empresa"
	second.Area = "outra área"
	second.CNPJ = "99"

	got, err := BuildAuthorization("x", []domain.ClassifiedRecord{first, second}, nil)
	require.NoError(t, err)
	assert.Contains(t, got, "Empresa: Acme Indústria Ltda - CNPJ: 12.345.678/0001-90 - Área: Logística\n")
	assert.NotContains(t, got, "Outra Empresa")
}

func TestBuildAuthorizationWithoutRequiredExams(t *testing.T) {
	got, err := BuildAuthorization("soldador", []domain.ClassifiedRecord{employee("Ana", "12345678901")}, []string{})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(got, "Seguir bateria de exames conforme PCMSO:\n"))
	assert.Contains(t, got, "Função: Soldador\n")
	assert.Contains(t, got, "- Nome: Ana - CPF: 123.456.789-01\n")

	checklist := got[strings.Index(got, "PCMSO:"):]
	assert.Equal(t, 0, strings.Count(checklist, "\n- "))
}

func TestBuildAuthorizationIsDeterministic(t *testing.T) {
	employees := []domain.ClassifiedRecord{employee("Ana", "12345678901"), employee("Bia", "")}
	exams := []string{"Audiometria"}

	first, err := BuildAuthorization("soldador", employees, exams)
	require.NoError(t, err)
	second, err := BuildAuthorization("soldador", employees, exams)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildAuthorizationMissingFields(t *testing.T) {
	rec := domain.ClassifiedRecord{ExamRecord: domain.ExamRecord{EmployeeName: "ana"}}
	got, err := BuildAuthorization("soldador", []domain.ClassifiedRecord{rec}, nil)
	require.NoError(t, err)
	assert.Contains(t, got, "Empresa: Não Informada - CNPJ: não informado - Área: Não Informada\n")
	assert.Contains(t, got, "- Nome: Ana - CPF: não informado\n")
}

func TestBuildAuthorizationWithoutEmployees(t *testing.T) {
	got, err := BuildAuthorization("soldador", nil, []string{"Audiometria"})
	assert.ErrorIs(t, err, ErrNoEmployees)
	assert.Empty(t, got)
}

func TestParseRequiredExams(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "simple", raw: "Audiometria,Hemograma", want: []string{"Audiometria", "Hemograma"}},
		{name: "spaces", raw: "  Audiometria ,  Hemograma completo  ", want: []string{"Audiometria", "Hemograma completo"}},
		{name: "blank entries", raw: "Audiometria,, ,Raio X", want: []string{"Audiometria", "Raio X"}},
		{name: "empty", raw: "", want: []string{}},
		{name: "single", raw: "Espirometria", want: []string{"Espirometria"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRequiredExams(tt.raw))
		})
	}
}
