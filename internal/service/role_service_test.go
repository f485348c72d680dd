package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/exam-compliance/internal/domain"
	"github.com/spec-kit/exam-compliance/internal/source"
	apperrors "github.com/spec-kit/exam-compliance/pkg/util/errorutil"
)

func newRoleService(src *stubSource) *RoleService {
	return NewRoleService(NewSnapshotLoader(src, nil, nil), nil)
}

func TestRolesWithExpired(t *testing.T) {
	svc := newRoleService(operatorFixture())
	roles, err := svc.RolesWithExpired(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, []string{"Operator", "Soldador"}, roles)
}

func TestRoleDetail(t *testing.T) {
	svc := newRoleService(operatorFixture())
	detail, err := svc.RoleDetail(context.Background(), "Operator", today)
	require.NoError(t, err)

	assert.True(t, detail.Mapped)
	assert.Equal(t, []string{"Audiometria", "Hemograma"}, detail.RequiredExams)
	require.Len(t, detail.PendingEmployees, 1, "ana has two expired rows but is listed once")
	assert.Equal(t, "ana souza", detail.PendingEmployees[0].EmployeeName)
}

func TestRoleDetailUnmappedRole(t *testing.T) {
	svc := newRoleService(operatorFixture())
	detail, err := svc.RoleDetail(context.Background(), "Soldador", today)
	require.NoError(t, err)
	assert.False(t, detail.Mapped)
	assert.Empty(t, detail.RequiredExams)
	assert.NotNil(t, detail.RequiredExams)
	assert.Len(t, detail.PendingEmployees, 1)
}

func TestRoleJoinIsCaseSensitive(t *testing.T) {
	svc := newRoleService(operatorFixture())
	detail, err := svc.RoleDetail(context.Background(), "operator", today)
	require.NoError(t, err)
	assert.False(t, detail.Mapped)
	assert.Empty(t, detail.PendingEmployees)
}

func TestGenerateAuthorizationEndToEnd(t *testing.T) {
	svc := newRoleService(operatorFixture())
	authz, err := svc.GenerateAuthorization(context.Background(), "Operator", today)
	require.NoError(t, err)

	want := "Autorizamos os funcionários abaixo a realizar exame Periódico.\n" +
		"\n" +
		"Empresa: Acme Ltda - CNPJ: 01.234.567/0001-89 - Área: Produção\n" +
		"\n" +
		"- Nome: Ana Souza - CPF: 123.456.789-01\n" +
		"\n" +
		"Função: Operator\n" +
		"\n" +
		"Seguir bateria de exames conforme PCMSO:\n" +
		"- Audiometria\n" +
		"- Hemograma\n"
	assert.Equal(t, want, authz.Text)
	assert.Equal(t, 1, authz.Employees)
	assert.Equal(t, 2, authz.Exams)
}

func TestGenerateAuthorizationUnmappedRoleHasEmptyChecklist(t *testing.T) {
	svc := newRoleService(operatorFixture())
	authz, err := svc.GenerateAuthorization(context.Background(), "Soldador", today)
	require.NoError(t, err)
	assert.Contains(t, authz.Text, "- Nome: Davi Rocha - CPF: 456\n")
	assert.Contains(t, authz.Text, "Função: Soldador\n")
	assert.Equal(t, 0, authz.Exams)
}

func TestGenerateAuthorizationWithoutExpired(t *testing.T) {
	svc := newRoleService(operatorFixture())
	_, err := svc.GenerateAuthorization(context.Background(), "Eletricista", today)
	require.Error(t, err)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, "NOTHING_TO_AUTHORIZE", de.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, de.HTTPStatus)
}

func TestRoleServiceDataUnavailable(t *testing.T) {
	src := operatorFixture()
	src.rolesErr = errors.Join(source.ErrUnavailable, errors.New("sheet missing"))
	svc := newRoleService(src)

	_, err := svc.RoleDetail(context.Background(), "Operator", today)
	assert.ErrorIs(t, err, source.ErrUnavailable)

	empty := newRoleService(&stubSource{})
	_, err = empty.RolesWithExpired(context.Background(), today)
	assert.ErrorIs(t, err, source.ErrUnavailable)
}

func TestExpiredForRoleKeepsFirstOccurrence(t *testing.T) {
	records := []domain.ClassifiedRecord{
		{ExamRecord: domain.ExamRecord{EmployeeName: "Ana", Role: "R", CPF: "1"}, Status: domain.StatusExpired},
		{ExamRecord: domain.ExamRecord{EmployeeName: "Bia", Role: "R"}, Status: domain.StatusCurrent},
		{ExamRecord: domain.ExamRecord{EmployeeName: "Ana", Role: "R", CPF: "2"}, Status: domain.StatusExpired},
		{ExamRecord: domain.ExamRecord{EmployeeName: "Caio", Role: "Q"}, Status: domain.StatusExpired},
		{ExamRecord: domain.ExamRecord{EmployeeName: "Duda", Role: "R"}, Status: domain.StatusExpired},
	}
	got := ExpiredForRole(records, "R")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].CPF)
	assert.Equal(t, "Duda", got[1].EmployeeName)
}

func TestRequiredExamsFor(t *testing.T) {
	reqs := []domain.RoleExamRequirement{
		{Role: "A", RequiredExams: []string{"X"}},
		{Role: "A", RequiredExams: []string{"Y"}},
		{Role: "B"},
	}
	exams, mapped := RequiredExamsFor(reqs, "A")
	assert.True(t, mapped)
	assert.Equal(t, []string{"X"}, exams)

	exams, mapped = RequiredExamsFor(reqs, "B")
	assert.True(t, mapped)
	assert.Equal(t, []string{}, exams)

	exams, mapped = RequiredExamsFor(reqs, "C")
	assert.False(t, mapped)
	assert.Equal(t, []string{}, exams)
}
