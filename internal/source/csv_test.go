package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dadosCSV = "\ufeffMatrícula,Nome do Funcionário,Empresa,CNPJ,Cargo,Área,Tipo de Exame,Data do Último Exame,CPF\n" +
	"00123,ana souza,acme ltda,01.234.567/0001-89,Operador,produção,Periódico,10/01/2023,012.345.678-90\n" +
	"\n" +
	"00456,bruno lima,acme ltda,01.234.567/0001-89,Operador,produção,Audiometria,,98765432100\n" +
	"00789,carla dias,acme ltda,01.234.567/0001-89,Soldador\n"

func TestReadExamRecords(t *testing.T) {
	records, err := ReadExamRecords(strings.NewReader(dadosCSV))
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "00123", first.RegistrationID)
	assert.Equal(t, "ana souza", first.EmployeeName)
	assert.Equal(t, "01.234.567/0001-89", first.CNPJ)
	assert.Equal(t, "produção", first.Area)
	assert.Equal(t, "10/01/2023", first.LastExamDate)
	assert.Equal(t, "012.345.678-90", first.CPF)

	assert.Empty(t, records[1].LastExamDate)

	short := records[2]
	assert.Equal(t, "Soldador", short.Role)
	assert.Empty(t, short.Area)
	assert.Empty(t, short.CPF)
}

func TestReadExamRecordsAcceptsDriftedHeaders(t *testing.T) {
	input := "Matrícula,Nome do Funcionário,Cargo,Area,Tipo,Data do Último Exame\n" +
		"1,Ana,Operador,Manutenção,Periódico,01/02/2023\n"
	records, err := ReadExamRecords(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Manutenção", records[0].Area)
	assert.Equal(t, "Periódico", records[0].ExamType)
}

func TestReadExamRecordsRequiresDateColumn(t *testing.T) {
	_, err := ReadExamRecords(strings.NewReader("Matrícula,Nome do Funcionário\n1,Ana\n"))
	assert.Error(t, err)

	_, err = ReadExamRecords(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadRoleRequirements(t *testing.T) {
	input := "Função,Exames Obrigatórios\n" +
		"Operador,\"Audiometria, Hemograma\"\n" +
		"Soldador,\n"
	reqs, err := ReadRoleRequirements(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "Operador", reqs[0].Role)
	assert.Equal(t, []string{"Audiometria", "Hemograma"}, reqs[0].RequiredExams)
	assert.Equal(t, "Soldador", reqs[1].Role)
	assert.Empty(t, reqs[1].RequiredExams)
}

func TestCSVSourceMissingFileIsUnavailable(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), filepath.Join(t.TempDir(), "nope.csv"))

	_, err := src.ExamRecords(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = src.RoleRequirements(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCSVSourceReadsFiles(t *testing.T) {
	dir := t.TempDir()
	recordsPath := filepath.Join(dir, "dados.csv")
	rolesPath := filepath.Join(dir, "funcao_exames.csv")
	require.NoError(t, os.WriteFile(recordsPath, []byte(dadosCSV), 0o600))
	require.NoError(t, os.WriteFile(rolesPath, []byte("Função,Exames Obrigatórios\nOperador,Audiometria\n"), 0o600))

	src := NewCSVSource(recordsPath, rolesPath)
	records, err := src.ExamRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)

	reqs, err := src.RoleRequirements(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Audiometria"}, reqs[0].RequiredExams)
}
