package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/spec-kit/exam-compliance/internal/compliance"
	"github.com/spec-kit/exam-compliance/internal/domain"
)

// Column headers of the "Dados" sheet.
const (
	ColRegistrationID = "Matrícula"
	ColEmployeeName   = "Nome do Funcionário"
	ColCompany        = "Empresa"
	ColCNPJ           = "CNPJ"
	ColRole           = "Cargo"
	ColArea           = "Área"
	ColExamType       = "Tipo de Exame"
	ColLastExamDate   = "Data do Último Exame"
	ColCPF            = "CPF"
)

// Column headers of the "FuncaoExames" sheet.
const (
	ColRequirementRole = "Função"
	ColRequiredExams   = "Exames Obrigatórios"
)

// headerAliases maps drifted header spellings onto the canonical ones.
var headerAliases = map[string]string{
	"Area": ColArea,
	"Tipo": ColExamType,
}

// CSVSource reads both record sets from CSV exports of the spreadsheet.
type CSVSource struct {
	recordsPath string
	rolesPath   string
}

// NewCSVSource builds a source over the two CSV files.
func NewCSVSource(recordsPath, rolesPath string) *CSVSource {
	return &CSVSource{recordsPath: recordsPath, rolesPath: rolesPath}
}

// ExamRecords reads the "Dados" export.
func (s *CSVSource) ExamRecords(ctx context.Context) ([]domain.ExamRecord, error) {
	f, err := os.Open(s.recordsPath)
	if err != nil {
		return nil, unavailable(SetExamRecords, err)
	}
	defer f.Close()

	records, err := ReadExamRecords(f)
	if err != nil {
		return nil, unavailable(SetExamRecords, err)
	}
	return records, nil
}

// RoleRequirements reads the "FuncaoExames" export.
func (s *CSVSource) RoleRequirements(ctx context.Context) ([]domain.RoleExamRequirement, error) {
	f, err := os.Open(s.rolesPath)
	if err != nil {
		return nil, unavailable(SetRoleRequirements, err)
	}
	defer f.Close()

	reqs, err := ReadRoleRequirements(f)
	if err != nil {
		return nil, unavailable(SetRoleRequirements, err)
	}
	return reqs, nil
}

// ReadExamRecords decodes a "Dados" CSV. Every value is kept as text so
// registration ids, CPF and CNPJ keep their leading zeros.
func ReadExamRecords(r io.Reader) ([]domain.ExamRecord, error) {
	tbl, err := readTable(r)
	if err != nil {
		return nil, err
	}
	if !tbl.has(ColLastExamDate) {
		return nil, fmt.Errorf("missing column %q", ColLastExamDate)
	}

	records := make([]domain.ExamRecord, 0, len(tbl.rows))
	for _, row := range tbl.rows {
		records = append(records, domain.ExamRecord{
			RegistrationID: tbl.get(row, ColRegistrationID),
			EmployeeName:   tbl.get(row, ColEmployeeName),
			Company:        tbl.get(row, ColCompany),
			CNPJ:           tbl.get(row, ColCNPJ),
			Role:           tbl.get(row, ColRole),
			Area:           tbl.get(row, ColArea),
			ExamType:       tbl.get(row, ColExamType),
			LastExamDate:   tbl.get(row, ColLastExamDate),
			CPF:            tbl.get(row, ColCPF),
		})
	}
	return records, nil
}

// ReadRoleRequirements decodes a "FuncaoExames" CSV.
func ReadRoleRequirements(r io.Reader) ([]domain.RoleExamRequirement, error) {
	tbl, err := readTable(r)
	if err != nil {
		return nil, err
	}
	if !tbl.has(ColRequirementRole) {
		return nil, fmt.Errorf("missing column %q", ColRequirementRole)
	}

	reqs := make([]domain.RoleExamRequirement, 0, len(tbl.rows))
	for _, row := range tbl.rows {
		reqs = append(reqs, domain.RoleExamRequirement{
			Role:          tbl.get(row, ColRequirementRole),
			RequiredExams: compliance.ParseRequiredExams(tbl.get(row, ColRequiredExams)),
		})
	}
	return reqs, nil
}

type table struct {
	index map[string]int
	rows  [][]string
}

func readTable(r io.Reader) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	tbl := &table{index: make(map[string]int, len(header))}
	for i, name := range header {
		name = normalizeHeader(name, i == 0)
		if canonical, ok := headerAliases[name]; ok {
			if _, taken := tbl.index[canonical]; taken {
				continue
			}
			name = canonical
		}
		tbl.index[name] = i
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if blankRow(row) {
			continue
		}
		tbl.rows = append(tbl.rows, row)
	}
	return tbl, nil
}

func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *table) get(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func normalizeHeader(name string, first bool) string {
	if first {
		name = strings.TrimPrefix(name, "\ufeff")
	}
	return norm.NFC.String(strings.TrimSpace(name))
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
