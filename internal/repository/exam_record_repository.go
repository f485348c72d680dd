package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/exam-compliance/internal/domain"
)

// ExamRecordRepository reads and replaces the exam records snapshot table.
type ExamRecordRepository interface {
	ListAll(ctx context.Context) ([]domain.ExamRecord, error)
	ReplaceAll(ctx context.Context, records []domain.ExamRecord) (int64, error)
}

type examRecordRepository struct {
	pool *pgxpool.Pool
}

// NewExamRecordRepository builds the repository.
func NewExamRecordRepository(pool *pgxpool.Pool) ExamRecordRepository {
	return &examRecordRepository{pool: pool}
}

var examRecordColumns = []string{
	"registration_id", "employee_name", "company", "cnpj", "role",
	"area", "exam_type", "last_exam_date", "cpf",
}

func (r *examRecordRepository) ListAll(ctx context.Context) ([]domain.ExamRecord, error) {
	const query = `
        SELECT registration_id, employee_name, company, cnpj, role,
               area, exam_type, last_exam_date, cpf
        FROM exam_records ORDER BY row_number`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ExamRecord
	for rows.Next() {
		var rec domain.ExamRecord
		if err := rows.Scan(
			&rec.RegistrationID,
			&rec.EmployeeName,
			&rec.Company,
			&rec.CNPJ,
			&rec.Role,
			&rec.Area,
			&rec.ExamType,
			&rec.LastExamDate,
			&rec.CPF,
		); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

// ReplaceAll swaps the table contents for records inside one transaction.
func (r *examRecordRepository) ReplaceAll(ctx context.Context, records []domain.ExamRecord) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE exam_records RESTART IDENTITY`); err != nil {
		return 0, err
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{
			rec.RegistrationID, rec.EmployeeName, rec.Company, rec.CNPJ, rec.Role,
			rec.Area, rec.ExamType, rec.LastExamDate, rec.CPF,
		})
	}
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"exam_records"}, examRecordColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, err
	}
	return copied, tx.Commit(ctx)
}
