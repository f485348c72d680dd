package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/exam-compliance/internal/compliance"
	"github.com/spec-kit/exam-compliance/internal/domain"
)

// RoleRequirementRepository manages the role to required exams mapping.
type RoleRequirementRepository interface {
	ListAll(ctx context.Context) ([]domain.RoleExamRequirement, error)
	ReplaceAll(ctx context.Context, requirements []domain.RoleExamRequirement) (int64, error)
}

type roleRequirementRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRequirementRepository builds the repository.
func NewRoleRequirementRepository(pool *pgxpool.Pool) RoleRequirementRepository {
	return &roleRequirementRepository{pool: pool}
}

func (r *roleRequirementRepository) ListAll(ctx context.Context) ([]domain.RoleExamRequirement, error) {
	const query = `
        SELECT role, required_exams
        FROM role_exam_requirements ORDER BY row_number`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RoleExamRequirement
	for rows.Next() {
		var (
			role string
			raw  string
		)
		if err := rows.Scan(&role, &raw); err != nil {
			return nil, err
		}
		result = append(result, domain.RoleExamRequirement{
			Role:          role,
			RequiredExams: compliance.ParseRequiredExams(raw),
		})
	}
	return result, rows.Err()
}

func (r *roleRequirementRepository) ReplaceAll(ctx context.Context, requirements []domain.RoleExamRequirement) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `TRUNCATE role_exam_requirements RESTART IDENTITY`); err != nil {
		return 0, err
	}

	rows := make([][]any, 0, len(requirements))
	for _, req := range requirements {
		rows = append(rows, []any{req.Role, strings.Join(req.RequiredExams, ", ")})
	}
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"role_exam_requirements"}, []string{"role", "required_exams"}, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, err
	}
	return copied, tx.Commit(ctx)
}
