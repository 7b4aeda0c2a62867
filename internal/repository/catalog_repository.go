package repository

import (
	"context"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/domain"
)

type CatalogRepository interface {
	ListByCourse(ctx context.Context, department string, code string) ([]domain.Section, error)
}

type CatalogPostgresRepository struct {
	execer Execer
}

func NewCatalogPostgresRepository(execer Execer) *CatalogPostgresRepository {
	return &CatalogPostgresRepository{execer: execer}
}

func (r *CatalogPostgresRepository) ListByCourse(ctx context.Context, department string, code string) ([]domain.Section, error) {
	const query = `
SELECT id, class_id, department, code, title, component, days, start_time, end_time, instructor, room, credit_hours, seats
FROM scheduler.catalog_sections
WHERE department = $1 AND code = $2
ORDER BY component ASC, class_id ASC
`
	rows, err := r.execer.QueryContext(ctx, query, department, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		var section domain.Section
		if err := rows.Scan(
			&section.ID,
			&section.ClassID,
			&section.Department,
			&section.Code,
			&section.Title,
			&section.Component,
			&section.Days,
			&section.StartTime,
			&section.EndTime,
			&section.Instructor,
			&section.Room,
			&section.CreditHours,
			&section.Seats,
		); err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sections, nil
}
