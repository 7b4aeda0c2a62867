package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/an-siuu-man/EECS-581-Team-29-Project-3/internal/domain"
)

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ScheduleRepository interface {
	// Save writes the full schedule. A nil schedule id creates a new row
	// and returns its id; a non-nil id overwrites the metadata and the
	// whole section list (delete then reinsert, never a diff).
	Save(ctx context.Context, sched domain.SavedSchedule) (uuid.UUID, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SavedSchedule, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.SavedSchedule, error)
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) (bool, error)
}

type SchedulePostgresRepository struct {
	execer Execer
}

func NewSchedulePostgresRepository(execer Execer) *SchedulePostgresRepository {
	return &SchedulePostgresRepository{execer: execer}
}

func (r *SchedulePostgresRepository) Save(ctx context.Context, sched domain.SavedSchedule) (uuid.UUID, error) {
	id := sched.ID
	if id == uuid.Nil {
		id = uuid.New()
		const insert = `
INSERT INTO scheduler.saved_schedules (id, user_id, name, term, year, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
`
		if _, err := r.execer.ExecContext(ctx, insert, id, sched.UserID, sched.Name, sched.Term, sched.Year); err != nil {
			return uuid.Nil, err
		}
	} else {
		const update = `
UPDATE scheduler.saved_schedules
SET name = $2, term = $3, year = $4, updated_at = now()
WHERE id = $1 AND user_id = $5
`
		result, err := r.execer.ExecContext(ctx, update, id, sched.Name, sched.Term, sched.Year, sched.UserID)
		if err != nil {
			return uuid.Nil, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return uuid.Nil, err
		}
		if affected == 0 {
			return uuid.Nil, sql.ErrNoRows
		}
	}

	const clear = `DELETE FROM scheduler.saved_schedule_sections WHERE schedule_id = $1`
	if _, err := r.execer.ExecContext(ctx, clear, id); err != nil {
		return uuid.Nil, err
	}

	const insertSection = `
INSERT INTO scheduler.saved_schedule_sections (
	schedule_id,
	position,
	section_id,
	class_id,
	department,
	code,
	title,
	component,
	days,
	start_time,
	end_time,
	instructor,
	room,
	credit_hours,
	seats
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`
	for position, section := range sched.Sections {
		if _, err := r.execer.ExecContext(
			ctx,
			insertSection,
			id,
			position,
			section.ID,
			section.ClassID,
			section.Department,
			section.Code,
			section.Title,
			section.Component,
			section.Days,
			section.StartTime,
			section.EndTime,
			section.Instructor,
			section.Room,
			section.CreditHours,
			section.Seats,
		); err != nil {
			return uuid.Nil, err
		}
	}

	return id, nil
}

func (r *SchedulePostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SavedSchedule, error) {
	const query = `
SELECT id, user_id, name, term, year
FROM scheduler.saved_schedules
WHERE user_id = $1
ORDER BY created_at ASC
`
	rows, err := r.execer.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []domain.SavedSchedule
	for rows.Next() {
		var sched domain.SavedSchedule
		if err := rows.Scan(&sched.ID, &sched.UserID, &sched.Name, &sched.Term, &sched.Year); err != nil {
			return nil, err
		}
		schedules = append(schedules, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range schedules {
		sections, err := r.listSections(ctx, schedules[i].ID)
		if err != nil {
			return nil, err
		}
		schedules[i].Sections = sections
	}

	return schedules, nil
}

func (r *SchedulePostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.SavedSchedule, error) {
	const query = `
SELECT id, user_id, name, term, year
FROM scheduler.saved_schedules
WHERE id = $1
`
	var sched domain.SavedSchedule
	row := r.execer.QueryRowContext(ctx, query, id)
	if err := row.Scan(&sched.ID, &sched.UserID, &sched.Name, &sched.Term, &sched.Year); err != nil {
		return domain.SavedSchedule{}, err
	}

	sections, err := r.listSections(ctx, sched.ID)
	if err != nil {
		return domain.SavedSchedule{}, err
	}
	sched.Sections = sections

	return sched, nil
}

func (r *SchedulePostgresRepository) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) (bool, error) {
	const query = `
DELETE FROM scheduler.saved_schedules
WHERE id = $1 AND user_id = $2
`
	result, err := r.execer.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *SchedulePostgresRepository) listSections(ctx context.Context, scheduleID uuid.UUID) ([]domain.Section, error) {
	const query = `
SELECT section_id, class_id, department, code, title, component, days, start_time, end_time, instructor, room, credit_hours, seats
FROM scheduler.saved_schedule_sections
WHERE schedule_id = $1
ORDER BY position ASC
`
	rows, err := r.execer.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		var section domain.Section
		var instructor sql.NullString
		var room sql.NullString
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
			&instructor,
			&room,
			&section.CreditHours,
			&section.Seats,
		); err != nil {
			return nil, err
		}
		if instructor.Valid {
			section.Instructor = instructor.String
		}
		if room.Valid {
			section.Room = room.String
		}
		sections = append(sections, section)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sections, nil
}
