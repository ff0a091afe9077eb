package db

import (
	"context"
	"database/sql"
)

const createCourse = `-- name: CreateCourse :exec
insert into course(
    academic_year, id, dept, number, title, description,
    min_units, max_units, ways, gers, terms
) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateCourseParams struct {
	AcademicYear int64
	ID           int64
	Dept         string
	Number       string
	Title        string
	Description  string
	MinUnits     int64
	MaxUnits     int64
	Ways         string
	Gers         string
	Terms        sql.NullString
}

func (q *Queries) CreateCourse(ctx context.Context, arg CreateCourseParams) error {
	_, err := q.db.ExecContext(ctx, createCourse,
		arg.AcademicYear,
		arg.ID,
		arg.Dept,
		arg.Number,
		arg.Title,
		arg.Description,
		arg.MinUnits,
		arg.MaxUnits,
		arg.Ways,
		arg.Gers,
		arg.Terms,
	)
	return err
}

const createEnrollment = `-- name: CreateEnrollment :exec
insert into course_enrollment(academic_year, course_id, quarter, enrolled)
values (?, ?, ?, ?)
`

type CreateEnrollmentParams struct {
	AcademicYear int64
	CourseID     int64
	Quarter      string
	Enrolled     int64
}

func (q *Queries) CreateEnrollment(ctx context.Context, arg CreateEnrollmentParams) error {
	_, err := q.db.ExecContext(ctx, createEnrollment,
		arg.AcademicYear,
		arg.CourseID,
		arg.Quarter,
		arg.Enrolled,
	)
	return err
}

const createFailedPage = `-- name: CreateFailedPage :exec
insert into failed_page(academic_year, page, url, reason) values (?, ?, ?, ?)
`

type CreateFailedPageParams struct {
	AcademicYear int64
	Page         int64
	Url          string
	Reason       string
}

func (q *Queries) CreateFailedPage(ctx context.Context, arg CreateFailedPageParams) error {
	_, err := q.db.ExecContext(ctx, createFailedPage,
		arg.AcademicYear,
		arg.Page,
		arg.Url,
		arg.Reason,
	)
	return err
}

const deleteCourses = `-- name: DeleteCourses :exec
delete from course where academic_year = ?
`

func (q *Queries) DeleteCourses(ctx context.Context, academicYear int64) error {
	_, err := q.db.ExecContext(ctx, deleteCourses, academicYear)
	return err
}

const deleteEnrollment = `-- name: DeleteEnrollment :exec
delete from course_enrollment where academic_year = ?
`

func (q *Queries) DeleteEnrollment(ctx context.Context, academicYear int64) error {
	_, err := q.db.ExecContext(ctx, deleteEnrollment, academicYear)
	return err
}

const deleteFailedPages = `-- name: DeleteFailedPages :exec
delete from failed_page where academic_year = ?
`

func (q *Queries) DeleteFailedPages(ctx context.Context, academicYear int64) error {
	_, err := q.db.ExecContext(ctx, deleteFailedPages, academicYear)
	return err
}

const getCourses = `-- name: GetCourses :many
select academic_year, id, dept, number, title, description, min_units, max_units, ways, gers, terms from course where academic_year = ? order by id
`

func (q *Queries) GetCourses(ctx context.Context, academicYear int64) ([]Course, error) {
	rows, err := q.db.QueryContext(ctx, getCourses, academicYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Course
	for rows.Next() {
		var i Course
		if err := rows.Scan(
			&i.AcademicYear,
			&i.ID,
			&i.Dept,
			&i.Number,
			&i.Title,
			&i.Description,
			&i.MinUnits,
			&i.MaxUnits,
			&i.Ways,
			&i.Gers,
			&i.Terms,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getEnrollment = `-- name: GetEnrollment :many
select academic_year, course_id, quarter, enrolled from course_enrollment where academic_year = ? order by course_id, quarter
`

func (q *Queries) GetEnrollment(ctx context.Context, academicYear int64) ([]CourseEnrollment, error) {
	rows, err := q.db.QueryContext(ctx, getEnrollment, academicYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CourseEnrollment
	for rows.Next() {
		var i CourseEnrollment
		if err := rows.Scan(
			&i.AcademicYear,
			&i.CourseID,
			&i.Quarter,
			&i.Enrolled,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getFailedPages = `-- name: GetFailedPages :many
select academic_year, page, url, reason from failed_page where academic_year = ? order by page
`

func (q *Queries) GetFailedPages(ctx context.Context, academicYear int64) ([]FailedPage, error) {
	rows, err := q.db.QueryContext(ctx, getFailedPages, academicYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []FailedPage
	for rows.Next() {
		var i FailedPage
		if err := rows.Scan(
			&i.AcademicYear,
			&i.Page,
			&i.Url,
			&i.Reason,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRun = `-- name: GetRun :one
select academic_year, scraped_at, page_count from run where academic_year = ?
`

func (q *Queries) GetRun(ctx context.Context, academicYear int64) (Run, error) {
	row := q.db.QueryRowContext(ctx, getRun, academicYear)
	var i Run
	err := row.Scan(&i.AcademicYear, &i.ScrapedAt, &i.PageCount)
	return i, err
}

const getRuns = `-- name: GetRuns :many
select academic_year, scraped_at, page_count from run order by academic_year
`

func (q *Queries) GetRuns(ctx context.Context) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, getRuns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Run
	for rows.Next() {
		var i Run
		if err := rows.Scan(&i.AcademicYear, &i.ScrapedAt, &i.PageCount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertRun = `-- name: UpsertRun :exec
insert into run(academic_year, scraped_at, page_count) values (?, ?, ?)
on conflict (academic_year) do update set
    scraped_at = excluded.scraped_at,
    page_count = excluded.page_count
`

type UpsertRunParams struct {
	AcademicYear int64
	ScrapedAt    int64
	PageCount    int64
}

func (q *Queries) UpsertRun(ctx context.Context, arg UpsertRunParams) error {
	_, err := q.db.ExecContext(ctx, upsertRun, arg.AcademicYear, arg.ScrapedAt, arg.PageCount)
	return err
}
