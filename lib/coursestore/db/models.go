package db

import (
	"database/sql"
)

type Course struct {
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

type CourseEnrollment struct {
	AcademicYear int64
	CourseID     int64
	Quarter      string
	Enrolled     int64
}

type FailedPage struct {
	AcademicYear int64
	Page         int64
	Url          string
	Reason       string
}

type Run struct {
	AcademicYear int64
	ScrapedAt    int64
	PageCount    int64
}
