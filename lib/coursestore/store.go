package coursestore

import (
	"catalogscrape/lib/catalog"
	"catalogscrape/lib/coursestore/db"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var ErrRunNotFound = errors.New("no stored run for academic year")

func isRemote(dsn string) bool {
	return strings.HasPrefix(dsn, "libsql://") ||
		strings.HasPrefix(dsn, "https://") ||
		strings.HasPrefix(dsn, "http://")
}

// Open connects to a local sqlite file (or ":memory:") or a remote libsql
// database when `dsn` is a libsql:// or http(s):// url, then makes sure
// the schema exists.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("a database path was not specified")
	}

	var database *sql.DB
	if isRemote(dsn) {
		remote, err := sql.Open("libsql", dsn)
		if err != nil {
			return nil, err
		}
		database = remote
	} else {
		if dsn != ":memory:" {
			err := os.MkdirAll(filepath.Dir(dsn), 0755)
			if err != nil {
				return nil, err
			}
		}
		local, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer, see
		// https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
		local.SetMaxOpenConns(1)
		_, err = local.ExecContext(ctx, "PRAGMA journal_mode=WAL")
		if err != nil {
			local.Close()
			return nil, err
		}
		database = local
	}

	for _, stmt := range db.Statements() {
		_, err := database.ExecContext(ctx, stmt)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return database, nil
}

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

type FailedPage struct {
	Page   int
	Url    string
	Reason string
}

// Run is everything stored about one academic year's scrape.
type Run struct {
	Year      int
	Time      time.Time
	PageCount int
	Courses   []catalog.Course
	Failed    []FailedPage
}

// Push replaces the stored run for `run.Year`.
func (s Store) Push(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	year := int64(run.Year)
	err = txqry.DeleteEnrollment(ctx, year)
	if err != nil {
		return err
	}
	err = txqry.DeleteCourses(ctx, year)
	if err != nil {
		return err
	}
	err = txqry.DeleteFailedPages(ctx, year)
	if err != nil {
		return err
	}

	err = txqry.UpsertRun(ctx, db.UpsertRunParams{
		AcademicYear: year,
		ScrapedAt:    run.Time.Unix(),
		PageCount:    int64(run.PageCount),
	})
	if err != nil {
		return err
	}

	for _, course := range run.Courses {
		params, err := courseParams(year, course)
		if err != nil {
			return err
		}
		err = txqry.CreateCourse(ctx, params)
		if err != nil {
			return fmt.Errorf("store course %d: %w", course.ID, err)
		}

		for _, q := range catalog.Quarters {
			enrolled, ok := course.EnrollmentIn(q)
			if !ok {
				continue
			}
			err = txqry.CreateEnrollment(ctx, db.CreateEnrollmentParams{
				AcademicYear: year,
				CourseID:     int64(course.ID),
				Quarter:      string(q),
				Enrolled:     int64(enrolled),
			})
			if err != nil {
				return err
			}
		}
	}

	for _, failed := range run.Failed {
		err = txqry.CreateFailedPage(ctx, db.CreateFailedPageParams{
			AcademicYear: year,
			Page:         int64(failed.Page),
			Url:          failed.Url,
			Reason:       failed.Reason,
		})
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func courseParams(year int64, course catalog.Course) (db.CreateCourseParams, error) {
	ways, err := json.Marshal(course.Ways)
	if err != nil {
		return db.CreateCourseParams{}, err
	}
	gers, err := json.Marshal(course.Gers)
	if err != nil {
		return db.CreateCourseParams{}, err
	}
	var terms sql.NullString
	if course.Terms != nil {
		serialized, err := json.Marshal(course.Terms)
		if err != nil {
			return db.CreateCourseParams{}, err
		}
		terms = sql.NullString{String: string(serialized), Valid: true}
	}

	return db.CreateCourseParams{
		AcademicYear: year,
		ID:           int64(course.ID),
		Dept:         course.Department,
		Number:       course.Number,
		Title:        course.Title,
		Description:  course.Description,
		MinUnits:     int64(course.MinUnits),
		MaxUnits:     int64(course.MaxUnits),
		Ways:         string(ways),
		Gers:         string(gers),
		Terms:        terms,
	}, nil
}

func decodeList(serialized string) ([]string, error) {
	out := []string{}
	err := json.Unmarshal([]byte(serialized), &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// Pull reads back the stored run for an academic year, ErrRunNotFound if
// there is none.
func (s Store) Pull(ctx context.Context, year int) (Run, error) {
	key := int64(year)

	run, err := s.qry.GetRun(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w %d", ErrRunNotFound, year)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.qry.GetCourses(ctx, key)
	if err != nil {
		return Run{}, err
	}
	enrollment, err := s.qry.GetEnrollment(ctx, key)
	if err != nil {
		return Run{}, err
	}
	byCourse := map[int64]map[catalog.Quarter]int{}
	for _, e := range enrollment {
		quarters, ok := byCourse[e.CourseID]
		if !ok {
			quarters = map[catalog.Quarter]int{}
			byCourse[e.CourseID] = quarters
		}
		quarters[catalog.Quarter(e.Quarter)] = int(e.Enrolled)
	}

	courses := make([]catalog.Course, 0, len(rows))
	for _, r := range rows {
		ways, err := decodeList(r.Ways)
		if err != nil {
			slog.WarnContext(ctx, "corrupt ways column", "course", r.ID, "err", err)
			ways = []string{}
		}
		gers, err := decodeList(r.Gers)
		if err != nil {
			slog.WarnContext(ctx, "corrupt gers column", "course", r.ID, "err", err)
			gers = []string{}
		}
		var terms []string
		if r.Terms.Valid {
			terms, err = decodeList(r.Terms.String)
			if err != nil {
				slog.WarnContext(ctx, "corrupt terms column", "course", r.ID, "err", err)
				terms = nil
			}
		}
		quarters := byCourse[r.ID]
		if quarters == nil {
			quarters = map[catalog.Quarter]int{}
		}

		courses = append(courses, catalog.Course{
			ID:          int(r.ID),
			Department:  r.Dept,
			Number:      r.Number,
			Title:       r.Title,
			Description: r.Description,
			MinUnits:    int(r.MinUnits),
			MaxUnits:    int(r.MaxUnits),
			Ways:        ways,
			Gers:        gers,
			Terms:       terms,
			Enrollment:  quarters,
		})
	}

	failed, err := s.FailedPages(ctx, year)
	if err != nil {
		return Run{}, err
	}

	return Run{
		Year:      year,
		Time:      time.Unix(run.ScrapedAt, 0),
		PageCount: int(run.PageCount),
		Courses:   courses,
		Failed:    failed,
	}, nil
}

// FailedPages lists the manifest of pages that contributed nothing to the
// stored run.
func (s Store) FailedPages(ctx context.Context, year int) ([]FailedPage, error) {
	rows, err := s.qry.GetFailedPages(ctx, int64(year))
	if err != nil {
		return nil, err
	}
	failed := make([]FailedPage, len(rows))
	for i, r := range rows {
		failed[i] = FailedPage{
			Page:   int(r.Page),
			Url:    r.Url,
			Reason: r.Reason,
		}
	}
	return failed, nil
}

// Years lists the academic years with a stored run.
func (s Store) Years(ctx context.Context) ([]int, error) {
	runs, err := s.qry.GetRuns(ctx)
	if err != nil {
		return nil, err
	}
	years := make([]int, len(runs))
	for i, r := range runs {
		years[i] = int(r.AcademicYear)
	}
	return years, nil
}
