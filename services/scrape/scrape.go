package scrape

import (
	"catalogscrape/lib/catalog"
	"catalogscrape/lib/progress"
	"catalogscrape/lib/scrapers/explorecourses"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("services/scrape")
var meter = otel.Meter("services/scrape")

const DefaultConcurrency = 4

// Source lists and downloads catalog listing pages.
// *explorecourses.Client is the production implementation.
type Source interface {
	PageCount(ctx context.Context, year explorecourses.AcademicYear) (int, error)
	FetchPage(ctx context.Context, year explorecourses.AcademicYear, page int) (string, error)
	PageUrl(year explorecourses.AcademicYear, page int) string
}

type Options struct {
	// maximum pages in flight, DefaultConcurrency when zero
	Concurrency int
	// observes completed pages, progress.Nop when nil
	Progress progress.Reporter
	// first id handed out, 1 when zero
	StartID int
}

type Scraper struct {
	source Source
	opts   Options

	pageCounter   metric.Int64Counter
	courseCounter metric.Int64Counter
}

func NewScraper(source Source, opts Options) (*Scraper, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Progress == nil {
		opts.Progress = progress.Nop{}
	}
	if opts.StartID == 0 {
		opts.StartID = 1
	}

	pageCounter, err := meter.Int64Counter(
		"scrape_pages_total",
		metric.WithDescription("The total amount of listing pages processed, by outcome."),
	)
	if err != nil {
		return nil, err
	}
	courseCounter, err := meter.Int64Counter(
		"scrape_courses_total",
		metric.WithDescription("The total amount of course blocks extracted."),
	)
	if err != nil {
		return nil, err
	}

	return &Scraper{
		source:        source,
		opts:          opts,
		pageCounter:   pageCounter,
		courseCounter: courseCounter,
	}, nil
}

// PageResult is the outcome of one listing page. a page with a non-nil Err
// contributes no courses.
type PageResult struct {
	Page int
	Url  string
	Raw  []catalog.RawCourse
	Err  error
}

func (r PageResult) Failed() bool {
	return r.Err != nil
}

type FailedPage struct {
	Page int
	Url  string
	Err  error
}

// Manifest accounts for every enumerated page of a run.
type Manifest struct {
	PageCount int
	Failed    []FailedPage
	// the enumeration error when the page count could not be determined
	EnumerationErr error
}

func (m Manifest) Succeeded() int {
	return m.PageCount - len(m.Failed)
}

// Err joins the causes of every failed page, nil when none failed.
func (m Manifest) Err() error {
	errs := make([]error, len(m.Failed))
	for i, f := range m.Failed {
		errs[i] = fmt.Errorf("page %d: %w", f.Page, f.Err)
	}
	return errors.Join(errs...)
}

type Result struct {
	Year explorecourses.AcademicYear
	// courses with at least one WAYS or GER code, in id order
	Courses []catalog.Course
	// every course that was assigned an id, before filtering
	Parsed int
	// courses missing a department, number or title
	Incomplete int
	Manifest   Manifest
}

// Merge walks page results in page order, assigning ids from `seq` to every
// extracted course and recording failed pages. it must run on the complete,
// page indexed result set so ids are independent of completion order.
func Merge(results []PageResult, seq *catalog.Sequence) ([]catalog.Course, Manifest) {
	manifest := Manifest{PageCount: len(results)}
	var courses []catalog.Course
	for _, r := range results {
		if r.Failed() {
			manifest.Failed = append(manifest.Failed, FailedPage{
				Page: r.Page,
				Url:  r.Url,
				Err:  r.Err,
			})
			continue
		}
		for _, raw := range r.Raw {
			courses = append(courses, catalog.Assemble(raw, seq))
		}
	}
	return courses, manifest
}

// Validate logs courses with empty identity fields and returns how many
// there were.
func Validate(ctx context.Context, courses []catalog.Course) int {
	incomplete := 0
	for _, c := range courses {
		missing := c.MissingIdentity()
		if len(missing) == 0 {
			continue
		}
		incomplete++
		slog.WarnContext(
			ctx, "incomplete course record",
			"id", c.ID,
			"course", c.FullName(),
			"missing", missing,
		)
	}
	return incomplete
}

// Scrape runs the whole pipeline for one academic year: enumerate, fetch
// and extract every page, merge, then filter. only a
// *catalog.MissingFieldError or cancellation of `ctx` fails the run, every
// other page level failure is recorded in the manifest.
func (s *Scraper) Scrape(ctx context.Context, year explorecourses.AcademicYear) (Result, error) {
	ctx, span := tracer.Start(ctx, "scrape:Scrape")
	defer span.End()
	span.SetAttributes(attribute.String("academic_year", year.String()))

	result := Result{Year: year}

	pageCount, err := s.source.PageCount(ctx, year)
	if err != nil {
		slog.WarnContext(ctx, "page enumeration failed, no pages will be scraped", "year", year.String(), "err", err)
		result.Manifest.EnumerationErr = err
		pageCount = 0
	}
	slog.InfoContext(ctx, "enumerated listing pages", "year", year.String(), "pages", pageCount)

	results, err := s.scrapePages(ctx, year, pageCount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scrape aborted")
		return Result{}, err
	}

	courses, manifest := Merge(results, catalog.NewSequence(s.opts.StartID))
	manifest.EnumerationErr = result.Manifest.EnumerationErr
	result.Manifest = manifest
	result.Parsed = len(courses)
	result.Incomplete = Validate(ctx, courses)
	result.Courses = catalog.FilterTagged(courses)

	span.SetAttributes(
		attribute.Int("pages", pageCount),
		attribute.Int("failed_pages", len(manifest.Failed)),
		attribute.Int("parsed", result.Parsed),
		attribute.Int("retained", len(result.Courses)),
	)
	return result, nil
}

func (s *Scraper) scrapePages(ctx context.Context, year explorecourses.AcademicYear, pageCount int) ([]PageResult, error) {
	s.opts.Progress.Start(pageCount)
	defer s.opts.Progress.Finish()

	results := make([]PageResult, pageCount)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.opts.Concurrency)
	for page := 0; page < pageCount; page++ {
		group.Go(func() error {
			defer s.opts.Progress.Advance()

			result, err := s.scrapePage(groupCtx, year, page)
			results[page] = result
			return err
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("scrape interrupted: %w", ctx.Err())
	}
	return results, nil
}

// scrapePage never fails for fetch or structure problems, those end up in
// the returned PageResult. the error return is reserved for problems that
// abort the run.
func (s *Scraper) scrapePage(ctx context.Context, year explorecourses.AcademicYear, page int) (PageResult, error) {
	ctx, span := tracer.Start(ctx, "scrape:page")
	defer span.End()

	link := s.source.PageUrl(year, page)
	span.SetAttributes(
		attribute.Int("page", page),
		attribute.String("url", link),
	)
	result := PageResult{Page: page, Url: link}

	fail := func(err error, message string) (PageResult, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, message)
		s.pageCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failed")))
		slog.WarnContext(ctx, message, "page", page, "url", link, "err", err)
		result.Err = err
		return result, nil
	}

	if ctx.Err() != nil {
		result.Err = ctx.Err()
		return result, nil
	}

	markup, err := s.source.FetchPage(ctx, year, page)
	if err != nil {
		return fail(err, "failed to fetch page")
	}

	raw, err := catalog.ExtractPage(markup)
	var missing *catalog.MissingFieldError
	if errors.As(err, &missing) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "missing required field")
		return result, fmt.Errorf("page %d (%s): %w", page, link, err)
	}
	if err != nil {
		return fail(err, "failed to extract page")
	}

	for i := range raw {
		raw[i].Page = page
	}
	result.Raw = raw

	s.pageCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
	s.courseCounter.Add(ctx, int64(len(raw)))
	slog.DebugContext(ctx, "scraped page", "page", page, "courses", len(raw))
	return result, nil
}
