package explorecourses

import (
	"catalogscrape/lib/htmlutil"
	"catalogscrape/lib/restyutil"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/PuerkitoBio/purell"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scrapers/explorecourses")

const (
	DefaultBaseUrl        = "https://explorecourses.stanford.edu"
	DefaultView           = "catalog"
	DefaultQuery          = "all courses"
	DefaultRequestTimeout = 30 * time.Second
)

// AcademicYear is identified by the calendar year it starts in.
type AcademicYear int

// String renders the two years concatenated, 2016 becomes "20162017".
func (y AcademicYear) String() string {
	return fmt.Sprintf("%04d%04d", int(y), int(y)+1)
}

// ErrNoPagination is returned when a listing page has no pagination
// control to count pages from.
var ErrNoPagination = errors.New("pagination control not found")

// FetchError is any failure to retrieve one listing page.
type FetchError struct {
	Url  string
	Page int
	// zero when no response was received
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch page %d '%s': status %d: %s", e.Page, e.Url, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch page %d '%s': %s", e.Page, e.Url, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type ClientOptions struct {
	BaseUrl string
	View    string
	Query   string
	// bounds each request, expiry is reported as a FetchError
	RequestTimeout time.Duration
	// zero disables client side rate limiting
	RequestsPerSecond float64
	UserAgent         string
	// when set, raw http exchanges are written here while debug logging
	// is enabled
	Output restyutil.InstrumentOutput
}

type Client struct {
	http    *resty.Client
	baseUrl *url.URL
	opts    ClientOptions
	limiter *rate.Limiter
	// listing pages already downloaded, so that page 0 is not fetched
	// twice by PageCount and FetchPage
	pages *expirable.LRU[string, string]
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.View == "" {
		opts.View = DefaultView
	}
	if opts.Query == "" {
		opts.Query = DefaultQuery
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseUrl.String(), "/")).
		SetTimeout(opts.RequestTimeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	restyutil.InstrumentClient(client, tracer, opts.Output)

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		http:    client,
		baseUrl: baseUrl,
		opts:    opts,
		limiter: limiter,
		pages:   expirable.NewLRU[string, string](4, nil, 10*time.Minute),
	}, nil
}

// PageUrl fills the search template for one zero-based page index.
func (c *Client) PageUrl(year AcademicYear, page int) string {
	query := url.Values{}
	query.Set("view", c.opts.View)
	query.Set("page", strconv.Itoa(page))
	query.Set("q", c.opts.Query)
	query.Set("academicYear", year.String())

	link := c.baseUrl.JoinPath("search")
	link.RawQuery = query.Encode()
	return link.String()
}

func cacheKey(link string) string {
	normalized, err := purell.NormalizeURLString(
		link,
		purell.FlagsSafe|purell.FlagSortQuery|purell.FlagRemoveFragment,
	)
	if err != nil {
		return link
	}
	return normalized
}

// FetchPage retrieves the raw markup of one listing page. every failure,
// including a non 2xx response or an expired timeout, is a *FetchError.
func (c *Client) FetchPage(ctx context.Context, year AcademicYear, page int) (string, error) {
	ctx, span := tracer.Start(ctx, "client:FetchPage")
	defer span.End()

	link := c.PageUrl(year, page)
	span.SetAttributes(
		attribute.String("url", link),
		attribute.Int("page", page),
	)

	key := cacheKey(link)
	if markup, ok := c.pages.Get(key); ok {
		span.SetStatus(codes.Ok, "CACHE HIT")
		return markup, nil
	}

	if c.limiter != nil {
		err := c.limiter.Wait(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "rate limiter wait")
			return "", &FetchError{Url: link, Page: page, Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return "", &FetchError{Url: link, Page: page, Err: err}
	}
	if !res.IsSuccess() {
		err := fmt.Errorf("unexpected response '%s'", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return "", &FetchError{Url: link, Page: page, StatusCode: res.StatusCode(), Err: err}
	}

	markup := res.String()
	c.pages.Add(key, markup)
	return markup, nil
}

// Pagination returns the navigable page links shown on page 0.
func (c *Client) Pagination(ctx context.Context, year AcademicYear) ([]htmlutil.Anchor, error) {
	ctx, span := tracer.Start(ctx, "client:Pagination")
	defer span.End()

	markup, err := c.FetchPage(ctx, year, 0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch first page")
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	pagination := doc.Find("#pagination")
	if pagination.Length() == 0 {
		span.SetStatus(codes.Error, "no pagination")
		return nil, ErrNoPagination
	}
	return htmlutil.GetAnchors(ctx, pagination.Find("a")), nil
}

// PageCount counts the listing pages of an academic year. on any failure
// it logs and reports zero pages alongside the cause.
func (c *Client) PageCount(ctx context.Context, year AcademicYear) (int, error) {
	anchors, err := c.Pagination(ctx, year)
	if err != nil {
		slog.WarnContext(
			ctx, "unable to determine page count, assuming 0",
			"url", c.PageUrl(year, 0),
			"err", err,
		)
		return 0, err
	}
	return len(anchors), nil
}
