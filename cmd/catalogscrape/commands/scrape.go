package commands

import (
	"catalogscrape/lib/coursestore"
	"catalogscrape/lib/progress"
	"catalogscrape/lib/scrapers/explorecourses"
	"catalogscrape/lib/serviceutil"
	"catalogscrape/lib/tabular"
	"catalogscrape/lib/telemetry"
	"catalogscrape/services/scrape"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scrapeYear        int
	scrapeOut         string
	scrapeDb          string
	scrapeConcurrency int
	scrapeNoProgress  bool
)

func init() {
	scrapeCmd.Flags().IntVar(&scrapeYear, "year", 0, "The calendar year the academic year starts in, 2016 scrapes 2016-2017.")
	scrapeCmd.Flags().StringVarP(&scrapeOut, "out", "o", "", "The CSV file to write, defaults to <output_dir>/courses_<year>_<year+1>.csv.")
	scrapeCmd.Flags().StringVar(&scrapeDb, "db", "", "A sqlite path or libsql:// url to also store the run in, overrides the config.")
	scrapeCmd.Flags().IntVarP(&scrapeConcurrency, "concurrency", "c", 0, "The maximum listing pages fetched at once, overrides the config.")
	scrapeCmd.Flags().BoolVar(&scrapeNoProgress, "no-progress", false, "Log progress instead of drawing a progress bar.")
	scrapeCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(scrapeCmd)
}

func outputPath(year int) string {
	if scrapeOut != "" {
		return scrapeOut
	}
	return filepath.Join(cfg.OutputDir, tabular.FileName(year))
}

func renderManifest(out io.Writer, manifest scrape.Manifest) {
	t := newTable(out)
	t.SetTitle(fmt.Sprintf("%d of %d pages failed", len(manifest.Failed), manifest.PageCount))
	t.AppendHeader(table.Row{"Page", "Url", "Reason"})
	for _, f := range manifest.Failed {
		t.AppendRow(table.Row{f.Page, f.Url, f.Err.Error()})
	}
	t.Render()
}

func storeRun(ctx context.Context, dsn string, year int, result scrape.Result) error {
	database, err := coursestore.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer database.Close()

	failed := make([]coursestore.FailedPage, len(result.Manifest.Failed))
	for i, f := range result.Manifest.Failed {
		failed[i] = coursestore.FailedPage{
			Page:   f.Page,
			Url:    f.Url,
			Reason: f.Err.Error(),
		}
	}
	return coursestore.NewStore(database).Push(ctx, coursestore.Run{
		Year:      year,
		Time:      time.Now(),
		PageCount: result.Manifest.PageCount,
		Courses:   result.Courses,
		Failed:    failed,
	})
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape --year <start year> [--out <path/to/courses.csv>] [--db <path/to/runs.db>]",
	Short: "Scrapes every listing page of an academic year and writes the tagged courses to a CSV file.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		if tel.Enabled() {
			telemetry.InstrumentPerfStats(ctx, time.Second*30)
		}

		client, err := newClient()
		if err != nil {
			serviceutil.Fatal("failed to initialize catalog client", err)
		}

		concurrency := cfg.Concurrency
		if scrapeConcurrency > 0 {
			concurrency = scrapeConcurrency
		}
		var reporter progress.Reporter = progress.NewBar(os.Stderr)
		if scrapeNoProgress {
			reporter = &progress.Log{Ctx: ctx}
		}

		scraper, err := scrape.NewScraper(client, scrape.Options{
			Concurrency: concurrency,
			Progress:    reporter,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize scraper", err)
		}

		t1 := time.Now()
		result, err := scraper.Scrape(ctx, explorecourses.AcademicYear(scrapeYear))
		if err != nil {
			serviceutil.Fatal("scrape failed", err)
		}
		t2 := time.Now()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Parsed %d courses.\n", result.Parsed)
		slog.Info(
			"scrape finished",
			"seconds", t2.Sub(t1).Seconds(),
			"pages", result.Manifest.PageCount,
			"failed_pages", len(result.Manifest.Failed),
			"incomplete", result.Incomplete,
			"retained", len(result.Courses),
		)
		if len(result.Manifest.Failed) > 0 {
			renderManifest(out, result.Manifest)
		}

		path := outputPath(scrapeYear)
		err = tabular.WriteFile(path, result.Courses)
		if err != nil {
			serviceutil.Fatal("failed to write courses file", err)
		}
		slog.Info("wrote courses file", "path", path, "courses", len(result.Courses))

		dsn := cfg.Db
		if scrapeDb != "" {
			dsn = scrapeDb
		}
		if dsn != "" {
			err = storeRun(ctx, dsn, scrapeYear, result)
			if err != nil {
				serviceutil.Fatal("failed to store run", err)
			}
			slog.Info("stored run", "db", dsn, "year", scrapeYear)
		}

		fmt.Fprintln(out, "Done.")
	},
}
